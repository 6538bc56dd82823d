package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

type DrawKind int

const (
	DrawMapImage DrawKind = iota
	DrawRadius
	DrawMarker
	DrawLabel
)

// DrawCommand is one primitive in screen pixel space.
type DrawCommand struct {
	Kind      DrawKind
	X, Y      float64
	Scale     float64
	Radius    float64
	LineWidth float64
	Color     color.NRGBA
	Outline   color.NRGBA
	Text      string
}

// Frame is everything a backend needs to paint one view.
type Frame struct {
	Image    image.Image
	View     ViewState
	Commands []DrawCommand
	Status   string
}

type RenderOptions struct {
	ShowRadius bool
	ShowLabels bool
}

var (
	labelFillColor    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	labelOutlineColor = color.NRGBA{A: 153}
)

// Render lays out the map and its waypoints for view. It reads but never
// modifies its inputs.
func Render(img image.Image, view ViewState, wps []Waypoint, opts RenderOptions) (Frame, error) {
	if img == nil {
		return Frame{}, fmt.Errorf("%w: map image not loaded", ErrViewportPrecondition)
	}
	frame := Frame{
		Image:  img,
		View:   view,
		Status: statusSummary(len(wps), view.Scale),
	}
	frame.Commands = append(frame.Commands, DrawCommand{
		Kind:  DrawMapImage,
		X:     view.PanX,
		Y:     view.PanY,
		Scale: view.Scale,
	})

	for _, w := range wps {
		if w.Location == nil {
			continue
		}
		sx, sy := worldToScreen(*w.Location, view)
		c := parseColor(w.Color)

		if opts.ShowRadius && w.Radius != nil && isFinite(*w.Radius) && *w.Radius > 0 {
			frame.Commands = append(frame.Commands, DrawCommand{
				Kind:      DrawRadius,
				X:         sx,
				Y:         sy,
				Radius:    *w.Radius * view.Scale,
				LineWidth: radiusLineWidth,
				Color:     c,
			})
		}
		frame.Commands = append(frame.Commands, DrawCommand{
			Kind:   DrawMarker,
			X:      sx,
			Y:      sy,
			Radius: markerRadius,
			Color:  c,
		})
		if opts.ShowLabels && w.Name != "" {
			frame.Commands = append(frame.Commands, DrawCommand{
				Kind:      DrawLabel,
				X:         sx + labelOffset,
				Y:         sy - labelOffset,
				LineWidth: labelOutline,
				Color:     labelFillColor,
				Outline:   labelOutlineColor,
				Text:      w.Name,
			})
		}
	}
	return frame, nil
}

func statusSummary(count int, scale float64) string {
	return fmt.Sprintf("%d waypoint(s) • zoom %.2f", count, scale)
}

// visible reports whether a circle of radius r at (x, y) touches a
// width x height screen.
func visible(x, y, r, width, height float64) bool {
	r = math.Abs(r)
	return x+r >= 0 && y+r >= 0 && x-r <= width && y-r <= height
}

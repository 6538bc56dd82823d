package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Viewport owns the view transform for a virtual screen of width x height
// pixels. It never draws; callers redraw after mutating it.
type Viewport struct {
	view   ViewState
	width  float64
	height float64
}

func NewViewport(width, height float64) *Viewport {
	return &Viewport{
		view:   ViewState{Scale: 1},
		width:  width,
		height: height,
	}
}

func (v *Viewport) View() ViewState {
	return v.view
}

// SetView restores a snapshot, clamping its scale.
func (v *Viewport) SetView(s ViewState) {
	s.Scale = clampScale(s.Scale)
	v.view = s
}

func (v *Viewport) Size() (float64, float64) {
	return v.width, v.height
}

// Resize changes the virtual screen size while keeping the map point under
// the visible centre where it was.
func (v *Viewport) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	cx, cy := v.center()
	wx, wy := screenToWorld(cx, cy, v.view)
	v.width, v.height = width, height
	v.centerOn(wx, wy)
}

func (v *Viewport) center() (float64, float64) {
	return v.width / 2, v.height / 2
}

// centerOn puts map pixel (px, py) under the visible centre at the
// current scale.
func (v *Viewport) centerOn(px, py float64) {
	cx, cy := v.center()
	v.view.PanX = cx - px*v.view.Scale
	v.view.PanY = cy - py*v.view.Scale
}

// ZoomAtPoint scales by factor while keeping the content under the screen
// point (sx, sy) fixed.
func (v *Viewport) ZoomAtPoint(factor, sx, sy float64) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	wx, wy := screenToWorld(sx, sy, v.view)
	next := clampScale(v.view.Scale * factor)
	v.view.Scale = next
	v.view.PanX = sx - wx*next
	v.view.PanY = sy - wy*next
}

func (v *Viewport) ZoomIn() {
	cx, cy := v.center()
	v.ZoomAtPoint(zoomStep, cx, cy)
}

func (v *Viewport) ZoomOut() {
	cx, cy := v.center()
	v.ZoomAtPoint(1/zoomStep, cx, cy)
}

// Pan moves the view by a screen delta. Panning past the map edge is
// allowed.
func (v *Viewport) Pan(dx, dy float64) {
	v.view.PanX += dx
	v.view.PanY += dy
}

// Reset shows the middle of the map at scale 1.
func (v *Viewport) Reset() {
	v.view.Scale = 1
	v.centerOn(mapWidth/2, mapHeight/2)
}

// FitToWaypoints frames every located waypoint with fitPadding pixels of
// slack. On failure the view is left untouched.
func (v *Viewport) FitToWaypoints(wps []Waypoint) error {
	if len(wps) == 0 {
		return fmt.Errorf("%w: no waypoints to fit", ErrViewportPrecondition)
	}
	var xs, ys []float64
	for _, w := range wps {
		if w.Location == nil {
			continue
		}
		px, py := mapPixel(w.Location.X, w.Location.Z)
		xs = append(xs, px)
		ys = append(ys, py)
	}
	if len(xs) == 0 {
		return fmt.Errorf("%w: waypoints invalid for fit", ErrViewportPrecondition)
	}
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)
	if !isFinite(minX) || !isFinite(maxX) || !isFinite(minY) || !isFinite(maxY) {
		return fmt.Errorf("%w: waypoints invalid for fit", ErrViewportPrecondition)
	}

	bboxW := math.Max(1, maxX-minX+fitPadding)
	bboxH := math.Max(1, maxY-minY+fitPadding)
	v.view.Scale = clampScale(math.Min(v.width/bboxW, v.height/bboxH))
	v.centerOn((minX+maxX)/2, (minY+maxY)/2)
	return nil
}

// CenterOnWaypoint zooms to scale around waypoint idx. Bad indices and
// waypoints without a location are ignored; the result reports whether
// the view moved.
func (v *Viewport) CenterOnWaypoint(wps []Waypoint, idx int, scale float64) bool {
	if idx < 0 || idx >= len(wps) || wps[idx].Location == nil {
		return false
	}
	loc := wps[idx].Location
	px, py := mapPixel(loc.X, loc.Z)
	if !isFinite(px) || !isFinite(py) {
		return false
	}
	v.view.Scale = clampScale(scale)
	v.centerOn(px, py)
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

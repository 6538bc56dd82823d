package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/f64"
)

var backgroundColor = color.NRGBA{R: 0x0b, G: 0x0f, B: 0x14, A: 0xff}

func loadLabelFace(size float64) (font.Face, error) {
	ttfFont, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	return truetype.NewFace(ttfFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// rasterize paints frame onto a width x height image.
func rasterize(frame Frame, width, height int) (*image.RGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: empty viewport %dx%d", ErrViewportPrecondition, width, height)
	}
	dc := gg.NewContext(width, height)
	dc.SetColor(backgroundColor)
	dc.Clear()

	face, err := loadLabelFace(labelFontSize)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)

	dst, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected canvas type %T", dc.Image())
	}
	w, h := float64(width), float64(height)

	for _, cmd := range frame.Commands {
		switch cmd.Kind {
		case DrawMapImage:
			blitMap(dst, frame.Image, cmd)
		case DrawRadius:
			if !visible(cmd.X, cmd.Y, cmd.Radius, w, h) {
				continue
			}
			dc.SetColor(cmd.Color)
			dc.SetLineWidth(cmd.LineWidth)
			dc.DrawCircle(cmd.X, cmd.Y, cmd.Radius)
			dc.Stroke()
		case DrawMarker:
			if !visible(cmd.X, cmd.Y, cmd.Radius, w, h) {
				continue
			}
			dc.SetColor(cmd.Color)
			dc.DrawCircle(cmd.X, cmd.Y, cmd.Radius)
			dc.Fill()
		case DrawLabel:
			drawOutlinedString(dc, cmd)
		}
	}
	return dst, nil
}

// blitMap draws the map so that it spans mapWidth x mapHeight map pixels,
// whatever the decoded raster's own size is.
func blitMap(dst *image.RGBA, src image.Image, cmd DrawCommand) {
	if src == nil {
		return
	}
	b := src.Bounds()
	if b.Empty() {
		return
	}
	kx := cmd.Scale * mapWidth / float64(b.Dx())
	ky := cmd.Scale * mapHeight / float64(b.Dy())
	s2d := f64.Aff3{
		kx, 0, cmd.X - float64(b.Min.X)*kx,
		0, ky, cmd.Y - float64(b.Min.Y)*ky,
	}
	xdraw.ApproxBiLinear.Transform(dst, s2d, src, b, xdraw.Over, nil)
}

// drawOutlinedString fakes a stroked outline by stamping the text around
// its position before filling it.
func drawOutlinedString(dc *gg.Context, cmd DrawCommand) {
	d := cmd.LineWidth / 2
	dc.SetColor(cmd.Outline)
	for _, o := range [][2]float64{{-d, -d}, {0, -d}, {d, -d}, {-d, 0}, {d, 0}, {-d, d}, {0, d}, {d, d}} {
		dc.DrawString(cmd.Text, cmd.X+o[0], cmd.Y+o[1])
	}
	dc.SetColor(cmd.Color)
	dc.DrawString(cmd.Text, cmd.X, cmd.Y)
}

func imageFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return "webp"
	default:
		return "png"
	}
}

func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("WebP encode: %v", err)
		}
		return nil
	case "png":
		return png.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format %q", format)
}

package main

import "math"

// ViewState is the affine map from map-pixel space to screen pixels:
// screen = world*Scale + Pan.
type ViewState struct {
	Scale float64
	PanX  float64
	PanY  float64
}

// roundHalfUp rounds the way the map calibration was measured: halves go
// towards positive infinity, so -0.5 becomes 0.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// mapPixel projects a game location onto the map image. Altitude (Y) is
// not part of the image plane.
func mapPixel(x, z float64) (float64, float64) {
	return roundHalfUp(x + offsetX), roundHalfUp(z + offsetY)
}

// worldToScreen places a game location on screen.
func worldToScreen(loc Point3, view ViewState) (float64, float64) {
	px, py := mapPixel(loc.X, loc.Z)
	return px*view.Scale + view.PanX, py*view.Scale + view.PanY
}

// screenToWorld undoes pan and scale only. The result is in map-pixel
// space, not game coordinates; the calibration offsets are never removed.
func screenToWorld(sx, sy float64, view ViewState) (float64, float64) {
	return (sx - view.PanX) / view.Scale, (sy - view.PanY) / view.Scale
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) {
		return minScale
	}
	return math.Max(minScale, math.Min(maxScale, s))
}

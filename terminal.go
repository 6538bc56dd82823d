package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Luminance ramp for map shading, darkest first.
const shadeRamp = " .:-=+*#%@"

const (
	markerGlyph = '●'
	ringGlyph   = '·'
)

type termCell struct {
	r  rune
	fg string // "" means map shading
}

// termGrid is a Frame painted onto terminal cells. Each cell covers
// cellW x cellH screen pixels.
type termGrid struct {
	cols, rows   int
	cellW, cellH float64
	cells        []termCell
}

var shadeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

func rasterizeTerminal(frame Frame, cols, rows int, cellW, cellH float64) *termGrid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := &termGrid{
		cols:  cols,
		rows:  rows,
		cellW: cellW,
		cellH: cellH,
		cells: make([]termCell, cols*rows),
	}
	for i := range g.cells {
		g.cells[i].r = ' '
	}

	for _, cmd := range frame.Commands {
		switch cmd.Kind {
		case DrawMapImage:
			g.shadeMap(frame.Image, cmd)
		case DrawRadius:
			g.plotRing(cmd)
		case DrawMarker:
			cx, cy := g.cellAt(cmd.X, cmd.Y)
			g.set(cx, cy, markerGlyph, hexRGB(cmd.Color))
		case DrawLabel:
			cx, cy := g.cellAt(cmd.X, cmd.Y)
			for i, r := range []rune(cmd.Text) {
				g.set(cx+i, cy, r, hexRGB(cmd.Color))
			}
		}
	}
	return g
}

func (g *termGrid) cellAt(sx, sy float64) (int, int) {
	return int(math.Floor(sx / g.cellW)), int(math.Floor(sy / g.cellH))
}

func (g *termGrid) inside(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < g.cols && cy < g.rows
}

func (g *termGrid) set(cx, cy int, r rune, fg string) {
	if !g.inside(cx, cy) {
		return
	}
	g.cells[cy*g.cols+cx] = termCell{r: r, fg: fg}
}

func (g *termGrid) at(cx, cy int) termCell {
	if !g.inside(cx, cy) {
		return termCell{}
	}
	return g.cells[cy*g.cols+cx]
}

// shadeMap samples the map pixel under each cell centre.
func (g *termGrid) shadeMap(img image.Image, cmd DrawCommand) {
	if img == nil || cmd.Scale <= 0 {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	view := ViewState{Scale: cmd.Scale, PanX: cmd.X, PanY: cmd.Y}
	ramp := []rune(shadeRamp)
	for cy := 0; cy < g.rows; cy++ {
		for cx := 0; cx < g.cols; cx++ {
			px, py := screenToWorld((float64(cx)+0.5)*g.cellW, (float64(cy)+0.5)*g.cellH, view)
			if px < 0 || py < 0 || px >= mapWidth || py >= mapHeight {
				continue
			}
			ix := b.Min.X + int(px*float64(b.Dx())/mapWidth)
			iy := b.Min.Y + int(py*float64(b.Dy())/mapHeight)
			l := luminance(img.At(ix, iy))
			idx := int(l * float64(len(ramp)-1))
			if idx >= len(ramp) {
				idx = len(ramp) - 1
			}
			g.cells[cy*g.cols+cx] = termCell{r: ramp[idx]}
		}
	}
}

// plotRing walks the circle circumference; it never overwrites markers.
func (g *termGrid) plotRing(cmd DrawCommand) {
	step := math.Min(g.cellW, g.cellH) / 2
	n := int(2 * math.Pi * cmd.Radius / step)
	if n < 16 {
		n = 16
	}
	if n > 2048 {
		n = 2048
	}
	fg := hexRGB(cmd.Color)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		cx, cy := g.cellAt(cmd.X+cmd.Radius*math.Cos(a), cmd.Y+cmd.Radius*math.Sin(a))
		if g.at(cx, cy).r == markerGlyph {
			continue
		}
		g.set(cx, cy, ringGlyph, fg)
	}
}

// String renders the grid row by row. Plain output carries no escape
// codes.
func (g *termGrid) String(plain bool) string {
	styles := map[string]lipgloss.Style{}
	style := func(fg string) lipgloss.Style {
		if fg == "" {
			return shadeStyle
		}
		s, ok := styles[fg]
		if !ok {
			s = lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
			styles[fg] = s
		}
		return s
	}

	var out strings.Builder
	for cy := 0; cy < g.rows; cy++ {
		if cy > 0 {
			out.WriteByte('\n')
		}
		row := g.cells[cy*g.cols : (cy+1)*g.cols]
		if plain {
			for _, c := range row {
				out.WriteRune(c.r)
			}
			continue
		}
		for start := 0; start < len(row); {
			end := start
			var seg strings.Builder
			for end < len(row) && row[end].fg == row[start].fg {
				seg.WriteRune(row[end].r)
				end++
			}
			out.WriteString(style(row[start].fg).Render(seg.String()))
			start = end
		}
	}
	return out.String()
}

func luminance(c color.Color) float64 {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return 0
	}
	return (0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)) / 0xffff
}

func hexRGB(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

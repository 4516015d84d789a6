package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/termfolio/internal/field"
	"github.com/san-kum/termfolio/internal/viz"
)

const background = "#000000"

// FrameToSVG draws a frame as vector lines and dots on a width×height page.
func FrameToSVG(w io.Writer, f field.Frame, width, height int, theme viz.Theme) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	type pt struct {
		x, y int
		ok   bool
	}
	proj := make([]pt, len(f.Nodes))
	for i, n := range f.Nodes {
		x, y, _, ok := f.Camera.Project(n, width, height)
		proj[i] = pt{x, y, ok}
	}

	fmt.Fprintf(&sb, `<g stroke="%s" stroke-opacity="%.3f" stroke-width="1">
`, theme.Edge, f.Opacity.Edges)
	for _, e := range f.Edges {
		a, b := proj[e.I], proj[e.J]
		if !a.ok || !b.ok {
			continue
		}
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d"/>
`, a.x, a.y, b.x, b.y)
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<g fill="%s" fill-opacity="%.3f">
`, theme.Node, f.Opacity.Nodes)
	for _, p := range proj {
		if p.ok {
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="1.5"/>
`, p.x, p.y)
		}
	}
	sb.WriteString("</g>\n")

	if !f.Highlight.Parked() {
		if x, y, _, ok := f.Camera.Project(f.Highlight.Position, width, height); ok {
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="4" fill="%s"/>
`, x, y, theme.Highlight)
		}
	}
	sb.WriteString("</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// FrameToBrailleSVG draws f onto a terminal-sized Braille canvas, one cell
// per cellW×cellH pixels, and writes the dots as SVG.
func FrameToBrailleSVG(w io.Writer, f field.Frame, width, height, cellW, cellH int, theme viz.Theme) error {
	s := field.NewCanvasSurface(cellW, cellH)
	s.Resize(width, height)
	s.Draw(f)
	_, err := io.WriteString(w, CanvasToSVG(s.Canvas(), 4, theme)+"\n")
	return err
}

// CanvasToSVG converts a Braille canvas to SVG dots colored by ink.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)

	// Braille dot bits, row by row.
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	fill := map[viz.Ink]string{
		viz.InkNone:      string(theme.Muted),
		viz.InkEdge:      string(theme.Edge),
		viz.InkNode:      string(theme.Node),
		viz.InkHighlight: string(theme.Highlight),
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			color := fill[canvas.Ink[row][col]]

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					cx := baseX + float64(dx)*scale + scale/2
					cy := baseY + float64(dy)*scale + scale/2
					fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, color)
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values left to right as a polyline, scaled to fit.
func SeriesToSVG(values []float64, width, height int, stroke string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	span *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, stroke)

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

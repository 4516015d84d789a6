package field

import (
	"sync"

	"github.com/san-kum/termfolio/internal/viz"
)

// Frame is everything a Surface needs to draw one tick.
type Frame struct {
	Width, Height int
	Nodes         []viz.Vec3
	Edges         []Edge
	Highlight     Highlight
	Camera        viz.Camera
	Opacity       Opacity
	// Glow fades from 1 to 0 over PulseInterval after a pulse.
	Glow  float64
	Index uint64
}

// Surface draws frames. Sizes are viewport pixels.
type Surface interface {
	Resize(w, h int)
	Draw(Frame)
	Close() error
}

// SurfaceFactory creates the surface at mount time.
type SurfaceFactory func(w, h int) (Surface, error)

// CanvasSurface draws frames onto a Braille canvas, one terminal cell per
// cellW×cellH viewport pixels.
type CanvasSurface struct {
	mu           sync.Mutex
	canvas       *viz.Canvas
	cellW, cellH int
	opacity      Opacity
	glow         float64
}

func NewCanvasSurface(cellW, cellH int) *CanvasSurface {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	return &CanvasSurface{canvas: viz.NewCanvas(0, 0), cellW: cellW, cellH: cellH}
}

// Factory returns a SurfaceFactory that hands out s.
func (s *CanvasSurface) Factory() SurfaceFactory {
	return func(w, h int) (Surface, error) {
		s.Resize(w, h)
		return s, nil
	}
}

func (s *CanvasSurface) Resize(w, h int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Resize(w/s.cellW, h/s.cellH)
}

func (s *CanvasSurface) Draw(f Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.canvas
	c.Clear()
	s.opacity = f.Opacity
	s.glow = f.Glow
	pw, ph := c.PixelSize()
	if pw == 0 || ph == 0 {
		return
	}

	type pt struct {
		x, y int
		ok   bool
	}
	proj := make([]pt, len(f.Nodes))
	for i, n := range f.Nodes {
		x, y, _, ok := f.Camera.Project(n, pw, ph)
		proj[i] = pt{x, y, ok}
	}
	for _, e := range f.Edges {
		a, b := proj[e.I], proj[e.J]
		if a.ok && b.ok {
			c.DrawLine(a.x, a.y, b.x, b.y, viz.InkEdge)
		}
	}
	for _, p := range proj {
		if p.ok {
			c.Set(p.x, p.y)
		}
	}
	if f.Highlight.Parked() {
		return
	}
	x, y, _, ok := f.Camera.Project(f.Highlight.Position, pw, ph)
	if !ok {
		return
	}
	r := 1
	if f.Glow > 0.5 {
		r = 2
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.SetInk(x+dx, y+dy, viz.InkHighlight)
		}
	}
}

func (s *CanvasSurface) Close() error { return nil }

// Render returns the last frame styled with theme.
func (s *CanvasSurface) Render(theme viz.Theme) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Render(theme.InkStyles(s.opacity.Edges))
}

// Rows returns the last frame as plain Braille rows.
func (s *CanvasSurface) Rows() [][]rune {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([][]rune, len(s.canvas.Grid))
	for i, r := range s.canvas.Grid {
		rows[i] = append([]rune(nil), r...)
	}
	return rows
}

// Canvas returns a copy of the last frame's canvas.
func (s *CanvasSurface) Canvas() *viz.Canvas {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &viz.Canvas{Width: s.canvas.Width, Height: s.canvas.Height}
	for i := range s.canvas.Grid {
		c.Grid = append(c.Grid, append([]rune(nil), s.canvas.Grid[i]...))
		c.Ink = append(c.Ink, append([]viz.Ink(nil), s.canvas.Ink[i]...))
	}
	return c
}

// Cells returns the canvas size in terminal cells.
func (s *CanvasSurface) Cells() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.Width, s.canvas.Height
}

// RenderSpan renders cells [from, to) of one canvas row styled with theme.
func (s *CanvasSurface) RenderSpan(row, from, to int, theme viz.Theme) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.RenderSpan(row, from, to, theme.InkStyles(s.opacity.Edges))
}

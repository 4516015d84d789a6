package gui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/viz"
)

type palette struct {
	bg, text, accent, muted, faint rl.Color
	edge, node, highlight          rl.Color
}

func newPalette(t viz.Theme) palette {
	return palette{
		bg:        rl.NewColor(0, 0, 0, 255),
		text:      toColor(t.Text),
		accent:    toColor(t.Accent),
		muted:     toColor(t.Muted),
		faint:     toColor(t.Faint),
		edge:      toColor(t.Edge),
		node:      toColor(t.Node),
		highlight: toColor(t.Highlight),
	}
}

func (p palette) tone(t tone) rl.Color {
	switch t {
	case toneTitle:
		return p.text
	case toneAccent:
		return p.accent
	case toneMuted:
		return p.muted
	case toneFaint:
		return p.faint
	}
	return p.text
}

// toColor converts a #rrggbb theme color. Anything else is white.
func toColor(c lipgloss.Color) rl.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(string(c), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return rl.NewColor(255, 255, 255, 255)
	}
	return rl.NewColor(r, g, b, 255)
}

func vec(v viz.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

// toCamera maps the field camera onto raylib. FOV is vertical in both.
func toCamera(c viz.Camera) rl.Camera3D {
	return rl.NewCamera3D(vec(c.Position), vec(c.Target), vec(c.Up), float32(c.FOV*180/math.Pi), rl.CameraPerspective)
}

type box struct {
	x, y, w, h float32
	cols       int
}

func (b box) contains(p rl.Vector2) bool {
	return p.X >= b.x && p.X < b.x+b.w && p.Y >= b.y && p.Y < b.y+b.h
}

// panelBox is the side panel area. Compact windows use the full width.
func (a *App) panelBox() box {
	w, h := a.host.Size()
	margin := float32(40)
	if a.caps.Compact {
		margin = 16
	}
	width := min(float32(w)-2*margin, 560)
	b := box{x: margin, y: 96, w: width, h: float32(h) - 96 - 48}
	b.cols = max(int(b.w/(sizeBody*0.6)), 10)
	return b
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.palette.bg)

	state := a.seq.State()
	if state >= boot.Zooming {
		a.drawField()
	}
	switch state {
	case boot.AwaitingGesture:
		a.drawGesture()
	case boot.Booting, boot.Zooming:
		a.drawLoader(state)
	case boot.Revealed:
		a.drawContent()
	}
	rl.EndDrawing()
}

func (a *App) drawField() {
	s := a.surface
	if !s.ready {
		return
	}
	f := s.frame
	p := a.palette

	rl.BeginMode3D(toCamera(f.Camera))
	edge := rl.Fade(p.edge, float32(f.Opacity.Edges))
	for _, e := range f.Edges {
		rl.DrawLine3D(vec(f.Nodes[e.I]), vec(f.Nodes[e.J]), edge)
	}
	node := rl.Fade(p.node, float32(f.Opacity.Nodes))
	for _, n := range f.Nodes {
		rl.DrawSphere(vec(n), 0.05, node)
	}
	if !f.Highlight.Parked() {
		r := float32(0.15 + 0.15*f.Glow)
		rl.DrawSphere(vec(f.Highlight.Position), r, p.highlight)
	}
	rl.EndMode3D()
}

func (a *App) drawText(text string, x, y float32, size int, color rl.Color) {
	rl.DrawTextEx(a.font, text, rl.NewVector2(x, y), float32(size), 1, color)
}

func (a *App) centerText(text string, y float32, size int, color rl.Color) {
	w, _ := a.host.Size()
	m := rl.MeasureTextEx(a.font, text, float32(size), 1)
	a.drawText(text, (float32(w)-m.X)/2, y, size, color)
}

func (a *App) drawMark(cy float32, alpha float32) {
	w, _ := a.host.Size()
	p := a.palette
	size := float32(64)
	x := (float32(w) - size) / 2
	rl.DrawRectangleLines(int32(x), int32(cy-size/2), int32(size), int32(size), rl.Fade(p.faint, alpha))
	m := rl.MeasureTextEx(a.font, a.doc.Profile.Mark, 32, 1)
	a.drawText(a.doc.Profile.Mark, x+(size-m.X)/2, cy-m.Y/2, 32, rl.Fade(p.accent, alpha))
}

func (a *App) drawGesture() {
	_, h := a.host.Size()
	cy := float32(h) / 2
	a.drawMark(cy-60, 1)
	a.centerText("[ PRESS ANY KEY TO INITIALIZE ]", cy+10, 20, a.palette.text)
	a.centerText("S skip intro (silent)   Q quit", cy+44, 14, a.palette.muted)
}

// drawLoader fades the loader out over the zoom.
func (a *App) drawLoader(state boot.State) {
	w, h := a.host.Size()
	p := a.palette
	progress := a.seq.Progress()

	alpha := float32(1)
	if state == boot.Zooming {
		start := zoomStart()
		if start < 1 {
			alpha = float32(math.Max(0, 1-(progress-start)/(1-start)))
		}
	}

	cy := float32(h) / 2
	a.drawMark(cy-60, alpha)
	a.centerText(a.loader.String(), cy+10, 16, rl.Fade(p.accent, alpha))

	barW := float32(min(w-80, 240))
	x := (float32(w) - barW) / 2
	rl.DrawRectangle(int32(x), int32(cy+40), int32(barW), 2, rl.Fade(p.faint, alpha))
	rl.DrawRectangle(int32(x), int32(cy+40), int32(barW*float32(progress)), 2, rl.Fade(p.accent, alpha))
	a.centerText(fmt.Sprintf("%03d%%", int(progress*100)), cy+52, 14, rl.Fade(p.muted, alpha))
}

// zoomStart is the schedule fraction at which the zoom begins.
func zoomStart() float64 {
	steps := boot.DefaultSchedule()
	total := boot.Length(steps)
	for _, s := range steps {
		if s.Enter == boot.Zooming && total > 0 {
			return float64(s.At) / float64(total)
		}
	}
	return 1
}

func (a *App) drawContent() {
	w, h := a.host.Size()
	p := a.palette

	a.drawText("["+a.doc.Profile.Mark+"] "+strings.ToUpper(a.name.String()), 40, 32, 20, p.text)
	status := strings.ToUpper(a.doc.Profile.Status)
	m := rl.MeasureTextEx(a.font, status, 14, 1)
	a.drawText(status, float32(w)-m.X-40, 36, 14, p.muted)

	b := a.panelBox()
	rl.DrawRectangle(int32(b.x-12), int32(b.y-12), int32(b.w+24), int32(b.h+24), rl.Fade(p.bg, 0.6))

	rl.BeginScissorMode(int32(b.x), int32(b.y), int32(b.w), int32(b.h))
	y := b.y - float32(a.scroll)
	for _, r := range layoutDocument(a.doc, a.panels, b.cols) {
		rh := float32(rowHeight(r))
		if y+rh >= b.y && y <= b.y+b.h && r.text != "" {
			col := p.tone(r.tone)
			if r.panel != "" && a.panels.Expanded(r.panel) && r.tone == toneTitle {
				col = p.accent
			}
			a.drawText(r.text, b.x, y, r.size, col)
		}
		y += rh
	}
	rl.EndScissorMode()

	hints := "WHEEL scroll   HOVER open   T theme   Q quit"
	if a.caps.Touch {
		hints = "WHEEL scroll   CLICK open   T theme   Q quit"
	}
	a.drawText(hints, 40, float32(h)-32, 14, p.faint)
	a.drawText(fmt.Sprintf("%d FPS", rl.GetFPS()), float32(w)-100, float32(h)-32, 14, p.faint)
}

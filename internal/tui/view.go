package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/viz"
)

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	switch m.s.seq.State() {
	case boot.AwaitingGesture:
		return m.viewGesture()
	case boot.Booting, boot.Zooming:
		return m.viewLoader()
	default:
		return m.viewContent()
	}
}

func (m model) viewGesture() string {
	s := m.styles
	block := []string{}
	block = append(block, strings.Split(m.mark(), "\n")...)
	block = append(block,
		"",
		s.Title.Render("[ PRESS ANY KEY TO INITIALIZE ]"),
		"",
		s.KeyHint.Render("s skip intro (silent)   q quit"),
	)
	return m.center(block)
}

func (m model) viewLoader() string {
	s := m.styles
	p := m.s.seq.Progress()
	bar := min(30, max(m.width-4, 4))

	block := []string{}
	block = append(block, strings.Split(m.mark(), "\n")...)
	block = append(block,
		"",
		s.Accent.Render(m.loader.String()),
		viz.ProgressBar(p, bar, s.Accent, s.Faint),
		s.Faint.Render(fmt.Sprintf("%s %03d%%", viz.AnimatedSpinner(m.frames), int(p*100))),
	)
	return m.center(block)
}

func (m model) mark() string {
	return m.styles.Panel.Render(m.styles.Accent.Render(m.doc.Profile.Mark))
}

// center draws block in the middle of the screen over the backdrop.
func (m model) center(block []string) string {
	w := 0
	for _, l := range block {
		w = max(w, lipgloss.Width(l))
	}
	for i, l := range block {
		block[i] = lipgloss.PlaceHorizontal(w, lipgloss.Center, l)
	}
	top := max((m.height-len(block))/2, 0)
	left := max((m.width-w)/2, 0)
	return m.compose(block, top, left, w)
}

func (m model) viewContent() string {
	left, w := m.column()
	s := m.styles

	block := make([]string, 0, m.height)
	block = append(block, m.header(w)...)

	body := m.bodyRows()
	if m.menu {
		block = append(block, m.menuRows(body)...)
	} else {
		p := m.page()
		for i := m.offset; i < m.offset+body; i++ {
			if i < len(p.lines) {
				block = append(block, p.lines[i].text)
			} else {
				block = append(block, "")
			}
		}
	}

	hints := "j/k scroll  tab focus  enter open  1-4 jump  t theme  q quit"
	if m.s.caps.Compact {
		hints = "j/k scroll  tab/enter open  m menu  q quit"
	}
	block = append(block, s.KeyHint.Render(hints))
	return m.compose(block, 0, left, w)
}

func (m model) header(w int) []string {
	s := m.styles
	name := s.Accent.Render("["+m.doc.Profile.Mark+"] ") + viz.GradientText(strings.ToUpper(m.name.String()), m.theme.Text, m.theme.Accent)
	right := s.Faint.Render(fmt.Sprintf("%3d%%", int(m.progress()*100)))
	gap := max(w-lipgloss.Width(name)-lipgloss.Width(right), 1)
	top := name + strings.Repeat(" ", gap) + right

	var nav string
	if m.s.caps.Compact {
		nav = s.Muted.Render("m MENU")
	} else {
		items := make([]string, len(sections))
		for i, sec := range sections {
			items[i] = s.Faint.Render("["+sec.key+"] ") + s.Muted.Render(strings.ToUpper(sec.label))
		}
		nav = strings.Join(items, "  ")
	}
	return []string{top, nav, viz.Separator(w, s.Faint)}
}

func (m model) menuRows(rows int) []string {
	s := m.styles
	out := make([]string, 0, rows)
	out = append(out, "")
	for _, sec := range sections {
		out = append(out, s.Accent.Render(fmt.Sprintf("[0%s] ", sec.key))+s.Title.Render(strings.ToUpper(sec.label)), "")
	}
	out = append(out, s.KeyHint.Render("1-4 jump   m close"))
	for len(out) < rows {
		out = append(out, "")
	}
	return out[:rows]
}

// compose lays block over the field backdrop, rows top.., columns
// left..left+width.
func (m model) compose(block []string, top, left, width int) string {
	rows := make([]string, m.height)
	for y := range rows {
		i := y - top
		if i < 0 || i >= len(block) {
			rows[y] = m.backdrop(y, 0, m.width)
			continue
		}
		rows[y] = m.backdrop(y, 0, left) + fit(block[i], width) + m.backdrop(y, left+width, m.width)
	}
	return strings.Join(rows, "\n")
}

// backdrop renders cells [from, to) of a field row, blank until the zoom
// starts.
func (m model) backdrop(row, from, to int) string {
	n := to - from
	if n <= 0 {
		return ""
	}
	st := m.s.seq.State()
	if st < boot.Zooming || m.s.renderer == nil || !m.s.renderer.Drawing() {
		return strings.Repeat(" ", n)
	}
	span := m.s.surface.RenderSpan(row, from, to, m.theme)
	return fit(span, n)
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w > width {
		s = lipgloss.NewStyle().MaxWidth(width).Render(s)
		w = lipgloss.Width(s)
	}
	if w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

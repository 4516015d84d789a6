// Package tui is the terminal front end: a boot screen that waits for a
// gesture, then the portfolio over a Braille rendering of the particle field.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/host"
	"github.com/san-kum/termfolio/internal/panels"
	"github.com/san-kum/termfolio/internal/viz"
)

const (
	headerRows  = 3
	footerRows  = 1
	maxColumn   = 76
	wheelStep   = 3
	decryptRate = 50 * time.Millisecond

	loaderLabel = "Kernel_Init_Sequence"
)

var sections = []struct{ key, id, label string }{
	{"1", "history", "History"},
	{"2", "modules", "Modules"},
	{"3", "archives", "Archives"},
	{"4", "recognition", "Recognition"},
}

type decryptMsg time.Time

func decryptTick() tea.Cmd {
	return tea.Tick(decryptRate, func(t time.Time) tea.Msg { return decryptMsg(t) })
}

type model struct {
	s      *session
	doc    *content.Document
	theme  viz.Theme
	styles viz.Styles

	width  int
	height int

	offset int
	focus  string
	hover  string
	menu   bool
	frames int

	loader *content.Decrypter
	name   *content.Decrypter
}

func newModel(deps Deps) model {
	s := newSession(deps)
	theme := viz.GetTheme(s.deps.Config.Theme)
	m := model{
		s:      s,
		doc:    s.deps.Content,
		theme:  theme,
		styles: viz.NewStyles(theme),
		loader: content.NewDecrypter(loaderLabel, false, s.glyphs),
		name:   content.NewDecrypter(s.deps.Content.Profile.Name, true, s.glyphs),
	}
	if s.deps.Config.Boot.Skip {
		if err := s.seq.Skip(); err != nil {
			s.deps.Logger.Warn().Err(err).Msg("skip intro")
		}
	}
	return m
}

func (m model) Init() tea.Cmd { return decryptTick() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.BlurMsg:
		if m.s.mounted() {
			m.s.host.Emit(host.Event{Kind: host.PointerLeave})
		}
		if m.hover != "" {
			m.s.panels.Leave(m.hover)
			m.hover = ""
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if !m.s.mounted() {
			m.s.mount(msg.Width, msg.Height)
		} else {
			w, h := m.s.deps.Config.CellsToPixels(msg.Width, msg.Height)
			m.s.host.Emit(host.Event{Kind: host.Resize, Width: w, Height: h})
		}
		m.clampOffset()
		return m, nil
	case frameMsg:
		m.frames++
		return m, nil
	case bootMsg:
		if boot.State(msg) == boot.Revealed {
			m.s.deps.Logger.Debug().Msg("content revealed")
		}
		return m, nil
	case decryptMsg:
		now := time.Time(msg)
		switch m.s.seq.State() {
		case boot.Booting, boot.Zooming:
			m.loader.Tick(now)
		case boot.Revealed:
			m.name.Tick(now)
		}
		return m, decryptTick()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	switch m.s.seq.State() {
	case boot.AwaitingGesture:
		return m.gestureKey(msg)
	case boot.Revealed:
		if m.menu {
			return m.menuKey(msg)
		}
		return m.contentKey(msg)
	}
	return m, nil
}

func (m model) gestureKey(msg tea.KeyMsg) (model, tea.Cmd) {
	var err error
	if msg.String() == "s" {
		err = m.s.seq.Skip()
	} else {
		err = m.s.seq.Gesture()
	}
	if err != nil {
		m.s.deps.Logger.Debug().Err(err).Msg("boot input ignored")
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "m", "esc":
		m.menu = false
	default:
		for _, sec := range sections {
			if msg.String() == sec.key {
				m.jump(sec.id)
				m.menu = false
			}
		}
	}
	return m, nil
}

func (m model) contentKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.scrollBy(1)
	case "k", "up":
		m.scrollBy(-1)
	case "pgdown", "ctrl+d", " ":
		m.scrollBy(m.bodyRows() / 2)
	case "pgup", "ctrl+u":
		m.scrollBy(-m.bodyRows() / 2)
	case "g", "home":
		m.scrollBy(-m.offset)
	case "G", "end":
		m.scrollBy(m.maxOffset() - m.offset)
	case "tab":
		m.cycleFocus(1)
	case "shift+tab":
		m.cycleFocus(-1)
	case "enter":
		m.toggle(m.focus)
	case "m":
		m.menu = true
		m.s.panels.LeaveAll()
		m.hover = ""
	case "t":
		m.theme = m.theme.Next()
		m.styles = viz.NewStyles(m.theme)
	default:
		for _, sec := range sections {
			if msg.String() == sec.key {
				m.jump(sec.id)
			}
		}
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (model, tea.Cmd) {
	if !m.s.mounted() {
		return m, nil
	}
	cfg := m.s.deps.Config
	cw, ch := cfg.Viewport.CellWidth, cfg.Viewport.CellHeight
	m.s.host.Emit(host.Event{Kind: host.PointerMove, X: msg.X*cw + cw/2, Y: msg.Y*ch + ch/2})

	state := m.s.seq.State()
	switch {
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(wheelStep)
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-wheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if state == boot.AwaitingGesture {
			if err := m.s.seq.Gesture(); err != nil {
				m.s.deps.Logger.Debug().Err(err).Msg("boot input ignored")
			}
			return m, nil
		}
		if state == boot.Revealed && m.s.panels.Mode() == panels.Touch {
			if id := m.panelAt(msg.X, msg.Y); id != "" {
				m.focus = id
				m.s.panels.Tap(id)
			}
		}
	case msg.Action == tea.MouseActionMotion && state == boot.Revealed:
		id := m.panelAt(msg.X, msg.Y)
		if id != m.hover {
			if m.hover != "" {
				m.s.panels.Leave(m.hover)
			}
			if id != "" {
				m.s.panels.Hover(id)
			}
			m.hover = id
		}
	}
	return m, nil
}

// toggle opens or closes a panel from the keyboard in either mode.
func (m *model) toggle(id string) {
	if id == "" {
		return
	}
	set := m.s.panels
	if set.Mode() == panels.Touch {
		set.Tap(id)
		return
	}
	if set.Expanded(id) {
		set.Leave(id)
	} else {
		set.Hover(id)
	}
}

func (m *model) cycleFocus(dir int) {
	exp := m.doc.Experience
	if len(exp) == 0 {
		return
	}
	i := -1
	for j, e := range exp {
		if e.ID == m.focus {
			i = j
		}
	}
	switch {
	case i < 0 && dir < 0:
		i = len(exp) - 1
	case i < 0:
		i = 0
	default:
		i = (i + dir + len(exp)) % len(exp)
	}
	m.focus = exp[i].ID

	p := m.page()
	for row, l := range p.lines {
		if l.panel == m.focus {
			if row < m.offset || row >= m.offset+m.bodyRows() {
				m.scrollBy(row - m.offset)
			}
			break
		}
	}
}

func (m *model) jump(section string) {
	p := m.page()
	if row, ok := p.sections[section]; ok {
		m.scrollBy(row - m.offset)
	}
}

func (m *model) scrollBy(n int) {
	m.offset += n
	m.clampOffset()
}

// clampOffset keeps the offset in range and feeds scroll progress to the
// field.
func (m *model) clampOffset() {
	limit := m.maxOffset()
	if m.offset > limit {
		m.offset = limit
	}
	if m.offset < 0 {
		m.offset = 0
	}
	if m.s.renderer != nil {
		m.s.renderer.SetScroll(m.progress())
	}
}

func (m model) progress() float64 {
	limit := m.maxOffset()
	if limit <= 0 {
		return 0
	}
	return float64(m.offset) / float64(limit)
}

func (m model) maxOffset() int {
	if m.width == 0 {
		return 0
	}
	return max(len(m.page().lines)-m.bodyRows(), 0)
}

func (m model) bodyRows() int {
	return max(m.height-headerRows-footerRows, 1)
}

func (m model) column() (left, width int) {
	width = min(m.width-4, maxColumn)
	if width < 20 {
		width = max(m.width, 1)
	}
	return (m.width - width) / 2, width
}

func (m model) page() page {
	_, w := m.column()
	return buildPage(m.doc, m.s.panels, m.styles, w, m.focus)
}

// panelAt maps a terminal cell to the panel drawn there.
func (m model) panelAt(x, y int) string {
	left, w := m.column()
	if x < left || x >= left+w || m.menu {
		return ""
	}
	row := y - headerRows
	if row < 0 || row >= m.bodyRows() {
		return ""
	}
	p := m.page()
	i := m.offset + row
	if i < 0 || i >= len(p.lines) {
		return ""
	}
	return p.lines[i].panel
}

// Run starts the terminal program and blocks until it exits or ctx is done.
func Run(ctx context.Context, deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	m.s.attach(p)
	defer m.s.close()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

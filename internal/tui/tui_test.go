package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/termfolio/internal/audio"
	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/config"
	"github.com/san-kum/termfolio/internal/host"
	"github.com/san-kum/termfolio/internal/panels"
)

type recordingPlayer struct {
	mu    sync.Mutex
	cues  []audio.Cue
	opens int
}

func (p *recordingPlayer) Play(c audio.Cue) {
	p.mu.Lock()
	p.cues = append(p.cues, c)
	p.mu.Unlock()
}

func (p *recordingPlayer) factory() boot.AudioFactory {
	return func() (boot.Player, error) {
		p.mu.Lock()
		p.opens++
		p.mu.Unlock()
		return p, nil
	}
}

func (p *recordingPlayer) Opens() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.opens
}

func newTestModel(t *testing.T, cols, rows int) (model, *clock.Mock, *recordingPlayer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Field.Seed = 7
	clk := clock.NewMock()
	player := &recordingPlayer{}
	m := newModel(Deps{Config: cfg, Clock: clk, Audio: player.factory(), Logger: zerolog.Nop()})
	t.Cleanup(m.s.close)
	m = update(t, m, tea.WindowSizeMsg{Width: cols, Height: rows})
	return m, clk, player
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func reveal(t *testing.T, m model, clk *clock.Mock) {
	t.Helper()
	clk.Add(5 * time.Second)
	require.Eventually(t, func() bool { return m.s.seq.State() == boot.Revealed }, time.Second, 5*time.Millisecond)
}

func TestViewEmptyBeforeSize(t *testing.T) {
	m := newModel(Deps{Clock: clock.NewMock(), Logger: zerolog.Nop()})
	defer m.s.close()
	assert.Equal(t, "", m.View())
	assert.False(t, m.s.mounted())
}

func TestFirstSizeMountsField(t *testing.T) {
	m, _, _ := newTestModel(t, 144, 40)

	require.True(t, m.s.mounted())
	assert.False(t, m.s.caps.Compact)
	assert.Equal(t, 200, m.s.renderer.Settings().NodeCount)
	assert.Equal(t, panels.Hover, m.s.panels.Mode())
	assert.Equal(t, 1, m.s.host.ListenerCount(host.PointerMove))
	assert.True(t, m.s.loop.Running())

	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	w, h := m.s.host.Size()
	assert.Equal(t, 1000, w)
	assert.Equal(t, 600, h)
	cols, rows := m.s.surface.Cells()
	assert.Equal(t, 100, cols)
	assert.Equal(t, 30, rows)
}

func TestCompactTerminalUsesTouch(t *testing.T) {
	m, _, _ := newTestModel(t, 40, 30)

	assert.True(t, m.s.caps.Compact)
	assert.Equal(t, 100, m.s.renderer.Settings().NodeCount)
	assert.Equal(t, panels.Touch, m.s.panels.Mode())
	assert.Equal(t, 0, m.s.host.ListenerCount(host.PointerMove))
}

func TestGestureStartsBootWithAudio(t *testing.T) {
	m, clk, player := newTestModel(t, 120, 40)
	assert.Contains(t, m.View(), "PRESS ANY KEY")

	m = update(t, m, key("x"))
	assert.Equal(t, boot.Booting, m.s.seq.State())
	assert.Equal(t, boot.PathGesture, m.s.seq.Path())
	assert.Equal(t, 1, player.Opens())
	assert.Contains(t, m.View(), "%")

	m = update(t, m, key("y"))
	assert.Equal(t, 1, player.Opens(), "second gesture is ignored")

	reveal(t, m, clk)
	assert.Contains(t, m.View(), "EXPERIENCE")
}

func TestSkipIsSilent(t *testing.T) {
	m, clk, player := newTestModel(t, 120, 40)

	m = update(t, m, key("s"))
	assert.Equal(t, boot.PathSkip, m.s.seq.Path())
	assert.False(t, m.s.seq.Audible())
	assert.Equal(t, 0, player.Opens())

	reveal(t, m, clk)
}

func TestBootSkipConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Boot.Skip = true
	m := newModel(Deps{Config: cfg, Clock: clock.NewMock(), Logger: zerolog.Nop()})
	defer m.s.close()
	assert.Equal(t, boot.Booting, m.s.seq.State())
	assert.Equal(t, boot.PathSkip, m.s.seq.Path())
}

func TestQuitKey(t *testing.T) {
	m, _, _ := newTestModel(t, 120, 40)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, boot.AwaitingGesture, m.s.seq.State(), "quit is not a gesture")
}

func TestScrollFeedsField(t *testing.T) {
	m, clk, _ := newTestModel(t, 120, 20)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	require.Greater(t, m.maxOffset(), 0)
	m = update(t, m, key("j"))
	m = update(t, m, key("j"))
	assert.Equal(t, 2, m.offset)
	assert.Greater(t, m.progress(), 0.0)

	m = update(t, m, key("G"))
	assert.Equal(t, m.maxOffset(), m.offset)
	assert.InDelta(t, 1.0, m.progress(), 1e-9)

	m = update(t, m, key("g"))
	assert.Equal(t, 0, m.offset)

	m = update(t, m, tea.MouseMsg{X: 60, Y: 10, Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, wheelStep, m.offset)
}

func TestScrollBeforeRevealIsIgnored(t *testing.T) {
	m, _, _ := newTestModel(t, 120, 20)
	m = update(t, m, key("s"))
	m = update(t, m, key("j"))
	assert.Equal(t, 0, m.offset)
}

func TestHoverDisclosureFromKeyboard(t *testing.T) {
	m, clk, _ := newTestModel(t, 120, 60)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	first := m.doc.Experience[0]
	require.NotEmpty(t, first.History)
	assert.NotContains(t, m.View(), first.History[0][:20])

	m = update(t, m, key("tab"))
	assert.Equal(t, first.ID, m.focus)
	m = update(t, m, key("enter"))
	assert.True(t, m.s.panels.Expanded(first.ID))
	assert.Contains(t, m.View(), first.History[0][:20])

	m = update(t, m, key("enter"))
	assert.False(t, m.s.panels.Expanded(first.ID))
}

func TestTouchDisclosureIsExclusive(t *testing.T) {
	m, clk, _ := newTestModel(t, 60, 60)
	require.Equal(t, panels.Touch, m.s.panels.Mode())
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	exp := m.doc.Experience
	require.GreaterOrEqual(t, len(exp), 2)

	m = update(t, m, key("tab"))
	m = update(t, m, key("enter"))
	assert.Equal(t, []string{exp[0].ID}, m.s.panels.Open())

	m = update(t, m, key("tab"))
	m = update(t, m, key("enter"))
	assert.Equal(t, []string{exp[1].ID}, m.s.panels.Open())

	m = update(t, m, key("enter"))
	assert.Empty(t, m.s.panels.Open())
}

func TestMouseHoverOpensPanel(t *testing.T) {
	m, clk, _ := newTestModel(t, 120, 60)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	id := m.doc.Experience[0].ID
	row := -1
	for i, l := range m.page().lines {
		if l.panel == id {
			row = i
			break
		}
	}
	require.GreaterOrEqual(t, row, 0)
	left, _ := m.column()

	m = update(t, m, tea.MouseMsg{X: left + 2, Y: headerRows + row, Action: tea.MouseActionMotion})
	assert.True(t, m.s.panels.Expanded(id))

	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.False(t, m.s.panels.Expanded(id))
}

func TestBlurLeavesField(t *testing.T) {
	m, clk, _ := newTestModel(t, 120, 60)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	var leaves int
	cancel := m.s.host.On(host.PointerLeave, func(host.Event) { leaves++ })
	defer cancel()

	id := m.doc.Experience[0].ID
	row := -1
	for i, l := range m.page().lines {
		if l.panel == id {
			row = i
			break
		}
	}
	require.GreaterOrEqual(t, row, 0)
	left, _ := m.column()
	m = update(t, m, tea.MouseMsg{X: left + 2, Y: headerRows + row, Action: tea.MouseActionMotion})
	require.True(t, m.s.panels.Expanded(id))

	m = update(t, m, tea.BlurMsg{})
	assert.Equal(t, 1, leaves)
	assert.False(t, m.s.panels.Expanded(id))
	assert.Empty(t, m.hover)
}

func TestMenuClosesHoveredPanels(t *testing.T) {
	m, clk, _ := newTestModel(t, 120, 60)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	m = update(t, m, key("tab"))
	m = update(t, m, key("enter"))
	require.Len(t, m.s.panels.Open(), 1)

	m = update(t, m, key("m"))
	assert.True(t, m.menu)
	assert.Empty(t, m.s.panels.Open())
}

func TestMenuJumpsToSection(t *testing.T) {
	m, clk, _ := newTestModel(t, 40, 20)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	m = update(t, m, key("m"))
	require.True(t, m.menu)
	assert.Contains(t, m.View(), "RECOGNITION")

	m = update(t, m, key("2"))
	assert.False(t, m.menu)
	assert.Equal(t, min(m.page().sections["modules"], m.maxOffset()), m.offset)
}

func TestThemeCycles(t *testing.T) {
	m, clk, _ := newTestModel(t, 120, 40)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	before := m.theme.Name
	m = update(t, m, key("t"))
	assert.NotEqual(t, before, m.theme.Name)
}

func TestViewFillsScreen(t *testing.T) {
	m, clk, _ := newTestModel(t, 90, 24)
	m = update(t, m, key("s"))
	reveal(t, m, clk)

	rows := strings.Split(m.View(), "\n")
	require.Len(t, rows, 24)
	for i, r := range rows {
		assert.LessOrEqual(t, len([]rune(stripped(r))), 90, "row %d", i)
	}
}

func TestFit(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "", fit("ab", 0))
	assert.Equal(t, 3, len([]rune(fit("abcdef", 3))))
}

// stripped drops ANSI escape sequences.
func stripped(s string) string {
	var b strings.Builder
	esc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			esc = true
		case esc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			esc = false
		case !esc:
			b.WriteRune(r)
		}
	}
	return b.String()
}

package tui

import (
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/config"
	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/field"
	"github.com/san-kum/termfolio/internal/host"
	"github.com/san-kum/termfolio/internal/panels"
	"github.com/san-kum/termfolio/internal/telemetry"
)

// Deps are the collaborators the terminal front end is wired with.
type Deps struct {
	Config   *config.Config
	Content  *content.Document
	Audio    boot.AudioFactory
	Recorder telemetry.Recorder
	Clock    clock.Clock
	Logger   zerolog.Logger
}

type frameMsg time.Time

type bootMsg boot.State

// session holds the long-lived objects shared by every copy of the model.
type session struct {
	deps    Deps
	rng     *rand.Rand
	glyphs  *rand.Rand
	seq     *boot.Sequencer
	surface *field.CanvasSurface

	// set on the first window size
	caps     config.Capabilities
	host     *host.Host
	renderer *field.Renderer
	loop     *field.Loop
	panels   *panels.Set

	mu      sync.Mutex
	program *tea.Program
	closed  bool
}

func newSession(deps Deps) *session {
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Content == nil {
		deps.Content = content.Default()
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	seed := deps.Config.Field.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &session{
		deps:    deps,
		rng:     rand.New(rand.NewSource(seed)),
		glyphs:  rand.New(rand.NewSource(seed + 1)),
		surface: field.NewCanvasSurface(deps.Config.Viewport.CellWidth, deps.Config.Viewport.CellHeight),
		panels:  panels.New(panels.Hover),
	}
	s.seq = boot.New(boot.Options{
		Clock:            deps.Clock,
		Audio:            deps.Audio,
		Recorder:         deps.Recorder,
		SkipCountsAsBoot: deps.Config.Telemetry.SkipCountsAsBoot,
		Logger:           deps.Logger,
	})
	s.seq.OnChange(func(st boot.State) { s.send(bootMsg(st)) })
	return s
}

func (s *session) attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

func (s *session) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (s *session) mounted() bool { return s.renderer != nil }

// mount resolves capabilities from the first known terminal size and starts
// the field. Called once from Update.
func (s *session) mount(cols, rows int) {
	cfg := s.deps.Config
	w, h := cfg.CellsToPixels(cols, rows)
	s.caps = config.Resolve(cfg, w)
	s.panels = panels.New(panels.ModeFor(s.caps.Touch))
	s.host = host.New(w, h)

	s.renderer = field.NewRenderer(field.Options{
		Settings: field.Configure(s.caps.WidthPx),
		Pointer:  s.caps.Pointer(),
		FPS:      cfg.Field.FPS,
		Rand:     s.rng,
		Surface:  s.surface.Factory(),
		Logger:   s.deps.Logger,
	})
	if err := s.renderer.Mount(s.host); err != nil {
		s.deps.Logger.Error().Err(err).Msg("mount field")
	}
	s.loop = field.NewLoop(s.deps.Clock, cfg.Field.FPS, func(t time.Time) {
		s.renderer.Frame(t)
		s.send(frameMsg(t))
	})
	s.loop.Start()

	s.deps.Logger.Info().
		Int("width_px", s.caps.WidthPx).
		Bool("compact", s.caps.Compact).
		Bool("touch", s.caps.Touch).
		Int("nodes", s.renderer.Settings().NodeCount).
		Msg("field mounted")
}

// close stops the loop, unmounts the field and tears the boot sequence down.
func (s *session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.program = nil
	s.mu.Unlock()

	if s.loop != nil {
		s.loop.Stop()
	}
	if s.renderer != nil {
		s.renderer.Unmount()
	}
	s.seq.Teardown()
}

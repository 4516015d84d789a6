// Package gui is the windowed front end: the particle field drawn in 3D with
// raylib, the boot overlay, and the portfolio in a scrolling side panel.
package gui

import (
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/config"
	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/field"
	"github.com/san-kum/termfolio/internal/host"
	"github.com/san-kum/termfolio/internal/panels"
	"github.com/san-kum/termfolio/internal/telemetry"
	"github.com/san-kum/termfolio/internal/viz"
)

const (
	defaultWidth  = 1280
	defaultHeight = 720
	fontPath      = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	wheelPixels   = 48
	decryptRate   = 50 * time.Millisecond
)

// offscreen is the mouse position while the cursor is outside the window.
var offscreen = rl.NewVector2(-1, -1)

type Deps struct {
	Config   *config.Config
	Content  *content.Document
	Audio    boot.AudioFactory
	Recorder telemetry.Recorder
	Logger   zerolog.Logger
}

type App struct {
	deps Deps
	cfg  *config.Config
	doc  *content.Document
	caps config.Capabilities

	host     *host.Host
	surface  *frameSurface
	renderer *field.Renderer
	seq      *boot.Sequencer
	panels   *panels.Set

	loader      *content.Decrypter
	name        *content.Decrypter
	lastDecrypt time.Time

	theme   viz.Theme
	palette palette
	font    rl.Font

	scroll float64
	hover  string
	mouse  rl.Vector2
	inside bool
	quit   bool
}

func initWindow(w, h int) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w), int32(h), "termfolio")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// Run opens the window and blocks until it is closed.
func Run(deps Deps) error {
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	if deps.Content == nil {
		deps.Content = content.Default()
	}
	w := deps.Config.Viewport.Width
	if w <= 0 {
		w = defaultWidth
	}
	initWindow(w, defaultHeight)
	defer rl.CloseWindow()

	app := NewApp(deps, rl.GetScreenWidth(), rl.GetScreenHeight())
	defer app.Close()
	app.font = loadFont()
	app.RunLoop()
	return nil
}

// NewApp wires the field, boot sequence and panels for a w×h window. It does
// not touch the window itself.
func NewApp(deps Deps, w, h int) *App {
	cfg := deps.Config
	seed := cfg.Field.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	caps := config.Resolve(cfg, w)
	theme := viz.GetTheme(cfg.Theme)

	a := &App{
		deps:    deps,
		cfg:     cfg,
		doc:     deps.Content,
		caps:    caps,
		host:    host.New(w, h),
		surface: &frameSurface{},
		panels:  panels.New(panels.ModeFor(caps.Touch)),
		loader:  content.NewDecrypter("Kernel_Init_Sequence", false, rand.New(rand.NewSource(seed+1))),
		name:    content.NewDecrypter(deps.Content.Profile.Name, true, rand.New(rand.NewSource(seed+2))),
		theme:   theme,
		palette: newPalette(theme),
	}
	a.renderer = field.NewRenderer(field.Options{
		Settings: field.Configure(caps.WidthPx),
		Pointer:  caps.Pointer(),
		FPS:      cfg.Field.FPS,
		Rand:     rand.New(rand.NewSource(seed)),
		Surface:  a.surface.factory(),
		Logger:   deps.Logger,
	})
	if err := a.renderer.Mount(a.host); err != nil {
		deps.Logger.Error().Err(err).Msg("mount field")
	}
	a.seq = boot.New(boot.Options{
		Audio:            deps.Audio,
		Recorder:         deps.Recorder,
		SkipCountsAsBoot: cfg.Telemetry.SkipCountsAsBoot,
		Logger:           deps.Logger,
	})
	if cfg.Boot.Skip {
		if err := a.seq.Skip(); err != nil {
			deps.Logger.Warn().Err(err).Msg("skip intro")
		}
	}
	deps.Logger.Info().
		Int("width_px", caps.WidthPx).
		Bool("compact", caps.Compact).
		Int("nodes", a.renderer.Settings().NodeCount).
		Msg("window field mounted")
	return a
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

// Close unmounts the field and tears down the boot sequence.
func (a *App) Close() {
	a.renderer.Unmount()
	a.seq.Teardown()
}

func (a *App) Update() {
	now := time.Now()

	if rl.IsWindowResized() {
		a.host.Emit(host.Event{Kind: host.Resize, Width: rl.GetScreenWidth(), Height: rl.GetScreenHeight()})
	}
	if rl.IsCursorOnScreen() {
		a.inside = true
		if mouse := rl.GetMousePosition(); mouse != a.mouse {
			a.mouse = mouse
			a.host.Emit(host.Event{Kind: host.PointerMove, X: int(mouse.X), Y: int(mouse.Y)})
		}
	} else if a.inside {
		a.inside = false
		a.mouse = offscreen
		a.host.Emit(host.Event{Kind: host.PointerLeave})
	}

	key := rl.GetKeyPressed()
	if key == rl.KeyQ || key == rl.KeyEscape {
		a.quit = true
		return
	}
	click := rl.IsMouseButtonPressed(rl.MouseLeftButton)

	switch a.seq.State() {
	case boot.AwaitingGesture:
		var err error
		switch {
		case key == rl.KeyS:
			err = a.seq.Skip()
		case key != 0 || click:
			err = a.seq.Gesture()
		}
		if err != nil {
			a.deps.Logger.Debug().Err(err).Msg("boot input ignored")
		}
	case boot.Revealed:
		a.updateContent(key, click)
	}

	if now.Sub(a.lastDecrypt) >= decryptRate {
		a.lastDecrypt = now
		switch a.seq.State() {
		case boot.Booting, boot.Zooming:
			a.loader.Tick(now)
		case boot.Revealed:
			a.name.Tick(now)
		}
	}

	a.renderer.Frame(now)
}

func (a *App) updateContent(key int32, click bool) {
	if key == rl.KeyT {
		a.theme = a.theme.Next()
		a.palette = newPalette(a.theme)
	}

	box := a.panelBox()
	rows := layoutDocument(a.doc, a.panels, box.cols)
	limit := float64(max(sheetHeight(rows)-int(box.h), 0))

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.scroll -= float64(wheel) * wheelPixels
	}
	switch key {
	case rl.KeyDown, rl.KeyJ:
		a.scroll += wheelPixels / 2
	case rl.KeyUp, rl.KeyK:
		a.scroll -= wheelPixels / 2
	}
	a.scroll = min(max(a.scroll, 0), limit)
	if limit > 0 {
		a.renderer.SetScroll(a.scroll / limit)
	} else {
		a.renderer.SetScroll(0)
	}

	id := ""
	if box.contains(a.mouse) {
		id = panelAt(rows, int(a.mouse.Y-box.y)+int(a.scroll))
	}
	if a.panels.Mode() == panels.Touch {
		if click && id != "" {
			a.panels.Tap(id)
		}
		return
	}
	if id != a.hover {
		if a.hover != "" {
			a.panels.Leave(a.hover)
		}
		if id != "" {
			a.panels.Hover(id)
		}
		a.hover = id
	}
}

// frameSurface keeps the latest frame for the draw pass. The window thread
// both produces and consumes frames.
type frameSurface struct {
	frame  field.Frame
	ready  bool
	closed bool
}

func (s *frameSurface) factory() field.SurfaceFactory {
	return func(w, h int) (field.Surface, error) {
		s.closed = false
		return s, nil
	}
}

func (s *frameSurface) Resize(w, h int) {}

func (s *frameSurface) Draw(f field.Frame) {
	s.frame = f
	s.ready = true
}

func (s *frameSurface) Close() error {
	s.closed = true
	s.ready = false
	return nil
}

package field

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/host"
	"github.com/san-kum/termfolio/internal/viz"
)

type Options struct {
	Settings Settings
	// Pointer enables picking and camera parallax. Off on touch viewports.
	Pointer bool
	FPS     int
	Rand    *rand.Rand
	Surface SurfaceFactory
	Logger  zerolog.Logger
	// OnPulse is called outside the renderer lock when a pulse fires.
	OnPulse func(Highlight)
}

// Renderer owns one field and everything that turns it into frames.
type Renderer struct {
	mu      sync.Mutex
	opts    Options
	field   *Field
	pointer *Pointer
	rig     *Rig
	scroll  *Scroll
	surface Surface
	mounted bool
	cancels []func()
	width   int
	height  int
	last    Frame
}

func NewRenderer(opts Options) *Renderer {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Settings.NodeCount == 0 {
		opts.Settings = Configure(0)
	}
	return &Renderer{
		opts:    opts,
		field:   New(opts.Settings, opts.Rand),
		pointer: NewPointer(),
		rig:     NewRig(opts.Settings.CameraZ),
		scroll:  NewScroll(opts.FPS),
	}
}

// Mount creates the surface and subscribes to h. A surface that cannot be
// created is logged and the renderer runs without drawing.
func (r *Renderer) Mount(h *host.Host) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mounted {
		return ErrMounted
	}
	r.width, r.height = h.Size()
	if r.opts.Surface != nil {
		s, err := r.opts.Surface(r.width, r.height)
		if err != nil {
			r.opts.Logger.Warn().Err(err).AnErr("cause", ErrSurfaceUnavailable).Msg("field disabled")
		} else {
			r.surface = s
		}
	}

	r.cancels = append(r.cancels, h.On(host.Resize, r.onResize))
	if r.opts.Pointer {
		r.cancels = append(r.cancels,
			h.On(host.PointerMove, r.onPointer),
			h.On(host.PointerLeave, r.onLeave),
		)
	}
	r.mounted = true
	r.opts.Logger.Debug().
		Int("nodes", r.opts.Settings.NodeCount).
		Bool("compact", r.opts.Settings.Compact).
		Bool("pointer", r.opts.Pointer).
		Msg("field mounted")
	return nil
}

// Unmount removes every listener and releases the surface. Safe to call
// more than once.
func (r *Renderer) Unmount() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cancel := range r.cancels {
		cancel()
	}
	r.cancels = nil
	if r.surface != nil {
		if err := r.surface.Close(); err != nil {
			r.opts.Logger.Warn().Err(err).Msg("close field surface")
		}
		r.surface = nil
	}
	r.mounted = false
}

func (r *Renderer) onResize(e host.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.width, r.height = e.Width, e.Height
	if r.surface != nil {
		r.surface.Resize(e.Width, e.Height)
	}
}

func (r *Renderer) onPointer(e host.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointer.Move(e.X, e.Y, r.width, r.height)
}

func (r *Renderer) onLeave(host.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pointer.Park()
}

// SetScroll sets the raw scroll progress in [0, 1].
func (r *Renderer) SetScroll(p float64) {
	r.mu.Lock()
	r.scroll.SetTarget(p)
	r.mu.Unlock()
}

// Frame advances the field one tick and draws it. It does nothing while
// unmounted.
func (r *Renderer) Frame(now time.Time) {
	r.mu.Lock()
	if !r.mounted {
		r.mu.Unlock()
		return
	}

	r.field.Step()
	pulsed := false
	if r.opts.Pointer {
		r.rig.Target(r.pointer.Parallax())
		r.rig.Update()
		aspect := 1.0
		if r.width > 0 && r.height > 0 {
			aspect = float64(r.width) / float64(r.height)
		}
		pulsed = r.pointer.Pick(r.rig.Camera, aspect, r.field, now)
	}
	progress := r.scroll.Update()

	fr := Frame{
		Width:     r.width,
		Height:    r.height,
		Nodes:     make([]viz.Vec3, len(r.field.Nodes())),
		Edges:     append([]Edge(nil), r.field.Edges()...),
		Highlight: r.pointer.Highlight(),
		Camera:    *r.rig.Camera,
		Opacity:   Modulate(now, progress),
		Index:     r.field.Frame(),
	}
	for i := range fr.Nodes {
		fr.Nodes[i] = r.field.World(i)
	}
	if age, ok := r.pointer.PulseAge(now); ok && age < PulseInterval {
		fr.Glow = 1 - float64(age)/float64(PulseInterval)
	}
	r.last = fr
	if r.surface != nil {
		r.surface.Draw(fr)
	}
	hl := fr.Highlight
	r.mu.Unlock()

	if pulsed && r.opts.OnPulse != nil {
		r.opts.OnPulse(hl)
	}
}

// Snapshot returns the most recent frame.
func (r *Renderer) Snapshot() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Renderer) Mounted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mounted
}

// Drawing reports whether a surface is attached.
func (r *Renderer) Drawing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surface != nil
}

func (r *Renderer) Settings() Settings { return r.opts.Settings }

// Pulses counts pointer pulses fired since creation.
func (r *Renderer) Pulses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pointer.Pulses()
}

// Scroll returns the smoothed scroll progress.
func (r *Renderer) Scroll() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scroll.Value()
}

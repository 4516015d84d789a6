package field

import (
	"time"

	"github.com/san-kum/termfolio/internal/viz"
)

const (
	PickRadius    = 1.0
	PulseInterval = 300 * time.Millisecond
)

// Parked is where the highlight sits when nothing is under the pointer.
var Parked = viz.Vec3{X: 0, Y: 0, Z: 1000}

// Highlight marks the node under the pointer. Index is -1 when parked.
type Highlight struct {
	Index    int
	Position viz.Vec3
}

func (h Highlight) Parked() bool { return h.Index < 0 }

func parkedHighlight() Highlight { return Highlight{Index: -1, Position: Parked} }

// Pointer tracks the last pointer position and the pulse throttle.
type Pointer struct {
	seen       bool
	ndcX, ndcY float64
	// parallax target in scaled pixels from the viewport center
	parX, parY float64
	highlight  Highlight
	lastPulse  time.Time
	pulses     int
}

func NewPointer() *Pointer {
	return &Pointer{highlight: parkedHighlight()}
}

// Move records a pointer position in pixels on a w×h viewport.
func (p *Pointer) Move(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	p.seen = true
	p.ndcX = float64(x)/float64(w)*2 - 1
	p.ndcY = -(float64(y)/float64(h))*2 + 1
	p.parX = (float64(x) - float64(w)/2) / 100
	p.parY = (float64(y) - float64(h)/2) / 100
}

func (p *Pointer) Seen() bool { return p.seen }

// NDC returns the last pointer position in normalized device coordinates.
func (p *Pointer) NDC() (float64, float64) { return p.ndcX, p.ndcY }

// Parallax returns the camera easing target.
func (p *Pointer) Parallax() (float64, float64) { return p.parX, p.parY }

// Pick casts the pointer ray through cam and highlights the nearest node
// within PickRadius of it. A hit may fire a pulse, at most once per
// PulseInterval. Reports whether a pulse fired.
func (p *Pointer) Pick(cam *viz.Camera, aspect float64, f *Field, now time.Time) bool {
	if !p.seen {
		p.highlight = parkedHighlight()
		return false
	}
	ray := cam.RayFromNDC(p.ndcX, p.ndcY, aspect)
	best, bestAlong := -1, 0.0
	for i := range f.Nodes() {
		along, dist := ray.Closest(f.World(i))
		if along <= 0 || dist >= PickRadius {
			continue
		}
		if best < 0 || along < bestAlong {
			best, bestAlong = i, along
		}
	}
	if best < 0 {
		p.highlight = parkedHighlight()
		return false
	}
	p.highlight = Highlight{Index: best, Position: f.World(best)}
	if now.Sub(p.lastPulse) < PulseInterval {
		return false
	}
	p.lastPulse = now
	p.pulses++
	return true
}

func (p *Pointer) Highlight() Highlight { return p.highlight }

// Pulses counts pulses fired so far.
func (p *Pointer) Pulses() int { return p.pulses }

// PulseAge returns the time since the last pulse, or false if none fired.
func (p *Pointer) PulseAge(now time.Time) (time.Duration, bool) {
	if p.pulses == 0 {
		return 0, false
	}
	return now.Sub(p.lastPulse), true
}

// Park forgets the pointer position and clears the highlight.
func (p *Pointer) Park() {
	p.seen = false
	p.highlight = parkedHighlight()
}

package field

import "github.com/charmbracelet/harmonica"

// Scroll smooths raw scroll progress with a damped spring
// (stiffness 100, damping 30, unit mass).
type Scroll struct {
	spring   harmonica.Spring
	pos, vel float64
	target   float64
}

func NewScroll(fps int) *Scroll {
	if fps <= 0 {
		fps = 60
	}
	return &Scroll{spring: harmonica.NewSpring(harmonica.FPS(fps), 10, 1.5)}
}

// SetTarget sets the raw progress, clamped to [0, 1].
func (s *Scroll) SetTarget(p float64) { s.target = clamp(p, 0, 1) }

func (s *Scroll) Target() float64 { return s.target }

// Update advances the spring one frame and returns the smoothed value.
func (s *Scroll) Update() float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	return s.Value()
}

// Value is the smoothed progress clamped to [0, 1].
func (s *Scroll) Value() float64 { return clamp(s.pos, 0, 1) }

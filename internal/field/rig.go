package field

import "github.com/san-kum/termfolio/internal/viz"

// Ease is the fraction of the remaining distance the camera covers per frame.
const Ease = 0.1

// Rig eases the camera toward the pointer parallax target. The camera keeps
// looking at the origin.
type Rig struct {
	Camera *viz.Camera
	tx, ty float64
}

func NewRig(z float64) *Rig { return &Rig{Camera: viz.NewCamera(z)} }

// Target sets the parallax target. Screen Y grows downward, so ty is negated.
func (r *Rig) Target(tx, ty float64) { r.tx, r.ty = tx, ty }

func (r *Rig) Update() {
	pos := &r.Camera.Position
	pos.X += (r.tx - pos.X) * Ease
	pos.Y += (-r.ty - pos.Y) * Ease
}

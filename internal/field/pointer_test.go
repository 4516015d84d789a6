package field

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/san-kum/termfolio/internal/viz"
)

func singleNodeField() *Field {
	return &Field{settings: Configure(1440), nodes: []Node{{Pos: viz.Vec3{}}}}
}

func TestPointerParkedUntilSeen(t *testing.T) {
	p := NewPointer()
	assert.True(t, p.Highlight().Parked())
	assert.Equal(t, Parked, p.Highlight().Position)

	pulsed := p.Pick(viz.NewCamera(10), 1.6, singleNodeField(), time.Now())
	assert.False(t, pulsed)
	assert.True(t, p.Highlight().Parked())
}

func TestPointerMoveMapsCoordinates(t *testing.T) {
	p := NewPointer()
	p.Move(1440, 0, 1440, 900)
	x, y := p.NDC()
	assert.InDelta(t, 1, x, 1e-12)
	assert.InDelta(t, 1, y, 1e-12)

	px, py := p.Parallax()
	assert.InDelta(t, 7.2, px, 1e-12)
	assert.InDelta(t, -4.5, py, 1e-12)

	p.Move(10, 10, 0, 0)
	x, _ = p.NDC()
	assert.InDelta(t, 1, x, 1e-12, "zero viewport ignored")
}

func TestPointerPickAndThrottle(t *testing.T) {
	f := singleNodeField()
	cam := viz.NewCamera(10)
	p := NewPointer()
	p.Move(720, 450, 1440, 900)

	t0 := time.UnixMilli(10_000)
	assert.True(t, p.Pick(cam, 1.6, f, t0))
	assert.Equal(t, 0, p.Highlight().Index)

	assert.False(t, p.Pick(cam, 1.6, f, t0.Add(100*time.Millisecond)))
	assert.False(t, p.Pick(cam, 1.6, f, t0.Add(299*time.Millisecond)))
	assert.True(t, p.Pick(cam, 1.6, f, t0.Add(300*time.Millisecond)))
	assert.Equal(t, 2, p.Pulses())

	age, ok := p.PulseAge(t0.Add(400 * time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, age)
}

func TestPointerMissParks(t *testing.T) {
	f := singleNodeField()
	p := NewPointer()
	p.Move(0, 0, 1440, 900)
	assert.False(t, p.Pick(viz.NewCamera(10), 1.6, f, time.Now()))
	assert.True(t, p.Highlight().Parked())
	assert.Equal(t, 0, p.Pulses())
}

func TestPointerPicksNearestAlongRay(t *testing.T) {
	f := &Field{settings: Configure(1440), nodes: []Node{
		{Pos: viz.Vec3{Z: -3}},
		{Pos: viz.Vec3{Z: 2}},
	}}
	p := NewPointer()
	p.Move(720, 450, 1440, 900)
	p.Pick(viz.NewCamera(10), 1.6, f, time.Now())
	assert.Equal(t, 1, p.Highlight().Index)
}

func TestRigEasesTowardTarget(t *testing.T) {
	r := NewRig(10)
	r.Target(1, 2)
	r.Update()
	assert.InDelta(t, 0.1, r.Camera.Position.X, 1e-12)
	assert.InDelta(t, -0.2, r.Camera.Position.Y, 1e-12)
	for i := 0; i < 500; i++ {
		r.Update()
	}
	assert.InDelta(t, 1, r.Camera.Position.X, 1e-6)
	assert.InDelta(t, -2, r.Camera.Position.Y, 1e-6)
	assert.Equal(t, 10.0, r.Camera.Position.Z)
}

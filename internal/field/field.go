package field

import (
	"math"
	"math/rand"

	"github.com/san-kum/termfolio/internal/viz"
)

type Node struct {
	Pos, Vel viz.Vec3
}

// Edge joins nodes I and J, I < J. Edges are only valid for the frame that
// produced them.
type Edge struct {
	I int `json:"i"`
	J int `json:"j"`
}

type Field struct {
	settings Settings
	nodes    []Node
	edges    []Edge
	rotation float64
	frame    uint64
}

// New seeds settings.NodeCount nodes uniformly inside the spread cube with
// velocity components uniform in [-MaxSpeed, MaxSpeed).
func New(s Settings, rng *rand.Rand) *Field {
	f := &Field{
		settings: s,
		nodes:    make([]Node, s.NodeCount),
		edges:    make([]Edge, 0, s.NodeCount*4),
	}
	for i := range f.nodes {
		f.nodes[i] = Node{
			Pos: viz.Vec3{
				X: (rng.Float64() - 0.5) * s.Spread,
				Y: (rng.Float64() - 0.5) * s.Spread,
				Z: (rng.Float64() - 0.5) * s.Spread,
			},
			Vel: viz.Vec3{
				X: (rng.Float64() - 0.5) * 2 * s.MaxSpeed,
				Y: (rng.Float64() - 0.5) * 2 * s.MaxSpeed,
				Z: (rng.Float64() - 0.5) * 2 * s.MaxSpeed,
			},
		}
	}
	f.connect()
	return f
}

// Step advances every node by its velocity, reflects velocity components
// whose coordinate left [-Extent, Extent], then rebuilds the edge set.
func (f *Field) Step() {
	ext := f.settings.Extent
	for i := range f.nodes {
		n := &f.nodes[i]
		n.Pos.X, n.Vel.X = bounce(n.Pos.X+n.Vel.X, n.Vel.X, ext)
		n.Pos.Y, n.Vel.Y = bounce(n.Pos.Y+n.Vel.Y, n.Vel.Y, ext)
		n.Pos.Z, n.Vel.Z = bounce(n.Pos.Z+n.Vel.Z, n.Vel.Z, ext)
	}
	f.rotation += f.settings.RotationStep
	f.frame++
	f.connect()
}

func bounce(p, v, ext float64) (float64, float64) {
	if p > ext || p < -ext {
		v = -v
	}
	return p, v
}

// connect tests all unordered pairs. Distances are compared in the field's
// local frame; the Y rotation does not change them.
func (f *Field) connect() {
	f.edges = f.edges[:0]
	th := f.settings.Threshold
	for i := 0; i < len(f.nodes); i++ {
		pi := f.nodes[i].Pos
		for j := i + 1; j < len(f.nodes); j++ {
			pj := f.nodes[j].Pos
			dx, dy, dz := pi.X-pj.X, pi.Y-pj.Y, pi.Z-pj.Z
			if math.Sqrt(dx*dx+dy*dy+dz*dz) < th {
				f.edges = append(f.edges, Edge{I: i, J: j})
			}
		}
	}
}

func (f *Field) Settings() Settings { return f.settings }

// Nodes returns the live node slice. Callers must not modify it.
func (f *Field) Nodes() []Node { return f.nodes }

// Edges returns the current frame's edges. The slice is reused by the next Step.
func (f *Field) Edges() []Edge { return f.edges }

func (f *Field) Rotation() float64 { return f.rotation }

func (f *Field) Frame() uint64 { return f.frame }

// World returns node i's position after the cloud rotation.
func (f *Field) World(i int) viz.Vec3 { return f.nodes[i].Pos.RotateY(f.rotation) }

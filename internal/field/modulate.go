package field

import (
	"math"
	"time"
)

// Opacity is the cosmetic pulse applied to edges and nodes.
type Opacity struct {
	Edges float64
	Nodes float64
}

// Modulate returns the opacities at wall time now. The pulse frequency
// grows with scroll progress.
func Modulate(now time.Time, scroll float64) Opacity {
	scroll = clamp(scroll, 0, 1)
	ms := float64(now.UnixMilli())
	speed := 0.0001 + scroll*0.002
	return Opacity{
		Edges: 0.05 + math.Sin(ms*speed)*0.05,
		Nodes: 0.8 + math.Sin(ms*speed*2)*0.2,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

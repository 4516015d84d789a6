package field

import "github.com/san-kum/termfolio/internal/config"

const (
	Extent       = 8.0
	MaxSpeed     = 0.001
	RotationStep = 0.0002
)

// Settings fix the size and shape of the field at mount time.
type Settings struct {
	Compact      bool    `json:"compact"`
	NodeCount    int     `json:"node_count"`
	Threshold    float64 `json:"threshold"`
	Spread       float64 `json:"spread"`
	MaxSpeed     float64 `json:"max_speed"`
	Extent       float64 `json:"extent"`
	CameraZ      float64 `json:"camera_z"`
	RotationStep float64 `json:"rotation_step"`
}

// Configure derives settings from the viewport width in pixels. Widths
// below config.CompactBreakpoint get the compact variant.
func Configure(widthPx int) Settings {
	s := Settings{
		NodeCount:    200,
		Threshold:    3,
		Spread:       15,
		MaxSpeed:     MaxSpeed,
		Extent:       Extent,
		CameraZ:      10,
		RotationStep: RotationStep,
	}
	if widthPx < config.CompactBreakpoint {
		s.Compact = true
		s.NodeCount = 100
		s.Threshold = 2.5
		s.Spread = 10
		s.CameraZ = 12
	}
	return s
}

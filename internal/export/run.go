// Package export runs the field headless and writes what it produced.
package export

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/field"
	"github.com/san-kum/termfolio/internal/host"
)

// FrameStat summarizes one simulated frame.
type FrameStat struct {
	Index       uint64  `json:"index"`
	Edges       int     `json:"edges"`
	EdgeOpacity float64 `json:"edge_opacity"`
	NodeOpacity float64 `json:"node_opacity"`
}

// Run is the result of a headless simulation.
type Run struct {
	Width    int            `json:"width"`
	Seed     int64          `json:"seed"`
	Settings field.Settings `json:"settings"`
	Frames   []FrameStat    `json:"frames"`
	Last     field.Frame    `json:"-"`
}

type SimOptions struct {
	Width  int
	Height int
	Seed   int64
	Frames int
	FPS    int
	Start  time.Time
	Logger zerolog.Logger
}

// Simulate mounts a renderer on an offscreen host and steps it Frames
// times with synthetic timestamps.
func Simulate(opts SimOptions) (*Run, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Height <= 0 {
		opts.Height = opts.Width * 9 / 16
	}
	if opts.Start.IsZero() {
		opts.Start = time.Unix(0, 0)
	}

	settings := field.Configure(opts.Width)
	r := field.NewRenderer(field.Options{
		Settings: settings,
		FPS:      opts.FPS,
		Rand:     rand.New(rand.NewSource(opts.Seed)),
		Logger:   opts.Logger,
	})
	h := host.New(opts.Width, opts.Height)
	if err := r.Mount(h); err != nil {
		return nil, err
	}
	defer r.Unmount()

	run := &Run{
		Width:    opts.Width,
		Seed:     opts.Seed,
		Settings: settings,
		Frames:   make([]FrameStat, 0, opts.Frames),
	}
	dt := time.Second / time.Duration(opts.FPS)
	for i := 0; i < opts.Frames; i++ {
		r.Frame(opts.Start.Add(time.Duration(i) * dt))
		f := r.Snapshot()
		run.Frames = append(run.Frames, FrameStat{
			Index:       f.Index,
			Edges:       len(f.Edges),
			EdgeOpacity: f.Opacity.Edges,
			NodeOpacity: f.Opacity.Nodes,
		})
	}
	run.Last = r.Snapshot()
	return run, nil
}

// EdgeSeries returns the edge count per frame.
func (r *Run) EdgeSeries() []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = float64(f.Edges)
	}
	return out
}

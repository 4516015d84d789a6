// Package audio synthesizes the boot cues and plays them through a sink.
//
// Cues are built on demand from oscillator, envelope and filter streamers
// and mixed into one output stream. No audio assets are loaded.
package audio

import (
	"time"

	"github.com/gopxl/beep"
)

type Cue int

const (
	CueNone Cue = iota
	CueDrone
	CueBeep
	CueChime
	CueWhoosh
	CueGlitch
)

var cueNames = map[Cue]string{
	CueNone:   "none",
	CueDrone:  "drone",
	CueBeep:   "beep",
	CueChime:  "chime",
	CueWhoosh: "whoosh",
	CueGlitch: "glitch",
}

func (c Cue) String() string {
	if n, ok := cueNames[c]; ok {
		return n
	}
	return "unknown"
}

// Duration is how long the cue's stream runs.
func (c Cue) Duration() time.Duration {
	switch c {
	case CueDrone:
		return 3 * time.Second
	case CueBeep:
		return 80 * time.Millisecond
	case CueChime:
		return 900 * time.Millisecond
	case CueWhoosh:
		return 1100 * time.Millisecond
	case CueGlitch:
		return 250 * time.Millisecond
	}
	return 0
}

// Build returns a fresh streamer for c at the given master volume, or nil
// for CueNone.
func Build(c Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	d := c.Duration()
	switch c {
	case CueDrone:
		low := NewEnvelope(NewOscillator(55, d, WaveSine, rate), d, 800*time.Millisecond, 1200*time.Millisecond, rate)
		fifth := NewEnvelope(NewOscillator(82.4, d, WaveTriangle, rate), d, 1200*time.Millisecond, 1200*time.Millisecond, rate)
		return newVolume(beep.Mix(newVolume(low, 0.7), newVolume(fifth, 0.3)), 0.35*volume)

	case CueBeep:
		osc := NewOscillator(880, d, WaveSquare, rate)
		return newVolume(NewEnvelope(osc, d, 5*time.Millisecond, 40*time.Millisecond, rate), 0.2*volume)

	case CueChime:
		fund := NewEnvelope(NewOscillator(1046.5, d, WaveSine, rate), d, 10*time.Millisecond, 850*time.Millisecond, rate)
		over := NewEnvelope(NewOscillator(1568, d, WaveSine, rate), d, 10*time.Millisecond, 500*time.Millisecond, rate)
		return newVolume(beep.Mix(newVolume(fund, 0.7), newVolume(over, 0.3)), 0.3*volume)

	case CueWhoosh:
		noise := NewOscillator(0, d, WaveNoise, rate)
		sweep := func(t float64) float64 { return 300 + 3700*t/d.Seconds() }
		return newVolume(NewHann(NewLowpass(noise, sweep, rate), d, rate), 0.5*volume)

	case CueGlitch:
		noise := NewOscillator(0, d, WaveNoise, rate)
		flat := func(float64) float64 { return 1200 }
		gated := &gate{src: NewLowpass(noise, flat, rate), freq: 30, rate: rate}
		return newVolume(NewHann(gated, d, rate), 0.4*volume)
	}
	return nil
}

package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/config"
)

// Sink pulls samples from src and sends them to an output device.
type Sink interface {
	Start(src beep.Streamer, rate beep.SampleRate) error
	Close() error
}

// Engine mixes cues into a single stream consumed by a Sink.
type Engine struct {
	mu     sync.Mutex
	rate   beep.SampleRate
	volume float64
	mixer  *beep.Mixer
	sink   Sink
	closed bool
	played map[Cue]int
	log    zerolog.Logger
}

// NewEngine starts sink on the engine's mixer.
func NewEngine(sink Sink, rate beep.SampleRate, volume float64, log zerolog.Logger) (*Engine, error) {
	e := &Engine{
		rate:   rate,
		volume: volume,
		mixer:  &beep.Mixer{},
		sink:   sink,
		played: make(map[Cue]int),
		log:    log,
	}
	if err := sink.Start(e, rate); err != nil {
		return nil, fmt.Errorf("start audio sink: %w", err)
	}
	return e, nil
}

// Open builds the engine described by cfg.
func Open(cfg config.AudioConfig, log zerolog.Logger) (*Engine, error) {
	if !cfg.Enabled {
		return nil, ErrNoSink
	}
	var sink Sink
	switch cfg.Sink {
	case "speaker":
		sink = &SpeakerSink{}
	case "portaudio":
		sink = &PortAudioSink{}
	case "none", "":
		return nil, ErrNoSink
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSink, cfg.Sink)
	}
	return NewEngine(sink, beep.SampleRate(cfg.SampleRate), cfg.Volume, log)
}

// Play schedules c on the mixer. It never blocks on the device.
func (e *Engine) Play(c Cue) {
	s := Build(c, e.rate, e.volume)
	if s == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.mixer.Add(s)
	e.played[c]++
	e.log.Debug().Stringer("cue", c).Msg("cue")
}

// Stream feeds the sink with the mix, padded with silence. It never drains.
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	if !e.closed {
		n, _ = e.mixer.Stream(samples)
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (e *Engine) Err() error { return nil }

// Active reports how many cues are still sounding.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mixer.Len()
}

// Played reports how many times c was scheduled.
func (e *Engine) Played(c Cue) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.played[c]
}

// Close silences the mixer and closes the sink. Safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mixer.Clear()
	e.mu.Unlock()
	return e.sink.Close()
}

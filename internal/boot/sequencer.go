package boot

import (
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"github.com/san-kum/termfolio/internal/audio"
	"github.com/san-kum/termfolio/internal/telemetry"
)

// Player plays cues. *audio.Engine satisfies it.
type Player interface {
	Play(audio.Cue)
}

// AudioFactory builds the player on the first gesture.
type AudioFactory func() (Player, error)

type Options struct {
	Clock    clock.Clock
	Schedule []Step
	Audio    AudioFactory
	Recorder telemetry.Recorder
	// SkipCountsAsBoot also records boot_started when the intro is skipped.
	SkipCountsAsBoot bool
	Logger           zerolog.Logger
}

// Path records how the sequence was started.
type Path string

const (
	PathNone    Path = ""
	PathGesture Path = "gesture"
	PathSkip    Path = "skip"
)

type Sequencer struct {
	mu         sync.Mutex
	opts       Options
	state      State
	path       Path
	player     Player
	audioTried bool
	timers     map[int]*clock.Timer
	nextID     int
	torn       bool
	begun      bool
	started    time.Time
	observers  []func(State)
}

func New(opts Options) *Sequencer {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Schedule == nil {
		opts.Schedule = DefaultSchedule()
	}
	if opts.Recorder == nil {
		opts.Recorder = telemetry.Nop{}
	}
	return &Sequencer{
		opts:   opts,
		state:  AwaitingGesture,
		timers: make(map[int]*clock.Timer),
	}
}

// OnChange registers fn to be called after every state change. Callbacks
// run outside the sequencer lock, in order.
func (s *Sequencer) OnChange(fn func(State)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Gesture starts the sequence with audio. The audio engine is built here on
// the first call; if that fails the cues are silent and the visual chain
// runs unchanged.
func (s *Sequencer) Gesture() error {
	return s.start(PathGesture)
}

// Skip starts the visual chain without audio.
func (s *Sequencer) Skip() error {
	return s.start(PathSkip)
}

func (s *Sequencer) start(path Path) error {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return ErrTornDown
	}
	// state only moves once the first step fires, after the lock is released.
	if s.begun || s.state != AwaitingGesture {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.begun = true
	withAudio := path == PathGesture
	if withAudio && !s.audioTried && s.opts.Audio != nil {
		s.audioTried = true
		p, err := s.opts.Audio()
		if err != nil {
			s.opts.Logger.Debug().Err(err).Msg("audio unavailable, cues muted")
		} else {
			s.player = p
		}
	}
	s.path = path
	s.started = s.opts.Clock.Now()

	var immediate []Step
	for _, step := range s.opts.Schedule {
		if !withAudio && step.Enter == 0 {
			continue
		}
		if step.At <= 0 {
			immediate = append(immediate, step)
			continue
		}
		s.schedule(step, withAudio)
	}
	s.mu.Unlock()

	s.record(telemetry.BootStarted, path, path == PathGesture || s.opts.SkipCountsAsBoot)
	s.record(telemetry.BootSkipped, path, path == PathSkip)
	s.opts.Logger.Info().Str("path", string(path)).Msg("boot started")

	// Without an immediate step the sequence still leaves AwaitingGesture.
	if len(immediate) == 0 {
		immediate = append(immediate, Step{Enter: Booting})
	}
	for _, step := range immediate {
		s.fire(-1, step, withAudio)
	}
	return nil
}

// schedule must be called with s.mu held.
func (s *Sequencer) schedule(step Step, withAudio bool) {
	id := s.nextID
	s.nextID++
	s.timers[id] = s.opts.Clock.AfterFunc(step.At, func() {
		s.fire(id, step, withAudio)
	})
}

// fire applies one step. id < 0 marks a step run synchronously by start.
func (s *Sequencer) fire(id int, step Step, withAudio bool) {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	if id >= 0 {
		if _, ok := s.timers[id]; !ok {
			s.mu.Unlock()
			return
		}
		delete(s.timers, id)
	}
	var player Player
	if withAudio && step.Cue != audio.CueNone {
		player = s.player
	}
	changed := step.Enter != 0 && step.Enter != s.state
	if changed {
		s.state = step.Enter
	}
	state := s.state
	path := s.path
	observers := slices.Clone(s.observers)
	s.mu.Unlock()

	if player != nil {
		player.Play(step.Cue)
	}
	if !changed {
		return
	}
	s.opts.Logger.Debug().Stringer("state", state).Msg("boot state")
	for _, fn := range observers {
		fn(state)
	}
	if state == Revealed {
		s.record(telemetry.BootRevealed, path, true)
	}
}

func (s *Sequencer) record(kind telemetry.Kind, path Path, ok bool) {
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.opts.Recorder.Record(ctx, telemetry.Event{Kind: kind, At: s.opts.Clock.Now(), Detail: string(path)})
	if err != nil {
		s.opts.Logger.Debug().Err(err).Str("kind", string(kind)).Msg("telemetry dropped")
	}
}

// Teardown stops every pending timer and closes the audio engine. After it
// returns no timer mutates the sequencer. Safe to call more than once.
func (s *Sequencer) Teardown() {
	s.mu.Lock()
	if s.torn {
		s.mu.Unlock()
		return
	}
	s.torn = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	player := s.player
	s.player = nil
	s.mu.Unlock()

	if c, ok := player.(io.Closer); ok {
		if err := c.Close(); err != nil {
			s.opts.Logger.Warn().Err(err).Msg("close audio")
		}
	}
}

func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) Path() Path {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Pending reports timers that have not fired yet.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Audible reports whether cues reach an audio engine.
func (s *Sequencer) Audible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player != nil
}

// Progress is the fraction of the schedule elapsed, in [0, 1].
func (s *Sequencer) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case AwaitingGesture:
		return 0
	case Revealed:
		return 1
	}
	total := Length(s.opts.Schedule)
	if total <= 0 {
		return 1
	}
	p := float64(s.opts.Clock.Since(s.started)) / float64(total)
	return min(max(p, 0), 1)
}

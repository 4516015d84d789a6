// Package boot runs the one-shot intro that gates the content.
//
// The sequence waits for a user gesture, then plays a timed chain of audio
// cues while stepping a visual state through booting, zooming and revealed.
// Skipping runs the same visual chain silently. Every timer is tracked so a
// teardown leaves nothing behind.
package boot

import (
	"time"

	"github.com/san-kum/termfolio/internal/audio"
)

type State int

const (
	AwaitingGesture State = iota + 1
	Booting
	Zooming
	Revealed
)

func (s State) String() string {
	switch s {
	case AwaitingGesture:
		return "awaiting-gesture"
	case Booting:
		return "booting"
	case Zooming:
		return "zooming"
	case Revealed:
		return "revealed"
	}
	return "unknown"
}

// Step fires at offset At from the start of the sequence. A zero Cue plays
// nothing; a zero Enter leaves the state alone.
type Step struct {
	At    time.Duration
	Cue   audio.Cue
	Enter State
}

var defaultSchedule = [...]Step{
	{At: 0, Cue: audio.CueDrone, Enter: Booting},
	{At: 400 * time.Millisecond, Cue: audio.CueBeep},
	{At: 800 * time.Millisecond, Cue: audio.CueBeep},
	{At: 1200 * time.Millisecond, Cue: audio.CueBeep},
	{At: 1600 * time.Millisecond, Cue: audio.CueGlitch},
	{At: 2200 * time.Millisecond, Cue: audio.CueChime},
	{At: 3500 * time.Millisecond, Cue: audio.CueWhoosh, Enter: Zooming},
	{At: 4500 * time.Millisecond, Enter: Revealed},
}

// DefaultSchedule returns a copy of the standard intro.
func DefaultSchedule() []Step {
	out := make([]Step, len(defaultSchedule))
	copy(out, defaultSchedule[:])
	return out
}

// Length is the offset of the last step.
func Length(steps []Step) time.Duration {
	var d time.Duration
	for _, s := range steps {
		d = max(d, s.At)
	}
	return d
}

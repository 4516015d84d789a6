package audio

import "errors"

var (
	// ErrNoSink is returned by Open when audio is disabled or the sink is "none".
	ErrNoSink = errors.New("audio: no output sink")

	ErrUnknownSink = errors.New("audio: unknown sink")
	ErrClosed      = errors.New("audio: engine closed")
)

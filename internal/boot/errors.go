package boot

import "errors"

var (
	// ErrAlreadyStarted is returned by Gesture and Skip once the sequence
	// has left AwaitingGesture. Nothing is scheduled.
	ErrAlreadyStarted = errors.New("boot: sequence already started")

	// ErrTornDown is returned after Teardown.
	ErrTornDown = errors.New("boot: sequencer torn down")
)

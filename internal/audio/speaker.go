package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SpeakerSink plays through the system speaker.
type SpeakerSink struct{}

func (SpeakerSink) Start(src beep.Streamer, rate beep.SampleRate) error {
	if err := speaker.Init(rate, rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(src)
	return nil
}

func (SpeakerSink) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

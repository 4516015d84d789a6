package audio

import (
	"fmt"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"
)

const BufferSize = 1024

// PortAudioSink drives an output-only PortAudio stream from a callback.
type PortAudioSink struct {
	stream *portaudio.Stream
	src    beep.Streamer
	buf    [][2]float64
}

func (p *PortAudioSink) Start(src beep.Streamer, rate beep.SampleRate) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	p.src = src
	p.buf = make([][2]float64, BufferSize)

	// Output only. Duplex streams fail on Linux when devices differ.
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(rate), BufferSize, p.process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start stream: %w", err)
	}
	p.stream = stream
	return nil
}

func (p *PortAudioSink) process(out [][]float32) {
	n := len(out[0])
	if n > len(p.buf) {
		p.buf = make([][2]float64, n)
	}
	buf := p.buf[:n]
	got, _ := p.src.Stream(buf)
	for i := 0; i < n; i++ {
		if i >= got {
			out[0][i], out[1][i] = 0, 0
			continue
		}
		out[0][i] = float32(buf[i][0])
		out[1][i] = float32(buf[i][1])
	}
}

func (p *PortAudioSink) Close() error {
	if p.stream == nil {
		return nil
	}
	p.stream.Stop()
	err := p.stream.Close()
	p.stream = nil
	portaudio.Terminate()
	return err
}

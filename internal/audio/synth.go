package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/mjibson/go-dsp/window"
)

type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveTriangle
	WaveNoise
)

type oscillator struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator returns a mono wave duplicated on both channels that ends
// after d.
func NewOscillator(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:   freq,
		length: rate.N(d),
		wave:   wave,
		rate:   rate,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}
		var v float64
		switch o.wave {
		case WaveSine:
			v = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			v = 1
			if o.phase >= 0.5 {
				v = -1
			}
		case WaveTriangle:
			v = triangle(o.phase)
		case WaveNoise:
			v = o.rng.Float64()*2 - 1
		}
		samples[i][0], samples[i][1] = v, v

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// envelope applies a linear attack and release.
type envelope struct {
	src      beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func NewEnvelope(s beep.Streamer, d, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{src: s, total: rate.N(d), attack: rate.N(attack), release: rate.N(release)}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.src.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		g := 1.0
		if e.position < e.attack {
			g = float64(e.position) / float64(e.attack)
		}
		if start := e.total - e.release; e.release > 0 && e.position >= start {
			g = math.Min(g, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.src.Err() }

// windowed multiplies the stream by a Hann window spanning d.
type windowed struct {
	src      beep.Streamer
	w        []float64
	position int
}

func NewHann(s beep.Streamer, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &windowed{src: s, w: window.Hann(rate.N(d))}
}

func (h *windowed) Stream(samples [][2]float64) (int, bool) {
	n, ok := h.src.Stream(samples)
	for i := 0; i < n; i++ {
		g := 0.0
		if h.position < len(h.w) {
			g = h.w[h.position]
		}
		samples[i][0] *= g
		samples[i][1] *= g
		h.position++
	}
	return n, ok
}

func (h *windowed) Err() error { return h.src.Err() }

// lowpass is a one-pole filter whose cutoff may move over time.
type lowpass struct {
	src      beep.Streamer
	cutoff   func(t float64) float64
	rate     beep.SampleRate
	state    [2]float64
	position int
}

func NewLowpass(s beep.Streamer, cutoff func(t float64) float64, rate beep.SampleRate) beep.Streamer {
	return &lowpass{src: s, cutoff: cutoff, rate: rate}
}

func (l *lowpass) Stream(samples [][2]float64) (int, bool) {
	n, ok := l.src.Stream(samples)
	dt := 1.0 / float64(l.rate)
	for i := 0; i < n; i++ {
		t := float64(l.position) * dt
		rc := 1.0 / (2.0 * math.Pi * l.cutoff(t))
		alpha := dt / (rc + dt)
		for ch := 0; ch < 2; ch++ {
			l.state[ch] += alpha * (samples[i][ch] - l.state[ch])
			samples[i][ch] = l.state[ch]
		}
		l.position++
	}
	return n, ok
}

func (l *lowpass) Err() error { return l.src.Err() }

// gate mutes the stream on the low half of a square wave at freq.
type gate struct {
	src      beep.Streamer
	freq     float64
	rate     beep.SampleRate
	position int
}

func (g *gate) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.src.Stream(samples)
	for i := 0; i < n; i++ {
		phase := float64(g.position) * g.freq / float64(g.rate)
		if phase-math.Floor(phase) >= 0.5 {
			samples[i][0], samples[i][1] = 0, 0
		}
		g.position++
	}
	return n, ok
}

func (g *gate) Err() error { return g.src.Err() }

// newVolume scales s linearly. Zero or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

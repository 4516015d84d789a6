package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/termfolio/internal/config"
)

const testRate = beep.SampleRate(8000)

type captureSink struct {
	src     beep.Streamer
	started bool
	closed  int
}

func (c *captureSink) Start(src beep.Streamer, rate beep.SampleRate) error {
	c.src = src
	c.started = true
	return nil
}

func (c *captureSink) Close() error {
	c.closed++
	return nil
}

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		got, ok := s.Stream(buf)
		for i := 0; i < got; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		n += got
		if !ok || got == 0 {
			return n, peak
		}
	}
}

func TestCueLengths(t *testing.T) {
	for _, c := range []Cue{CueDrone, CueBeep, CueChime, CueWhoosh, CueGlitch} {
		s := Build(c, testRate, 1)
		require.NotNil(t, s, c.String())
		n, peak := drain(s)
		assert.Equal(t, testRate.N(c.Duration()), n, c.String())
		assert.Greater(t, peak, 0.0, "%s is silent", c)
		assert.LessOrEqual(t, peak, 1.0, "%s clips", c)
	}
	assert.Nil(t, Build(CueNone, testRate, 1))
}

func TestCueZeroVolumeIsSilent(t *testing.T) {
	_, peak := drain(Build(CueChime, testRate, 0))
	assert.Equal(t, 0.0, peak)
}

func TestCueString(t *testing.T) {
	assert.Equal(t, "whoosh", CueWhoosh.String())
	assert.Equal(t, "unknown", Cue(99).String())
}

func TestEnvelopeRamps(t *testing.T) {
	d := 100 * time.Millisecond
	osc := NewOscillator(0, d, WaveSquare, testRate)
	env := NewEnvelope(osc, d, 10*time.Millisecond, 10*time.Millisecond, testRate)

	buf := make([][2]float64, testRate.N(d))
	n, ok := env.Stream(buf)
	require.True(t, ok)
	require.Equal(t, len(buf), n)
	assert.Equal(t, 0.0, buf[0][0])
	assert.Equal(t, 1.0, buf[n/2][0])
	assert.Less(t, buf[n-1][0], 0.05)
}

func TestHannWindowEdgesAreQuiet(t *testing.T) {
	d := 50 * time.Millisecond
	osc := NewOscillator(0, d, WaveSquare, testRate)
	h := NewHann(osc, d, testRate)
	buf := make([][2]float64, testRate.N(d))
	n, _ := h.Stream(buf)
	assert.InDelta(t, 0, buf[0][0], 1e-9)
	assert.InDelta(t, 0, buf[n-1][0], 1e-9)
	assert.InDelta(t, 1, buf[n/2][0], 0.01)
}

func TestLowpassSmoothsSteps(t *testing.T) {
	d := 20 * time.Millisecond
	osc := NewOscillator(0, d, WaveSquare, testRate)
	lp := NewLowpass(osc, func(float64) float64 { return 100 }, testRate)
	buf := make([][2]float64, 4)
	lp.Stream(buf)
	assert.Greater(t, buf[0][0], 0.0)
	assert.Less(t, buf[0][0], buf[3][0])
	assert.Less(t, buf[3][0], 1.0)
}

func TestEngineMixesCues(t *testing.T) {
	sink := &captureSink{}
	e, err := NewEngine(sink, testRate, 1, zerolog.Nop())
	require.NoError(t, err)
	require.True(t, sink.started)

	e.Play(CueBeep)
	e.Play(CueBeep)
	e.Play(CueNone)
	assert.Equal(t, 2, e.Active())
	assert.Equal(t, 2, e.Played(CueBeep))

	buf := make([][2]float64, testRate.N(CueBeep.Duration())+2048)
	n, ok := sink.src.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, 0, e.Active())

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, 1, sink.closed)

	e.Play(CueChime)
	assert.Equal(t, 0, e.Played(CueChime))
}

func TestOpenWithoutSink(t *testing.T) {
	cfg := config.DefaultConfig().Audio
	cfg.Enabled = false
	_, err := Open(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoSink)

	cfg.Enabled = true
	cfg.Sink = "none"
	_, err = Open(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoSink)

	cfg.Sink = "tape"
	_, err = Open(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, ErrUnknownSink)
}

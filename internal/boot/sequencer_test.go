package boot_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/termfolio/internal/audio"
	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/telemetry"
)

type fakePlayer struct {
	mu     sync.Mutex
	played []audio.Cue
	closed int
}

func (p *fakePlayer) Play(c audio.Cue) {
	p.mu.Lock()
	p.played = append(p.played, c)
	p.mu.Unlock()
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	p.closed++
	p.mu.Unlock()
	return nil
}

func (p *fakePlayer) Played() []audio.Cue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]audio.Cue(nil), p.played...)
}

func (p *fakePlayer) Closed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// gatedRecorder holds the first boot_started record until released.
type gatedRecorder struct {
	telemetry.Memory
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (r *gatedRecorder) Record(ctx context.Context, e telemetry.Event) error {
	if e.Kind == telemetry.BootStarted {
		r.once.Do(func() {
			close(r.entered)
			<-r.release
		})
	}
	return r.Memory.Record(ctx, e)
}

type stateLog struct {
	mu     sync.Mutex
	states []boot.State
}

func (l *stateLog) add(s boot.State) {
	l.mu.Lock()
	l.states = append(l.states, s)
	l.mu.Unlock()
}

func (l *stateLog) get() []boot.State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]boot.State(nil), l.states...)
}

var _ = Describe("Sequencer", func() {
	var (
		mock     *clock.Mock
		player   *fakePlayer
		builds   int
		recorder *telemetry.Memory
		opts     boot.Options
		seq      *boot.Sequencer
		log      *stateLog
	)

	advance := func(d time.Duration) {
		mock.Add(d)
	}

	BeforeEach(func() {
		mock = clock.NewMock()
		player = &fakePlayer{}
		builds = 0
		recorder = &telemetry.Memory{}
		log = &stateLog{}
		opts = boot.Options{
			Clock: mock,
			Audio: func() (boot.Player, error) {
				builds++
				return player, nil
			},
			Recorder: recorder,
		}
	})

	JustBeforeEach(func() {
		seq = boot.New(opts)
		seq.OnChange(log.add)
	})

	AfterEach(func() {
		seq.Teardown()
	})

	It("waits for a gesture", func() {
		Expect(seq.State()).To(Equal(boot.AwaitingGesture))
		Expect(seq.Pending()).To(BeZero())
		Expect(seq.Progress()).To(BeZero())
		Expect(builds).To(BeZero())
	})

	Describe("Gesture", func() {
		JustBeforeEach(func() {
			Expect(seq.Gesture()).To(Succeed())
		})

		It("enters booting and plays the drone at once", func() {
			Expect(seq.State()).To(Equal(boot.Booting))
			Expect(seq.Path()).To(Equal(boot.PathGesture))
			Expect(player.Played()).To(Equal([]audio.Cue{audio.CueDrone}))
			Expect(seq.Pending()).To(Equal(7))
			Expect(seq.Audible()).To(BeTrue())
			Expect(builds).To(Equal(1))
		})

		It("ignores a second gesture", func() {
			Expect(seq.Gesture()).To(MatchError(boot.ErrAlreadyStarted))
			Expect(seq.Skip()).To(MatchError(boot.ErrAlreadyStarted))
			Expect(seq.Pending()).To(Equal(7))
			Expect(builds).To(Equal(1))
		})

		It("plays the cue chain on schedule", func() {
			advance(400 * time.Millisecond)
			Eventually(player.Played).Should(HaveLen(2))

			advance(800 * time.Millisecond)
			Eventually(player.Played).Should(HaveLen(4))

			advance(400 * time.Millisecond)
			Eventually(player.Played).Should(ContainElement(audio.CueGlitch))

			advance(600 * time.Millisecond)
			Eventually(player.Played).Should(ContainElement(audio.CueChime))
			Expect(seq.State()).To(Equal(boot.Booting))
		})

		It("zooms at 3.5s and reveals at 4.5s", func() {
			advance(3499 * time.Millisecond)
			Consistently(seq.State, 20*time.Millisecond).Should(Equal(boot.Booting))

			advance(time.Millisecond)
			Eventually(seq.State).Should(Equal(boot.Zooming))
			Eventually(player.Played).Should(ContainElement(audio.CueWhoosh))

			advance(time.Second)
			Eventually(seq.State).Should(Equal(boot.Revealed))
			Expect(seq.Pending()).To(BeZero())
			Expect(seq.Progress()).To(Equal(1.0))
			Eventually(log.get).Should(Equal([]boot.State{boot.Booting, boot.Zooming, boot.Revealed}))
		})

		It("plays every cue exactly once", func() {
			advance(5 * time.Second)
			Eventually(seq.State).Should(Equal(boot.Revealed))
			Eventually(player.Played).Should(ConsistOf(
				audio.CueDrone, audio.CueBeep, audio.CueBeep, audio.CueBeep,
				audio.CueGlitch, audio.CueChime, audio.CueWhoosh,
			))
		})

		It("records telemetry", func() {
			Expect(recorder.Count(telemetry.BootStarted)).To(Equal(1))
			Expect(recorder.Count(telemetry.BootSkipped)).To(BeZero())
			advance(5 * time.Second)
			Eventually(func() int { return recorder.Count(telemetry.BootRevealed) }).Should(Equal(1))
		})

		It("reports progress", func() {
			advance(2250 * time.Millisecond)
			Expect(seq.Progress()).To(BeNumerically("~", 0.5, 1e-9))
		})
	})

	Describe("Skip", func() {
		JustBeforeEach(func() {
			Expect(seq.Skip()).To(Succeed())
		})

		It("runs the visual chain without audio", func() {
			Expect(seq.State()).To(Equal(boot.Booting))
			Expect(seq.Path()).To(Equal(boot.PathSkip))
			Expect(seq.Pending()).To(Equal(2))
			Expect(seq.Audible()).To(BeFalse())
			Expect(builds).To(BeZero())

			advance(3500 * time.Millisecond)
			Eventually(seq.State).Should(Equal(boot.Zooming))
			advance(time.Second)
			Eventually(seq.State).Should(Equal(boot.Revealed))
			Expect(player.Played()).To(BeEmpty())
		})

		It("records only a skip by default", func() {
			Expect(recorder.Count(telemetry.BootSkipped)).To(Equal(1))
			Expect(recorder.Count(telemetry.BootStarted)).To(BeZero())
		})

		It("rejects a later gesture", func() {
			Expect(seq.Gesture()).To(MatchError(boot.ErrAlreadyStarted))
			Expect(builds).To(BeZero())
		})

		Context("when skips count as boots", func() {
			BeforeEach(func() {
				opts.SkipCountsAsBoot = true
			})

			It("records both events", func() {
				Expect(recorder.Count(telemetry.BootSkipped)).To(Equal(1))
				Expect(recorder.Count(telemetry.BootStarted)).To(Equal(1))
			})
		})
	})

	Context("when a second gesture races the first", func() {
		var gate *gatedRecorder

		BeforeEach(func() {
			gate = &gatedRecorder{entered: make(chan struct{}), release: make(chan struct{})}
			opts.Recorder = gate
		})

		It("accepts only one", func() {
			first := make(chan error, 1)
			go func() { first <- seq.Gesture() }()
			Eventually(gate.entered).Should(BeClosed())

			Expect(seq.Gesture()).To(MatchError(boot.ErrAlreadyStarted))
			Expect(seq.Skip()).To(MatchError(boot.ErrAlreadyStarted))

			close(gate.release)
			Eventually(first).Should(Receive(BeNil()))
			Expect(seq.Pending()).To(Equal(7))
			Expect(player.Played()).To(Equal([]audio.Cue{audio.CueDrone}))
			Expect(builds).To(Equal(1))
			Expect(gate.Count(telemetry.BootStarted)).To(Equal(1))
		})
	})

	Context("when the audio engine cannot be built", func() {
		BeforeEach(func() {
			opts.Audio = func() (boot.Player, error) {
				builds++
				return nil, errors.New("no device")
			}
		})

		It("still reveals on time", func() {
			Expect(seq.Gesture()).To(Succeed())
			Expect(seq.Audible()).To(BeFalse())
			advance(4500 * time.Millisecond)
			Eventually(seq.State).Should(Equal(boot.Revealed))
			Expect(builds).To(Equal(1))
		})
	})

	Describe("Teardown", func() {
		It("cancels pending timers before reveal", func() {
			Expect(seq.Gesture()).To(Succeed())
			advance(time.Second)
			Eventually(player.Played).Should(HaveLen(3))

			seq.Teardown()
			Expect(seq.Pending()).To(BeZero())
			Expect(player.Closed()).To(Equal(1))

			advance(10 * time.Second)
			Consistently(seq.State, 30*time.Millisecond).Should(Equal(boot.Booting))
			Expect(player.Played()).To(HaveLen(3))
			Expect(log.get()).To(Equal([]boot.State{boot.Booting}))
		})

		It("is idempotent and blocks restarts", func() {
			seq.Teardown()
			seq.Teardown()
			Expect(seq.Gesture()).To(MatchError(boot.ErrTornDown))
			Expect(seq.Skip()).To(MatchError(boot.ErrTornDown))
			Expect(seq.State()).To(Equal(boot.AwaitingGesture))
		})
	})
})

var _ = Describe("Schedule", func() {
	It("matches the intro timeline", func() {
		steps := boot.DefaultSchedule()
		Expect(steps).To(HaveLen(8))
		Expect(steps[0]).To(Equal(boot.Step{At: 0, Cue: audio.CueDrone, Enter: boot.Booting}))
		Expect(steps[6].Enter).To(Equal(boot.Zooming))
		Expect(boot.Length(steps)).To(Equal(4500 * time.Millisecond))
	})

	It("returns a copy", func() {
		a := boot.DefaultSchedule()
		a[0].At = time.Hour
		Expect(boot.DefaultSchedule()[0].At).To(BeZero())
	})

	It("names states", func() {
		Expect(boot.AwaitingGesture.String()).To(Equal("awaiting-gesture"))
		Expect(boot.State(0).String()).To(Equal("unknown"))
	})
})

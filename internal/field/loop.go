package field

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Loop calls a frame function once per tick until stopped.
type Loop struct {
	clock    clock.Clock
	interval time.Duration
	frame    func(time.Time)

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewLoop(c clock.Clock, fps int, frame func(time.Time)) *Loop {
	if c == nil {
		c = clock.New()
	}
	if fps <= 0 {
		fps = 60
	}
	return &Loop{clock: c, interval: time.Second / time.Duration(fps), frame: frame}
}

// Start launches the loop. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	ticker := l.clock.Ticker(l.interval)
	go l.run(ticker, l.stop, l.done)
}

func (l *Loop) run(t *clock.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-t.C:
			select {
			case <-stop:
				return
			default:
			}
			l.frame(now)
		}
	}
}

// Stop halts the loop and waits for an in-flight frame to finish. No frame
// runs after Stop returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop == nil {
		return
	}
	close(l.stop)
	<-l.done
	l.stop, l.done = nil, nil
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stop != nil
}

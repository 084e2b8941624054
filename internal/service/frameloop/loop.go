// Package frameloop drives repeated refreshes of the clock board.
//
// A Loop is either idle or running. While running it calls RefreshAll once
// per frame on its own goroutine; Start is idempotent, so adding several
// cards never spawns more than one loop.
package frameloop

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DefaultFrameRate matches a typical display refresh rate.
	DefaultFrameRate = 60
	// MaxFrameRate caps the configurable frame rate.
	MaxFrameRate = 240
)

// Refresher redraws everything for one frame.
type Refresher interface {
	RefreshAll(systemNow time.Time)
}

// Option configures a Loop.
type Option func(*Loop)

// WithFrameRate sets frames per second, clamped to 1..MaxFrameRate.
func WithFrameRate(fps int) Option {
	return func(l *Loop) {
		fps = max(1, min(fps, MaxFrameRate))
		l.interval = time.Second / time.Duration(fps)
	}
}

// WithClock sets the clock that paces frames and is read at every frame.
func WithClock(c clockwork.Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// Loop schedules frames for a Refresher.
type Loop struct {
	refresher Refresher
	clock     clockwork.Clock
	interval  time.Duration
	frames    atomic.Uint64

	// mu guards the run state below.
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates an idle loop.
func New(r Refresher, opts ...Option) *Loop {
	l := &Loop{
		refresher: r,
		clock:     clockwork.NewRealClock(),
		interval:  time.Second / DefaultFrameRate,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Start moves the loop to running. It returns false if it was already running.
func (l *Loop) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return false
	}

	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(l.stop, l.done)

	return true
}

// Stop moves the loop back to idle and waits for the current frame to finish.
// It returns false if the loop was not running.
func (l *Loop) Stop() bool {
	l.mu.Lock()

	if !l.running {
		l.mu.Unlock()

		return false
	}

	close(l.stop)
	done := l.done
	l.running = false

	l.mu.Unlock()

	<-done

	return true
}

// Running reports whether frames are being scheduled.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.running
}

// Frames returns how many frames have been rendered since creation.
func (l *Loop) Frames() uint64 {
	return l.frames.Load()
}

// Interval returns the time between two frames.
func (l *Loop) Interval() time.Duration {
	return l.interval
}

func (l *Loop) run(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := l.clock.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			l.refresher.RefreshAll(l.clock.Now())
			l.frames.Add(1)
		}
	}
}

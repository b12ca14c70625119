package clock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLoopStopped is returned when work is posted to a loop that has exited.
var ErrLoopStopped = errors.New("clock loop stopped")

var _ Clock = (*Loop)(nil)

type loopTimer struct {
	timer *time.Timer // nil for zero-delay callbacks posted directly
}

// Loop is a real-time clock backed by a single-goroutine event loop. Timer
// callbacks and posted functions all execute on the goroutine running Run,
// one at a time, so code driven by a Loop never runs in parallel with
// itself.
type Loop struct {
	mu      sync.Mutex
	next    Handle
	timers  map[Handle]loopTimer
	pending []func()
	closed  bool

	wake chan struct{}
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop() *Loop {
	return &Loop{
		timers: make(map[Handle]loopTimer),
		wake:   make(chan struct{}, 1),
	}
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Schedule runs fn on the loop after d. A non-positive delay posts fn
// behind the work already queued.
func (l *Loop) Schedule(d time.Duration, fn func()) Handle {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0
	}
	l.next++
	h := l.next

	fire := func() {
		l.mu.Lock()
		_, live := l.timers[h]
		delete(l.timers, h)
		l.mu.Unlock()
		if live {
			fn()
		}
	}

	if d <= 0 {
		l.timers[h] = loopTimer{}
		l.pending = append(l.pending, fire)
		l.mu.Unlock()
		l.signal()
		return h
	}

	l.timers[h] = loopTimer{timer: time.AfterFunc(d, func() { _ = l.Post(fire) })}
	l.mu.Unlock()
	return h
}

// Cancel stops a scheduled callback. A callback already handed to the loop
// is skipped when its turn comes.
func (l *Loop) Cancel(h Handle) {
	l.mu.Lock()
	t, ok := l.timers[h]
	delete(l.timers, h)
	l.mu.Unlock()
	if ok && t.timer != nil {
		t.timer.Stop()
	}
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrLoopStopped
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()
	l.signal()
	return nil
}

// Do runs fn on the loop and waits for it to finish. It must not be
// called from the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	if err := l.Post(func() {
		defer close(done)
		fn()
	}); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes posted work until ctx is cancelled. Outstanding timers are
// stopped on return and the loop rejects further work.
func (l *Loop) Run(ctx context.Context) error {
	defer l.shutdown()

	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		for _, fn := range batch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fn()
		}
		if len(batch) > 0 {
			continue
		}

		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closed = true
	for h, t := range l.timers {
		if t.timer != nil {
			t.timer.Stop()
		}
		delete(l.timers, h)
	}
	l.pending = nil
}

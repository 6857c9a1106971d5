package assessment

import (
	"sync"
	"time"
)

// DefaultDuration is the length of one assessment in seconds.
const DefaultDuration = 600

// Timer counts whole seconds down to zero on a fixed interval. The interval
// is one second in production and shorter in tests.
type Timer struct {
	interval time.Duration

	mu        sync.Mutex
	remaining int
	started   bool
	stopped   bool
	stop      chan struct{}
	done      chan struct{}
}

// NewTimer creates a stopped countdown of seconds units, ticking every interval.
func NewTimer(seconds int, interval time.Duration) *Timer {
	if seconds < 0 {
		seconds = 0
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Timer{
		interval:  interval,
		remaining: seconds,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start begins the countdown. onTick receives the remaining seconds after
// each decrement; onExpire runs once when zero is reached. Either may be nil.
// Start on an already started timer is a no-op.
func (t *Timer) Start(onTick func(remaining int), onExpire func()) {
	t.mu.Lock()
	if t.started || t.stopped {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	go t.run(onTick, onExpire)
}

func (t *Timer) run(onTick func(int), onExpire func()) {
	defer close(t.done)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			remaining, ok := t.tick()
			if !ok {
				return
			}
			if onTick != nil {
				onTick(remaining)
			}
			if remaining == 0 {
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}
}

// tick decrements under the lock so a concurrent Stop either sees the tick
// or prevents it, never both.
func (t *Timer) tick() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.remaining == 0 {
		return t.remaining, false
	}
	t.remaining--
	return t.remaining, true
}

// Stop cancels the countdown. It does not wait for the goroutine, so it is
// safe to call from inside onExpire. Repeated calls are no-ops.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	close(t.stop)
}

// Remaining returns the seconds left; never negative.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Done is closed once the countdown goroutine has exited. It is never closed
// for a timer that was not started.
func (t *Timer) Done() <-chan struct{} {
	return t.done
}

package backend

import (
	"sync"
	"time"
)

// throttle enforces a minimum interval between accepted operations.
type throttle struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next time.Time
}

func newThrottle(interval time.Duration) *throttle {
	if interval <= 0 {
		return &throttle{now: time.Now}
	}
	return &throttle{interval: interval, now: time.Now}
}

// allow reports whether an operation may run now and, if so, starts a new
// interval. Calls inside the interval are rejected rather than delayed.
func (t *throttle) allow() bool {
	if t == nil || t.interval <= 0 {
		return true
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if now.Before(t.next) {
		return false
	}
	t.next = now.Add(t.interval)
	return true
}

// Package ratelimit guards the service against bursts of traffic.
//
// Window is the fixed-window budget for the advice endpoint. ClientLimiter
// is an optional per-client token bucket applied in front of every route.
package ratelimit

import (
	"sync"
	"time"
)

// Window allows at most limit calls per fixed window. A window starts on the
// first call after the previous one expired.
type Window struct {
	limit  int
	length time.Duration
	now    func() time.Time

	mu    sync.Mutex
	count int
	start time.Time
}

func NewWindow(limit int, length time.Duration) *Window {
	return &Window{
		limit:  limit,
		length: length,
		now:    time.Now,
		start:  time.Now(),
	}
}

// Allow counts one call and reports whether it fits in the current window.
// A rejected call is not counted.
func (w *Window) Allow() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	if now.Sub(w.start) > w.length {
		w.count = 0
		w.start = now
	}
	if w.count >= w.limit {
		return false
	}
	w.count++
	return true
}

// RetryAfter is the advertised wait for a rejected call.
func (w *Window) RetryAfter() time.Duration {
	return w.length
}

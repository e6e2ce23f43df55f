// Package ratelimit provides the submission rate limiter injected into the
// review controller. It replaces what used to be a process-global counter map
// with an explicit, independently testable component.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter decides whether one more request is allowed for a key.
type Limiter interface {
	Allow(key string) bool
}

// SlidingWindow allows at most maxRequests per key within a trailing window.
// Timestamps older than the window are discarded on each call, so memory per
// key is bounded by maxRequests.
type SlidingWindow struct {
	window      time.Duration
	maxRequests int
	now         func() time.Time

	mu      sync.Mutex
	entries map[string][]time.Time
}

// Option configures a SlidingWindow.
type Option func(*SlidingWindow)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *SlidingWindow) {
		l.now = now
	}
}

// NewSlidingWindow creates a limiter with the given window and threshold.
func NewSlidingWindow(window time.Duration, maxRequests int, opts ...Option) *SlidingWindow {
	l := &SlidingWindow{
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
		entries:     make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow records one request for key and reports whether it fits the window.
func (l *SlidingWindow) Allow(key string) bool {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[key][:0]
	for _, ts := range l.entries[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.maxRequests {
		l.entries[key] = kept
		return false
	}

	l.entries[key] = append(kept, now)
	return true
}

// Unlimited is a Limiter that never rejects. Useful for hosts that rate limit
// upstream, and for tests.
type Unlimited struct{}

func (Unlimited) Allow(string) bool { return true }

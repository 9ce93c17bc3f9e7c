package security

import (
	"context"
	"sync"
	"time"
)

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window attempt counter keyed by client identity.
// Each identity gets maxAttempts consumptions per window, measured from its first attempt.
type RateLimiter struct {
	mu          sync.Mutex
	entries     map[string]*rateLimitEntry
	maxAttempts int
	window      time.Duration
	now         func() time.Time
}

type RateLimiterOption func(*RateLimiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		l.now = now
	}
}

func NewRateLimiter(maxAttempts int, window time.Duration, opts ...RateLimiterOption) *RateLimiter {
	l := &RateLimiter{
		entries:     make(map[string]*rateLimitEntry),
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TryConsume records an attempt and reports whether it is within the limit.
// A refused attempt does not extend the window.
func (l *RateLimiter) TryConsume(identity string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	entry, ok := l.entries[identity]
	if !ok || now.After(entry.resetAt) {
		l.entries[identity] = &rateLimitEntry{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if entry.count >= l.maxAttempts {
		return false
	}

	entry.count++
	return true
}

// RetryAfter is the time left until the identity's window resets, zero if none is active.
func (l *RateLimiter) RetryAfter(identity string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[identity]
	if !ok {
		return 0
	}
	remaining := entry.resetAt.Sub(l.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Sweep drops expired entries and returns how many were removed.
func (l *RateLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for identity, entry := range l.entries {
		if now.After(entry.resetAt) {
			delete(l.entries, identity)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identities.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run sweeps on every tick until ctx is cancelled.
func (l *RateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

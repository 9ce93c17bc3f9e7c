package security

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func TestRateLimiterWindow(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(3, time.Hour, WithClock(clock.Now))

	assert.True(t, limiter.TryConsume("10.0.0.5"))
	assert.True(t, limiter.TryConsume("10.0.0.5"))
	assert.True(t, limiter.TryConsume("10.0.0.5"))
	assert.False(t, limiter.TryConsume("10.0.0.5"))

	// refusals do not push the window out
	clock.Advance(30 * time.Minute)
	assert.False(t, limiter.TryConsume("10.0.0.5"))
	assert.Equal(t, 30*time.Minute, limiter.RetryAfter("10.0.0.5"))

	clock.Advance(30*time.Minute + time.Second)
	assert.True(t, limiter.TryConsume("10.0.0.5"))
	assert.True(t, limiter.TryConsume("10.0.0.5"))
	assert.True(t, limiter.TryConsume("10.0.0.5"))
	assert.False(t, limiter.TryConsume("10.0.0.5"))
}

func TestRateLimiterIdentitiesAreIndependent(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(1, time.Hour, WithClock(clock.Now))

	assert.True(t, limiter.TryConsume("a"))
	assert.False(t, limiter.TryConsume("a"))
	assert.True(t, limiter.TryConsume("b"))
	assert.Equal(t, time.Duration(0), limiter.RetryAfter("c"))
}

func TestRateLimiterSweep(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(5, time.Hour, WithClock(clock.Now))

	limiter.TryConsume("old")
	clock.Advance(45 * time.Minute)
	limiter.TryConsume("new")
	assert.Equal(t, 2, limiter.Len())

	clock.Advance(16 * time.Minute)
	assert.Equal(t, 1, limiter.Sweep())
	assert.Equal(t, 1, limiter.Len())
	assert.True(t, limiter.TryConsume("new"))
}

func TestRateLimiterConcurrentConsumers(t *testing.T) {
	limiter := NewRateLimiter(10, time.Hour)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryConsume("shared") {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
}

func TestRateLimiterRunStopsOnCancel(t *testing.T) {
	clock := newFakeClock()
	limiter := NewRateLimiter(1, time.Minute, WithClock(clock.Now))
	for i := 0; i < 3; i++ {
		limiter.TryConsume(fmt.Sprintf("client-%d", i))
	}
	clock.Advance(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return limiter.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

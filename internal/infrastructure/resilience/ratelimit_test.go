package resilience

import (
	"context"
	"sync"
	"testing"
	"time"

	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
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

func TestFixedWindowLimiter_AdmitsUpToLimit(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	l := NewFixedWindowLimiter(RateLimitConfig{Window: time.Minute, Calls: 3, Timeout: 0})
	l.now = clock.Now

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()), "call %d", i+1)
	}
	assert.ErrorIs(t, l.Acquire(context.Background()), ErrRateLimited)

	clock.Advance(time.Minute)
	assert.NoError(t, l.Acquire(context.Background()), "a new window admits again")
}

func TestFixedWindowLimiter_WaitsForNextWindowWithinTimeout(t *testing.T) {
	l := NewFixedWindowLimiter(RateLimitConfig{Window: 30 * time.Millisecond, Calls: 1, Timeout: time.Second})

	require.NoError(t, l.Acquire(context.Background()))

	start := time.Now()
	require.NoError(t, l.Acquire(context.Background()))
	assert.Greater(t, time.Since(start), time.Duration(0))
}

func TestFixedWindowLimiter_RejectsWhenWindowOutlastsTimeout(t *testing.T) {
	l := NewFixedWindowLimiter(RateLimitConfig{Window: time.Minute, Calls: 1, Timeout: 20 * time.Millisecond})

	require.NoError(t, l.Acquire(context.Background()))

	start := time.Now()
	err := l.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "rejection does not wait for the window")
}

func TestFixedWindowLimiter_ContextCanceled(t *testing.T) {
	l := NewFixedWindowLimiter(RateLimitConfig{Window: 200 * time.Millisecond, Calls: 1, Timeout: time.Second})
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.Canceled)
}

func TestFixedWindowLimiter_Defaults(t *testing.T) {
	l := NewFixedWindowLimiter(RateLimitConfig{Timeout: -1})
	assert.Equal(t, DefaultRateLimitWindow, l.window)
	assert.Equal(t, DefaultRateLimitCalls, l.calls)
	assert.Equal(t, DefaultRateLimitTimeout, l.timeout)
}

func TestFixedWindowLimiter_Concurrent(t *testing.T) {
	l := NewFixedWindowLimiter(RateLimitConfig{Window: time.Minute, Calls: 10, Timeout: 0})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Acquire(context.Background()) == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, admitted)
}

func TestRateLimitRenderer(t *testing.T) {
	next := &scriptedRenderer{}
	observer := &countingObserver{}
	limiter := NewFixedWindowLimiter(RateLimitConfig{Window: time.Minute, Calls: 1, Timeout: 0})
	r := NewRateLimitRenderer(next, limiter, observer)

	_, err := r.Render(context.Background(), &infra.RenderRequest{HTML: "x"})
	require.NoError(t, err)

	_, err = r.Render(context.Background(), &infra.RenderRequest{HTML: "x"})
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, next.callCount())
	assert.Equal(t, 1, observer.rateLimited)
}

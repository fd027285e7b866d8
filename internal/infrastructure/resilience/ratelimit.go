package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
)

// Rate limit defaults
const (
	DefaultRateLimitWindow  = time.Minute
	DefaultRateLimitCalls   = 10
	DefaultRateLimitTimeout = time.Second
)

// RateLimitConfig configures a FixedWindowLimiter
type RateLimitConfig struct {
	// Window is the length of one admission window
	Window time.Duration
	// Calls is the number of admissions per window
	Calls int
	// Timeout bounds how long a caller waits for admission
	Timeout time.Duration
}

// FixedWindowLimiter admits at most Calls operations per window. Waiting
// callers are admitted when the next window opens, if that happens within
// the timeout.
type FixedWindowLimiter struct {
	window  time.Duration
	calls   int
	timeout time.Duration
	now     func() time.Time

	mu          sync.Mutex
	windowStart time.Time
	admitted    int
}

// NewFixedWindowLimiter creates a limiter; zero fields take the defaults
func NewFixedWindowLimiter(config RateLimitConfig) *FixedWindowLimiter {
	if config.Window <= 0 {
		config.Window = DefaultRateLimitWindow
	}
	if config.Calls <= 0 {
		config.Calls = DefaultRateLimitCalls
	}
	if config.Timeout < 0 {
		config.Timeout = DefaultRateLimitTimeout
	}
	return &FixedWindowLimiter{
		window:  config.Window,
		calls:   config.Calls,
		timeout: config.Timeout,
		now:     time.Now,
	}
}

// tryAcquire admits the caller or reports how long until the next window.
func (l *FixedWindowLimiter) tryAcquire() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if l.windowStart.IsZero() || now.Sub(l.windowStart) >= l.window {
		l.windowStart = now
		l.admitted = 0
	}
	if l.admitted < l.calls {
		l.admitted++
		return true, 0
	}
	return false, l.windowStart.Add(l.window).Sub(now)
}

// Acquire blocks until the caller is admitted. It returns ErrRateLimited
// when admission would take longer than the timeout, or the context error.
func (l *FixedWindowLimiter) Acquire(ctx context.Context) error {
	deadline := l.now().Add(l.timeout)
	for {
		ok, wait := l.tryAcquire()
		if ok {
			return nil
		}
		if l.now().Add(wait).After(deadline) {
			return ErrRateLimited
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// RateLimitRenderer admits renders through a FixedWindowLimiter.
type RateLimitRenderer struct {
	next     infra.PDFRenderer
	limiter  *FixedWindowLimiter
	observer Observer
}

// NewRateLimitRenderer wraps next with admission control
func NewRateLimitRenderer(next infra.PDFRenderer, limiter *FixedWindowLimiter, observer Observer) *RateLimitRenderer {
	return &RateLimitRenderer{
		next:     next,
		limiter:  limiter,
		observer: observerOrNop(observer),
	}
}

// Render implements infra.PDFRenderer
func (r *RateLimitRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	if err := r.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, ErrRateLimited) {
			r.observer.ObserveRateLimited()
		}
		return nil, err
	}
	return r.next.Render(ctx, req)
}

// Close implements infra.PDFRenderer
func (r *RateLimitRenderer) Close() error {
	return r.next.Close()
}

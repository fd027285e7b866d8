package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// Retry defaults
const (
	DefaultRetryAttempts = 3
	DefaultRetryBackoff  = 500 * time.Millisecond
)

// RetryConfig configures a RetryRenderer
type RetryConfig struct {
	// Attempts is the total number of tries, including the first
	Attempts int
	// Backoff is the fixed wait between attempts
	Backoff  time.Duration
	Observer Observer
	Logger   *zap.Logger
}

// RetryRenderer retries failed renders with a constant backoff.
type RetryRenderer struct {
	next     infra.PDFRenderer
	attempts int
	backoff  time.Duration
	observer Observer
	logger   *zap.Logger
}

// NewRetryRenderer wraps next with retries
func NewRetryRenderer(next infra.PDFRenderer, config RetryConfig) *RetryRenderer {
	if config.Attempts <= 0 {
		config.Attempts = DefaultRetryAttempts
	}
	if config.Backoff < 0 {
		config.Backoff = DefaultRetryBackoff
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &RetryRenderer{
		next:     next,
		attempts: config.Attempts,
		backoff:  config.Backoff,
		observer: observerOrNop(config.Observer),
		logger:   config.Logger,
	}
}

// Render implements infra.PDFRenderer
func (r *RetryRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	attempt := 0
	operation := func() (*infra.RenderResult, error) {
		attempt++
		result, err := r.next.Render(ctx, req)
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			return nil, backoff.Permanent(err)
		}
		if attempt < r.attempts {
			r.observer.ObserveRetry(attempt)
			r.logger.Warn("PDF render attempt failed, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", r.attempts),
				zap.Error(err))
		}
		return nil, err
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewConstantBackOff(r.backoff)),
		backoff.WithMaxTries(uint(r.attempts)),
	)
	if err == nil {
		return result, nil
	}
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	if !IsRetryable(err) || ctx.Err() != nil {
		return nil, err
	}
	return nil, &ExhaustedError{Attempts: attempt, Err: err}
}

// Close implements infra.PDFRenderer
func (r *RetryRenderer) Close() error {
	return r.next.Close()
}

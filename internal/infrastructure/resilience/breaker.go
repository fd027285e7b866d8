package resilience

import (
	"context"
	"errors"
	"time"

	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Breaker defaults
const (
	DefaultBreakerMinRequests  = 10
	DefaultBreakerFailureRatio = 0.5
	DefaultBreakerOpenTimeout  = 30 * time.Second
	DefaultBreakerWindow       = time.Minute
)

// BreakerConfig configures a BreakerRenderer
type BreakerConfig struct {
	Name string
	// Window is a fixed closed-state interval: counts reset at each boundary,
	// so a failure ratio is judged per window, not over a sliding span
	Window time.Duration
	// MinRequests is the number of calls in the window before the breaker may trip
	MinRequests uint32
	// FailureRatio trips the breaker once reached
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open
	OpenTimeout time.Duration
	Observer    Observer
	Logger      *zap.Logger
}

// BreakerRenderer stops calling a failing renderer for a while.
type BreakerRenderer struct {
	next infra.PDFRenderer
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerRenderer wraps next with a circuit breaker
func NewBreakerRenderer(next infra.PDFRenderer, config BreakerConfig) *BreakerRenderer {
	if config.Name == "" {
		config.Name = "pdf-renderer"
	}
	if config.Window <= 0 {
		config.Window = DefaultBreakerWindow
	}
	if config.MinRequests == 0 {
		config.MinRequests = DefaultBreakerMinRequests
	}
	if config.FailureRatio <= 0 || config.FailureRatio > 1 {
		config.FailureRatio = DefaultBreakerFailureRatio
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = DefaultBreakerOpenTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := observerOrNop(config.Observer)

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     config.Name,
		Interval: config.Window,
		Timeout:  config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("PDF renderer circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			observer.ObserveBreakerState(name, to.String())
		},
		// bad input says nothing about renderer health
		IsSuccessful: func(err error) bool {
			return err == nil || infra.IsClientError(err) || errors.Is(err, context.Canceled)
		},
	})

	observer.ObserveBreakerState(config.Name, cb.State().String())
	return &BreakerRenderer{next: next, cb: cb}
}

// Render implements infra.PDFRenderer
func (r *BreakerRenderer) Render(ctx context.Context, req *infra.RenderRequest) (*infra.RenderResult, error) {
	result, err := r.cb.Execute(func() (interface{}, error) {
		return r.next.Render(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	return result.(*infra.RenderResult), nil
}

// State returns the breaker state: closed, half-open or open
func (r *BreakerRenderer) State() string {
	return r.cb.State().String()
}

// Close implements infra.PDFRenderer
func (r *BreakerRenderer) Close() error {
	return r.next.Close()
}

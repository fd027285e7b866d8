package resilience

import (
	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"go.uber.org/zap"
)

// PipelineConfig configures the full resilience chain
type PipelineConfig struct {
	Retry          RetryConfig
	RateLimit      RateLimitConfig
	BreakerEnabled bool
	Breaker        BreakerConfig
	Observer       Observer
	Logger         *zap.Logger
}

// NewPipeline composes retry(rateLimit(breaker(renderer))). The breaker is
// only installed when enabled.
func NewPipeline(renderer infra.PDFRenderer, config PipelineConfig) infra.PDFRenderer {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	inner := renderer
	if config.BreakerEnabled {
		breaker := config.Breaker
		breaker.Observer = config.Observer
		breaker.Logger = logger
		inner = NewBreakerRenderer(inner, breaker)
	}

	limited := NewRateLimitRenderer(inner, NewFixedWindowLimiter(config.RateLimit), config.Observer)

	retry := config.Retry
	retry.Observer = config.Observer
	retry.Logger = logger
	return NewRetryRenderer(limited, retry)
}

package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_RetriesThroughLimiter(t *testing.T) {
	next := &scriptedRenderer{errs: []error{errors.New("a"), errors.New("b")}}
	p := NewPipeline(next, PipelineConfig{
		Retry:     RetryConfig{Attempts: 3, Backoff: time.Millisecond},
		RateLimit: RateLimitConfig{Window: time.Minute, Calls: 10, Timeout: 0},
	})

	result, err := p.Render(context.Background(), &infra.RenderRequest{HTML: "x"})

	require.NoError(t, err)
	assert.Equal(t, okPDF, result.PDFData)
	assert.Equal(t, 3, next.callCount())
}

func TestPipeline_RateLimitIsNotRetried(t *testing.T) {
	next := &failingRenderer{err: errors.New("boom")}
	observer := &countingObserver{}
	p := NewPipeline(next, PipelineConfig{
		Retry:     RetryConfig{Attempts: 3, Backoff: time.Millisecond},
		RateLimit: RateLimitConfig{Window: time.Minute, Calls: 1, Timeout: 0},
		Observer:  observer,
	})

	_, err := p.Render(context.Background(), &infra.RenderRequest{HTML: "x"})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 1, next.callCount(), "second attempt is rejected for admission")
	assert.Equal(t, 1, observer.rateLimited)
	assert.Equal(t, []int{1}, observer.retries)
}

func TestPipeline_BreakerOpenIsNotRetried(t *testing.T) {
	next := &failingRenderer{err: errors.New("boom")}
	p := NewPipeline(next, PipelineConfig{
		Retry:          RetryConfig{Attempts: 3, Backoff: time.Millisecond},
		RateLimit:      RateLimitConfig{Window: time.Minute, Calls: 100, Timeout: 0},
		BreakerEnabled: true,
		Breaker:        BreakerConfig{MinRequests: 2, FailureRatio: 0.5, OpenTimeout: time.Minute},
	})

	_, err := p.Render(context.Background(), &infra.RenderRequest{HTML: "x"})

	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 2, next.callCount())
}

package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RenderMetrics exports PDF generation metrics over OTLP. It satisfies the
// render service's observer interface, so the same events that feed the
// Prometheus scrape endpoint also reach the collector.
type RenderMetrics struct {
	logger *zap.Logger

	renderTotal    *Counter
	renderDuration *Histogram
	cacheRequests  *Counter
	cacheEntries   *Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// CacheSizer reports how many entries a cache currently holds.
type CacheSizer interface {
	Size() int
}

// RenderMetricsConfig holds configuration for render metrics.
type RenderMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewRenderMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// NewRenderMetrics creates the render instruments on cfg.Meter.
func NewRenderMetrics(cfg RenderMetricsConfig) (*RenderMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rm := &RenderMetrics{
		logger:   logger,
		stopChan: make(chan struct{}),
	}

	var err error
	rm.renderTotal, err = NewCounter(cfg.Meter,
		"pdf_render_total",
		"Total number of PDF generation attempts by kind and outcome",
		"{renders}",
	)
	if err != nil {
		return nil, err
	}

	rm.renderDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "pdf_render_duration_seconds",
		Description: "Time to produce a PDF, template and rasterization included",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	rm.cacheRequests, err = NewCounter(cfg.Meter,
		"pdf_html_cache_requests_total",
		"HTML cache lookups by region and result",
		"{lookups}",
	)
	if err != nil {
		return nil, err
	}

	rm.cacheEntries, err = NewGauge(cfg.Meter,
		"pdf_html_cache_entries",
		"Entries held by the in-process HTML cache",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	return rm, nil
}

// ObserveRender records one finished generation.
func (rm *RenderMetrics) ObserveRender(kind, outcome string, d time.Duration) {
	ctx := context.Background()
	rm.renderTotal.Inc(ctx, AttrKind.String(kind), AttrOutcome.String(outcome))
	rm.renderDuration.RecordDuration(ctx, d, AttrKind.String(kind))
}

// ObserveCache records one HTML cache lookup.
func (rm *RenderMetrics) ObserveCache(region string, hit bool) {
	rm.cacheRequests.Inc(context.Background(), AttrRegion.String(region), AttrCacheHit.Bool(hit))
}

// StartCacheSizeCollection samples the cache size every interval
// (default: 30 seconds) until Stop is called or ctx is done. It is non-blocking
// and only the first call starts a collector.
func (rm *RenderMetrics) StartCacheSizeCollection(ctx context.Context, cache CacheSizer, interval time.Duration) {
	if cache == nil {
		return
	}
	rm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 30 * time.Second
		}
		go rm.runCacheSizeCollection(ctx, cache, interval)
	})
}

func (rm *RenderMetrics) runCacheSizeCollection(ctx context.Context, cache CacheSizer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rm.cacheEntries.Record(ctx, int64(cache.Size()))
	for {
		select {
		case <-rm.stopChan:
			rm.logger.Debug("Stopping HTML cache size collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.cacheEntries.Record(ctx, int64(cache.Size()))
		}
	}
}

// Stop stops the periodic collection.
func (rm *RenderMetrics) Stop() {
	rm.stopOnce.Do(func() {
		close(rm.stopChan)
	})
}

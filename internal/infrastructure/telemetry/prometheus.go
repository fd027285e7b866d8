package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus metric names, without the namespace
const (
	MetricRendersTotal          = "renders_total"
	MetricRenderDurationSeconds = "render_duration_seconds"
	MetricRenderRetriesTotal    = "render_retries_total"
	MetricRateLimitedTotal      = "render_rate_limited_total"
	MetricBreakerState          = "breaker_state"
	MetricHTMLCacheTotal        = "html_cache_requests_total"
)

// Breaker state gauge values
var breakerStateValues = map[string]float64{
	"closed":    0,
	"half-open": 1,
	"open":      2,
}

// PipelineMetricsConfig configures PipelineMetrics
type PipelineMetricsConfig struct {
	// Namespace prefixes every metric. Default: "pdfservice"
	Namespace string
	// HistogramBuckets for render durations. Default: prometheus.DefBuckets
	HistogramBuckets []float64
	// IncludeRuntime registers the Go runtime and process collectors
	IncludeRuntime bool
}

// PipelineMetrics exports render pipeline metrics on a dedicated Prometheus
// registry. It satisfies both the render service and resilience observers.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type PipelineMetrics struct {
	registry *prometheus.Registry

	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	retriesTotal   prometheus.Counter
	rateLimited    prometheus.Counter
	breakerState   *prometheus.GaugeVec
	cacheRequests  *prometheus.CounterVec
}

// NewPipelineMetrics creates and registers the pipeline metrics
func NewPipelineMetrics(config PipelineMetricsConfig) *PipelineMetrics {
	if config.Namespace == "" {
		config.Namespace = "pdfservice"
	}
	if len(config.HistogramBuckets) == 0 {
		config.HistogramBuckets = prometheus.DefBuckets
	}

	m := &PipelineMetrics{registry: prometheus.NewRegistry()}

	m.rendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      MetricRendersTotal,
		Help:      "Total number of PDF renders by kind and outcome.",
	}, []string{"kind", "outcome"})

	m.renderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      MetricRenderDurationSeconds,
		Help:      "PDF render duration in seconds.",
		Buckets:   config.HistogramBuckets,
	}, []string{"kind"})

	m.retriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      MetricRenderRetriesTotal,
		Help:      "Total number of rasterization retries.",
	})

	m.rateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      MetricRateLimitedTotal,
		Help:      "Total number of renders rejected by the rate limiter.",
	})

	m.breakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: config.Namespace,
		Name:      MetricBreakerState,
		Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
	}, []string{"breaker"})

	m.cacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: config.Namespace,
		Name:      MetricHTMLCacheTotal,
		Help:      "HTML cache lookups by region and result.",
	}, []string{"region", "result"})

	m.registry.MustRegister(
		m.rendersTotal,
		m.renderDuration,
		m.retriesTotal,
		m.rateLimited,
		m.breakerState,
		m.cacheRequests,
	)
	if config.IncludeRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// ObserveRender records a finished render
func (m *PipelineMetrics) ObserveRender(kind, outcome string, duration time.Duration) {
	m.rendersTotal.WithLabelValues(kind, outcome).Inc()
	m.renderDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveCache records an HTML cache lookup
func (m *PipelineMetrics) ObserveCache(region string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(region, result).Inc()
}

// ObserveRetry records a rasterization retry
func (m *PipelineMetrics) ObserveRetry(int) {
	m.retriesTotal.Inc()
}

// ObserveRateLimited records a rejected admission
func (m *PipelineMetrics) ObserveRateLimited() {
	m.rateLimited.Inc()
}

// ObserveBreakerState records a breaker state transition
func (m *PipelineMetrics) ObserveBreakerState(name, state string) {
	m.breakerState.WithLabelValues(name).Set(breakerStateValues[state])
}

// Registry returns the underlying registry
func (m *PipelineMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

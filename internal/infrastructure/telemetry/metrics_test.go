package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/oqd/pdfservice/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func disabledMeterProvider(t *testing.T) *telemetry.MeterProvider {
	t.Helper()
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           false,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    60 * time.Second,
		ServiceName:       "test-service",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return mp
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp := disabledMeterProvider(t)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test-meter"))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.NoError(t, mp.Shutdown(cancelled))
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	// Requires a local OTEL collector
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    time.Second,
		ServiceName:       "test-service",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, mp.IsEnabled())
	_ = mp.Shutdown(ctx)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestMetricHelpers(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProviderWithReader(reader, "test-service", nil)
	defer func() { _ = mp.Shutdown(ctx) }()

	assert.True(t, mp.IsEnabled())
	meter := mp.Meter("test")

	counter, err := telemetry.NewCounter(meter, "test_counter", "Test counter", "1")
	require.NoError(t, err)
	for range 3 {
		counter.Inc(ctx, telemetry.AttrKind.String("checklist"))
	}

	histogram, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "test_duration_seconds",
		Description: "Test duration",
		Unit:        "s",
		Boundaries:  telemetry.RenderDurationBuckets,
	})
	require.NoError(t, err)
	histogram.RecordDuration(ctx, 1500*time.Millisecond)
	histogram.Record(ctx, 0.2)

	gauge, err := telemetry.NewGauge(meter, "test_gauge", "Test gauge", "{entries}")
	require.NoError(t, err)
	gauge.Record(ctx, 10)
	gauge.Record(ctx, 7)

	metrics := collect(t, reader)

	sum, ok := metrics["test_counter"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)

	hist, ok := metrics["test_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.Equal(t, telemetry.RenderDurationBuckets, hist.DataPoints[0].Bounds)

	g, ok := metrics["test_gauge"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, g.DataPoints, 1)
	assert.Equal(t, int64(7), g.DataPoints[0].Value)
}

func TestMeterProvider_NilIsDisabled(t *testing.T) {
	var mp *telemetry.MeterProvider
	assert.False(t, mp.IsEnabled())
}

func TestAttributeKeys(t *testing.T) {
	assert.Equal(t, "pdf.kind", string(telemetry.AttrKind))
	assert.Equal(t, "pdf.outcome", string(telemetry.AttrOutcome))
	assert.Equal(t, "cache.region", string(telemetry.AttrRegion))
	assert.Equal(t, "cache.hit", string(telemetry.AttrCacheHit))
}

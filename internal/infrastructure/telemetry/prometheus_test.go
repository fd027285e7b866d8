package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineMetrics(t *testing.T) {
	m := NewPipelineMetrics(PipelineMetricsConfig{})
	require.NotNil(t, m.Registry())

	// vectors only appear once a label set is used
	count, err := testutil.GatherAndCount(m.Registry())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPipelineMetrics_Observe(t *testing.T) {
	m := NewPipelineMetrics(PipelineMetricsConfig{Namespace: "test"})

	m.ObserveRender("checklist", "success", 120*time.Millisecond)
	m.ObserveRender("checklist", "success", 80*time.Millisecond)
	m.ObserveRender("job-ticket", "render_error", time.Second)
	m.ObserveCache("jobTicketTemplates", true)
	m.ObserveCache("jobTicketTemplates", false)
	m.ObserveCache("jobTicketTemplates", false)
	m.ObserveRetry(1)
	m.ObserveRetry(2)
	m.ObserveRateLimited()
	m.ObserveBreakerState("pdf-renderer", "open")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("checklist", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rendersTotal.WithLabelValues("job-ticket", "render_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("jobTicketTemplates", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheRequests.WithLabelValues("jobTicketTemplates", "miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.retriesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimited))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breakerState.WithLabelValues("pdf-renderer")))

	m.ObserveBreakerState("pdf-renderer", "closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.breakerState.WithLabelValues("pdf-renderer")))
}

func TestPipelineMetrics_Handler(t *testing.T) {
	m := NewPipelineMetrics(PipelineMetricsConfig{IncludeRuntime: true})
	m.ObserveRender("checklist", "success", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `pdfservice_renders_total{kind="checklist",outcome="success"} 1`))
	assert.Contains(t, body, "go_goroutines")
}

package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/infrastructure/telemetry"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are served without profiling labels.
	SkipPaths []string
}

// DefaultProfilingConfig skips the health and scrape endpoints
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: slices.Clone(DefaultExemptPaths),
	}
}

// Profiling attaches Pyroscope route and method labels to the request, so
// profiles can be filtered by endpoint.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		labels := map[string]string{telemetry.ProfilingLabelMethod: c.Request.Method}
		if route := c.FullPath(); route != "" {
			labels[telemetry.ProfilingLabelRoute] = route
		}

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Health statuses, named after the Spring actuator values clients poll for
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

// Pinger is a dependency whose reachability is reported by the health check
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /health and /actuator/health
type HealthHandler struct {
	service string
	checks  map[string]Pinger
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewHealthHandler creates a health handler; checks may be nil
func NewHealthHandler(service string, checks map[string]Pinger, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{
		service: service,
		checks:  checks,
		timeout: 2 * time.Second,
		logger:  logger,
		now:     time.Now,
	}
}

// Health reports UP, or DOWN with 503 when a dependency does not answer
func (h *HealthHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:  StatusUp,
		Service: h.service,
		Time:    h.now().UTC().Format(time.RFC3339),
	}

	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		resp.Components = make(map[string]string, len(h.checks))
		for name, check := range h.checks {
			if err := check.Ping(ctx); err != nil {
				h.logger.Warn("Health check failed", zap.String("component", name), zap.Error(err))
				resp.Components[name] = StatusDown
				resp.Status = StatusDown
				continue
			}
			resp.Components[name] = StatusUp
		}
	}

	status := http.StatusOK
	if resp.Status != StatusUp {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// RegisterRoutes mounts the health endpoints at the engine root
func (h *HealthHandler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/actuator/health", h.Health)
}

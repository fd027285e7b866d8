package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// HeaderAPIKey is the header clients authenticate with
const HeaderAPIKey = "X-API-KEY"

// API key failure messages
const (
	MsgAPIKeyMissing = "API key is missing"
	MsgAPIKeyInvalid = "Invalid API key"
)

// DefaultExemptPaths are served without an API key
var DefaultExemptPaths = []string{"/health", "/actuator/health", "/metrics"}

// APIKeyConfig configures the API key middleware
type APIKeyConfig struct {
	// Key is the shared secret. An empty key disables the check.
	Key string
	// ExemptPaths are path prefixes served without a key, in addition to
	// DefaultExemptPaths.
	ExemptPaths []string
	Logger      *zap.Logger
}

// APIKey rejects requests whose X-API-KEY header does not match the
// configured key. Preflight requests and exempt paths pass through.
func APIKey(cfg APIKeyConfig) gin.HandlerFunc {
	if cfg.Key == "" {
		return func(c *gin.Context) { c.Next() }
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	exempt := append(append([]string{}, DefaultExemptPaths...), cfg.ExemptPaths...)
	expected := []byte(cfg.Key)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || isExempt(c.Request.URL.Path, exempt) {
			c.Next()
			return
		}

		provided := c.GetHeader(HeaderAPIKey)
		if provided == "" {
			log.Warn("Request without API key", zap.String("path", c.Request.URL.Path), zap.String("client_ip", c.ClientIP()))
			abortUnauthorized(c, MsgAPIKeyMissing)
			return
		}
		if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			log.Warn("Invalid API key", zap.String("path", c.Request.URL.Path), zap.String("client_ip", c.ClientIP()))
			abortUnauthorized(c, MsgAPIKeyInvalid)
			return
		}
		c.Next()
	}
}

func isExempt(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorBody(dto.ErrUnauthorized, message))
}

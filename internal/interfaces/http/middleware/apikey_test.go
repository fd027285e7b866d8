package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAPIKey(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	router := newTestRouter(APIKey(APIKeyConfig{
		Key:         "s3cret",
		ExemptPaths: []string{"/public"},
		Logger:      zap.New(core),
	}))
	router.GET("/public/info", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		path       string
		key        string
		wantStatus int
		wantMsg    string
	}{
		{name: "valid key", method: http.MethodPost, path: "/test", key: "s3cret", wantStatus: http.StatusOK},
		{name: "missing key", method: http.MethodPost, path: "/test", wantStatus: http.StatusUnauthorized, wantMsg: MsgAPIKeyMissing},
		{name: "wrong key", method: http.MethodPost, path: "/test", key: "guess", wantStatus: http.StatusUnauthorized, wantMsg: MsgAPIKeyInvalid},
		{name: "key prefix is not enough", method: http.MethodPost, path: "/test", key: "s3c", wantStatus: http.StatusUnauthorized, wantMsg: MsgAPIKeyInvalid},
		{name: "health exempt", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK},
		{name: "actuator health exempt", method: http.MethodGet, path: "/actuator/health", wantStatus: http.StatusOK},
		{name: "metrics exempt", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "configured prefix exempt", method: http.MethodGet, path: "/public/info", wantStatus: http.StatusOK},
		{name: "preflight exempt", method: http.MethodOptions, path: "/test", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.key != "" {
				req.Header.Set(HeaderAPIKey, tt.key)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMsg != "" {
				body := decodeErrorBody(t, w)
				assert.Equal(t, http.StatusUnauthorized, body.Status)
				assert.Equal(t, dto.ErrUnauthorized, body.Error)
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}

	assert.Equal(t, 3, logs.Len())
}

func TestAPIKey_EmptyKeyDisablesCheck(t *testing.T) {
	router := newTestRouter(APIKey(APIKeyConfig{}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

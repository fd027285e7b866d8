package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/test", ok)
	router.POST("/test", ok)
	router.GET("/health", ok)
	router.GET("/actuator/health", ok)
	router.GET("/metrics", ok)
	return router
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorBody {
	t.Helper()
	var body dto.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

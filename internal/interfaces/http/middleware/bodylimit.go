package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
)

// BodyLimit rejects requests whose declared length exceeds maxRequestSize and
// caps streamed bodies with http.MaxBytesReader. maxFileSize only appears in
// the 413 message; per-part limits are enforced by the handlers.
func BodyLimit(maxFileSize, maxRequestSize int64) gin.HandlerFunc {
	message := dto.FileSizeExceededMessage(maxFileSize, maxRequestSize)
	return func(c *gin.Context) {
		if maxRequestSize <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxRequestSize {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorBody(dto.ErrFileSizeExceeded, message))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestSize)
		c.Next()
	}
}

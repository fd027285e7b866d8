package handler

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/application/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/logger"
	"github.com/oqd/pdfservice/internal/infrastructure/resilience"
	"github.com/oqd/pdfservice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// MsgValidationFailed is the message of every field validation response
const MsgValidationFailed = "Validation failed"

// BaseHandler provides common handler utilities
type BaseHandler struct {
	// Debug adds the error cause and stack frames to error bodies
	Debug bool
	// MaxFileSize and MaxRequestSize are reported in 413 responses
	MaxFileSize    int64
	MaxRequestSize int64
	Logger         *zap.Logger
}

func (h *BaseHandler) log(c *gin.Context) *logger.ContextLogger {
	l := h.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return logger.WithLogger(c.Request.Context(), l)
}

// Error writes an error body; the status is derived from title
func (h *BaseHandler) Error(c *gin.Context, title, message string) {
	c.JSON(dto.GetHTTPStatus(title), dto.NewErrorBody(title, message))
}

// ErrorWithCause writes an error body and, in debug mode, the cause
func (h *BaseHandler) ErrorWithCause(c *gin.Context, title, message string, cause error) {
	body := dto.NewErrorBody(title, message)
	if h.Debug && cause != nil {
		body = body.WithDebug(fmt.Sprintf("%T: %v", cause, cause), callers(3))
	}
	c.JSON(body.Status, body)
}

// HandleError maps an error returned by validation or rendering to its
// response.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var (
		validationErr *printing.ValidationError
		clientErr     *printing.ClientError
		maxBytesErr   *http.MaxBytesError
		renderErr     *printing.RenderFailedError
	)

	switch {
	case errors.As(err, &validationErr):
		h.log(c).Warn("Request validation failed", zap.Strings("errors", validationErr.Messages()))
		c.JSON(http.StatusBadRequest, dto.NewErrorBody(dto.ErrValidation, MsgValidationFailed).WithErrors(validationErr.Messages()))

	case errors.As(err, &clientErr):
		h.log(c).Warn("Bad request", zap.String("error", clientErr.Title), zap.String("message", clientErr.Message))
		h.ErrorWithCause(c, clientTitle(clientErr), clientErr.Message, clientErr.Cause)

	case errors.As(err, &maxBytesErr):
		h.log(c).Warn("Upload too large", zap.Int64("limit", maxBytesErr.Limit))
		h.Error(c, dto.ErrFileSizeExceeded, dto.FileSizeExceededMessage(h.MaxFileSize, h.MaxRequestSize))

	case errors.Is(err, resilience.ErrRateLimited):
		h.log(c).Warn("PDF generation rate limited")
		h.Error(c, dto.ErrTooManyRequests, resilience.ErrRateLimited.Error())

	case errors.Is(err, resilience.ErrCircuitOpen):
		h.log(c).Warn("PDF renderer unavailable", zap.Error(err))
		h.Error(c, dto.ErrServiceUnavailable, "PDF renderer is temporarily unavailable, please retry later")

	case errors.As(err, &renderErr):
		h.log(c).Error("PDF generation failed", zap.String("kind", renderErr.Kind.String()), zap.Error(err))
		h.ErrorWithCause(c, dto.ErrPDFGenerationFailed, renderErr.Error(), renderErr.Err)

	default:
		h.log(c).Error("Unexpected error", zap.Error(err))
		h.ErrorWithCause(c, dto.ErrInternal, "An unexpected error occurred: "+err.Error(), err)
	}
}

func clientTitle(err *printing.ClientError) string {
	switch err.Title {
	case printing.TitleInvalidFile:
		return dto.ErrInvalidFile
	case printing.TitleInvalidRequest:
		return dto.ErrInvalidRequest
	default:
		return dto.ErrBadRequest
	}
}

// PanicResponder writes the 500 body for a recovered panic. It is passed to
// logger.Recovery.
func (h *BaseHandler) PanicResponder(c *gin.Context, recovered any) {
	body := dto.NewErrorBody(dto.ErrInternal, "An unexpected error occurred")
	if h.Debug {
		body = body.WithDebug(fmt.Sprint(recovered), callers(4))
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}

// NotFound answers unmatched routes with the standard error body
func (h *BaseHandler) NotFound(c *gin.Context) {
	h.Error(c, dto.ErrNotFound, fmt.Sprintf("No handler found for %s %s", c.Request.Method, c.Request.URL.Path))
}

// callers returns up to dto.MaxStackFrames frames as "function (file:line)",
// skipping the given number of frames.
func callers(skip int) []string {
	pcs := make([]uintptr, dto.MaxStackFrames)
	n := runtime.Callers(skip, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])

	out := make([]string, 0, n)
	for {
		frame, more := frames.Next()
		out = append(out, fmt.Sprintf("%s (%s:%d)", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return out
}

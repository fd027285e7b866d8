package dto

import (
	"fmt"
	"net/http"
	"time"

	"github.com/oqd/pdfservice/internal/infrastructure/config"
)

// Error titles, reported in the "error" field of an ErrorBody.
const (
	ErrBadRequest          = "Bad Request"
	ErrValidation          = "Validation Error"
	ErrInvalidFile         = "Invalid File"
	ErrInvalidRequest      = "Invalid Request"
	ErrFileSizeExceeded    = "File Size Exceeded"
	ErrUnauthorized        = "Unauthorized"
	ErrTooManyRequests     = "Too Many Requests"
	ErrPDFGenerationFailed = "PDF Generation Failed"
	ErrServiceUnavailable  = "Service Unavailable"
	ErrInternal            = "Internal Server Error"
	ErrNotFound            = "Not Found"
)

// ErrorTitleHTTPStatus maps error titles to HTTP status codes
var ErrorTitleHTTPStatus = map[string]int{
	ErrBadRequest:          http.StatusBadRequest,
	ErrValidation:          http.StatusBadRequest,
	ErrInvalidFile:         http.StatusBadRequest,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrFileSizeExceeded:    http.StatusRequestEntityTooLarge,
	ErrUnauthorized:        http.StatusUnauthorized,
	ErrNotFound:            http.StatusNotFound,
	ErrTooManyRequests:     http.StatusTooManyRequests,
	ErrPDFGenerationFailed: http.StatusInternalServerError,
	ErrServiceUnavailable:  http.StatusServiceUnavailable,
	ErrInternal:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error title.
// Unknown titles map to 500.
func GetHTTPStatus(title string) int {
	if status, ok := ErrorTitleHTTPStatus[title]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Timestamp  time.Time `json:"timestamp"`
	Status     int       `json:"status"`
	Error      string    `json:"error"`
	Message    string    `json:"message"`
	Errors     []string  `json:"errors,omitempty"`
	Details    string    `json:"details,omitempty"`
	StackTrace []string  `json:"stackTrace,omitempty"`
}

// NewErrorBody creates an error body whose status is derived from title.
func NewErrorBody(title, message string) ErrorBody {
	return ErrorBody{
		Timestamp: time.Now().UTC(),
		Status:    GetHTTPStatus(title),
		Error:     title,
		Message:   message,
	}
}

// WithErrors attaches per-field validation messages.
func (b ErrorBody) WithErrors(errs []string) ErrorBody {
	b.Errors = errs
	return b
}

// WithDebug attaches the cause and up to MaxStackFrames stack frames.
func (b ErrorBody) WithDebug(details string, stack []string) ErrorBody {
	b.Details = details
	if len(stack) > MaxStackFrames {
		stack = stack[:MaxStackFrames]
	}
	b.StackTrace = stack
	return b
}

// MaxStackFrames bounds the stack trace included in debug error bodies.
const MaxStackFrames = 10

// FileSizeExceededMessage is the 413 message for an oversized upload.
func FileSizeExceededMessage(maxFileSize, maxRequestSize int64) string {
	return fmt.Sprintf("File upload failed. Maximum file size: %s or Maximum total request size: %s exceeded",
		config.FormatSize(maxFileSize), config.FormatSize(maxRequestSize))
}

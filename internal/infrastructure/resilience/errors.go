// Package resilience wraps a PDF renderer with retry, rate limiting and
// circuit breaking. Each wrapper is itself an infra.PDFRenderer so they
// compose at the call site.
package resilience

import (
	"context"
	"errors"
	"fmt"

	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
)

var (
	// ErrRateLimited is returned when a render is not admitted in time.
	ErrRateLimited = errors.New("PDF generation rate limit exceeded, please retry later")
	// ErrCircuitOpen is returned while the breaker short circuits renders.
	ErrCircuitOpen = errors.New("PDF renderer circuit breaker is open")
)

// ExhaustedError is returned when every retry attempt failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("Failed to generate PDF from HTML after multiple attempts: %v", e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether a failed render may succeed on another attempt.
// Bad input, admission failures, open breakers and cancellation are final.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case infra.IsClientError(err):
		return false
	case errors.Is(err, ErrRateLimited), errors.Is(err, ErrCircuitOpen):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}

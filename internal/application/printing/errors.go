package printing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/oqd/pdfservice/internal/domain/shared"
)

// Error titles used in error responses
const (
	TitleBadRequest     = "Bad Request"
	TitleInvalidFile    = "Invalid File"
	TitleInvalidRequest = "Invalid Request"
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String formats the error as "field: message".
func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// ValidationError carries every field failure found in the input.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the failures formatted as "field: message".
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.String()
	}
	return msgs
}

// ClientError is a request problem reported back to the caller as-is.
type ClientError struct {
	Code    string
	Title   string
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// NewBadRequest creates a ClientError titled "Bad Request".
func NewBadRequest(message string) *ClientError {
	return &ClientError{Code: shared.CodeInvalidInput, Title: TitleBadRequest, Message: message}
}

// NewInvalidFile creates a ClientError for a rejected upload.
func NewInvalidFile(message string) *ClientError {
	return &ClientError{Code: shared.CodeInvalidFile, Title: TitleInvalidFile, Message: message}
}

// NewInvalidRequest creates a ClientError for unreadable request content.
func NewInvalidRequest(message string, cause error) *ClientError {
	return &ClientError{Code: shared.CodeInvalidInput, Title: TitleInvalidRequest, Message: message, Cause: cause}
}

// RenderFailedError reports a render that produced no PDF.
type RenderFailedError struct {
	Kind RequestKind
	Err  error
}

func (e *RenderFailedError) Error() string {
	if e.Kind == KindChecklist {
		return fmt.Sprintf("Failed to generate PDF: %v", e.Err)
	}
	return fmt.Sprintf("Failed to generate Job Ticket PDF: %v", e.Err)
}

func (e *RenderFailedError) Unwrap() error {
	return e.Err
}

// ErrUnknownKind is returned for a RenderRequest with an unknown kind.
var ErrUnknownKind = errors.New("unknown render kind")

package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Domain error codes
const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeInvalidMargins = "INVALID_MARGINS"
	CodeRequired       = "REQUIRED"
	CodeInvalidFile    = "INVALID_FILE"
	CodeTooManyFiles   = "TOO_MANY_FILES"
)

// Common domain errors
var (
	ErrInvalidInput = NewDomainError(CodeInvalidInput, "Invalid input provided")
)

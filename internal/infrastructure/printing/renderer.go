package printing

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/oqd/pdfservice/internal/domain/printing"
)

// pdfMagic is the header every PDF document starts with.
var pdfMagic = []byte("%PDF")

// RenderRequest contains the parameters for rendering HTML to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// PaperSize defines the output paper dimensions
	PaperSize printing.PaperSize
	// Orientation defines portrait or landscape
	Orientation printing.Orientation
	// Margins in millimeters
	Margins printing.Margins
	// Title for the PDF document metadata
	Title string
	// Header HTML content (optional)
	HeaderHTML string
	// Footer HTML content (optional)
	FooterHTML string
	// PageNumbers adds a "Page x of y" footer when FooterHTML is empty
	PageNumbers bool
	// EnableLocalFileAccess allows loading local images (use with caution)
	EnableLocalFileAccess bool
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// PageCount is the number of pages in the PDF
	PageCount int
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// IsClientError reports whether the error was caused by the request itself.
// Such errors fail the same way on every attempt.
func (e *RenderError) IsClientError() bool {
	switch e.Code {
	case ErrCodeInvalidHTML, ErrCodeInvalidPaperSize, ErrCodeTemplateFailed:
		return true
	}
	return false
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeBinaryNotFound   = "BINARY_NOT_FOUND"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeTemplateFailed   = "TEMPLATE_FAILED"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsClientError reports whether err (or anything it wraps) is a RenderError
// caused by invalid input.
func IsClientError(err error) bool {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.IsClientError()
	}
	return false
}

// validatePDF checks that the rasterizer produced a complete PDF document.
func validatePDF(data []byte) error {
	if len(data) == 0 {
		return NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return NewRenderError(ErrCodeRenderFailed, "generated output is not a PDF document", nil)
	}
	return nil
}

// validateRequest checks the parts of a request every renderer relies on.
func validateRequest(req *RenderRequest) error {
	if req == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if len(bytes.TrimSpace([]byte(req.HTML))) == 0 {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

// estimatePageCount estimates the page count from PDF data
// This is a simple heuristic that counts "/Type /Page" occurrences
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page"))
	// "/Type /Pages" also matches "/Type /Page"
	parentCount := bytes.Count(pdfData, []byte("/Type /Pages"))
	count = count - parentCount
	return max(count, 1)
}

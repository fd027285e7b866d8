package printing

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"reflect"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/oqd/pdfservice/internal/domain/jobticket"
)

// DefaultMaxFiles bounds an upload, counting the JSON part.
const DefaultMaxFiles = 25

// AllowedImageTypes are the accepted upload media types, in message order.
var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/svg+xml"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// requiredMessages maps a field to its "required" message.
var requiredMessages = map[string]string{
	"title":       "Title is required",
	"description": "Description is required",
}

// ValidateChecklistItem returns every problem with item. An empty result
// means the item is valid.
func ValidateChecklistItem(item jobticket.ChecklistItem) []FieldError {
	err := validate.Struct(item)
	if err == nil {
		return nil
	}

	var fieldErrors []FieldError
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fieldErrors = append(fieldErrors, FieldError{
				Field:   e.Field(),
				Message: fieldMessage(e),
			})
		}
	}
	return fieldErrors
}

func fieldMessage(e validator.FieldError) string {
	if msg, ok := requiredMessages[e.Field()]; ok && e.Tag() == "notblank" {
		return msg
	}
	return "Invalid value"
}

// ValidateChecklist validates a checklist request body. A nil slice means
// no body was sent.
func ValidateChecklist(items []jobticket.ChecklistItem) error {
	if items == nil {
		return NewBadRequest("Request body is required")
	}
	if len(items) == 0 {
		return NewBadRequest("At least one checklist item is required")
	}

	var all []FieldError
	for _, item := range items {
		all = append(all, ValidateChecklistItem(item)...)
	}
	if len(all) > 0 {
		return &ValidationError{Errors: all}
	}
	return nil
}

// ValidateFileCount fails when count exceeds max.
func ValidateFileCount(count, max int) error {
	if count > max {
		return NewBadRequest(fmt.Sprintf("Maximum %d files are allowed per request (including the JSON file)", max))
	}
	return nil
}

// undeclaredType names a missing content type in validation messages
const undeclaredType = "none"

// FileTypeValidator checks uploaded images by declared type and content.
// It is safe for concurrent use.
type FileTypeValidator struct {
	allowed []string
}

// NewFileTypeValidator creates a validator for allowed media types.
// With no arguments AllowedImageTypes is used.
func NewFileTypeValidator(allowed ...string) *FileTypeValidator {
	if len(allowed) == 0 {
		allowed = AllowedImageTypes
	}
	return &FileTypeValidator{allowed: slices.Clone(allowed)}
}

// Validate returns the first invalid file as a ClientError. Empty files are
// skipped.
func (v *FileTypeValidator) Validate(files []ImageFile) error {
	for _, f := range files {
		if f.IsEmpty() {
			continue
		}
		if err := v.validateFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (v *FileTypeValidator) validateFile(f ImageFile) error {
	mediaType := f.DeclaredType()
	if !slices.Contains(v.allowed, mediaType) {
		declared := mediaType
		if declared == "" {
			declared = undeclaredType
		}
		return NewInvalidFile(fmt.Sprintf("Invalid file type: %s. Allowed types are: %s",
			declared, strings.Join(v.allowed, ", ")))
	}

	// SVG is accepted on its declared type.
	if mediaType != "image/jpeg" && mediaType != "image/png" {
		return nil
	}

	if !strings.HasPrefix(mimetype.Detect(f.Data).String(), "image/") {
		return NewInvalidFile("Invalid image content or corrupted file: " + f.Filename)
	}
	if _, _, err := image.Decode(bytes.NewReader(f.Data)); err != nil {
		return NewInvalidFile("Invalid image content or corrupted file: " + f.Filename)
	}
	return nil
}

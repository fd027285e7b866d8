package printing

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/job_ticket.schema.json
var jobTicketSchema string

// SchemaValidator checks raw job ticket JSON against the embedded schema.
// Only the types of known fields are constrained; nothing is required.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles the embedded job ticket schema.
func NewSchemaValidator() (*SchemaValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(jobTicketSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile job ticket schema: %w", err)
	}
	return &SchemaValidator{schema: schema}, nil
}

// Validate returns a ValidationError listing every schema violation, or nil.
// Malformed JSON is reported as a ClientError.
func (v *SchemaValidator) Validate(raw []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return NewBadRequest("Invalid JSON payload: " + err.Error())
	}
	if result.Valid() {
		return nil
	}

	fieldErrors := make([]FieldError, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		fieldErrors = append(fieldErrors, FieldError{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return &ValidationError{Errors: fieldErrors}
}

package printing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)

	t.Run("minimal ticket", func(t *testing.T) {
		assert.NoError(t, v.Validate([]byte(`{"checklistId":"12345"}`)))
	})

	t.Run("empty object", func(t *testing.T) {
		assert.NoError(t, v.Validate([]byte(`{}`)))
	})

	t.Run("unknown fields are allowed", func(t *testing.T) {
		assert.NoError(t, v.Validate([]byte(`{"checklistId":"1","somethingElse":{"a":1}}`)))
	})

	t.Run("wrong type", func(t *testing.T) {
		err := v.Validate([]byte(`{"checklistId":42}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Errors, 1)
		assert.Equal(t, "checklistId", verr.Errors[0].Field)
	})

	t.Run("not an object", func(t *testing.T) {
		var verr *ValidationError
		assert.ErrorAs(t, v.Validate([]byte(`[1,2]`)), &verr)
	})

	t.Run("malformed json", func(t *testing.T) {
		err := v.Validate([]byte(`{"checklistId":`))
		var clientErr *ClientError
		require.ErrorAs(t, err, &clientErr)
		assert.Contains(t, clientErr.Message, "Invalid JSON payload")
	})
}

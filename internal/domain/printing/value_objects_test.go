package printing

import (
	"errors"
	"testing"

	"github.com/oqd/pdfservice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMargins(t *testing.T) {
	tests := []struct {
		name        string
		top         int
		right       int
		bottom      int
		left        int
		expectError bool
	}{
		{"valid margins", 10, 10, 10, 10, false},
		{"zero margins", 0, 0, 0, 0, false},
		{"max margins", 100, 100, 100, 100, false},
		{"mixed margins", 5, 10, 15, 20, false},
		{"negative top", -1, 10, 10, 10, true},
		{"negative left", 10, 10, 10, -1, true},
		{"exceeds max right", 10, 101, 10, 10, true},
		{"exceeds max bottom", 10, 10, 101, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			margins, err := NewMargins(tt.top, tt.right, tt.bottom, tt.left)

			if tt.expectError {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.True(t, errors.As(err, &domainErr))
				assert.Equal(t, shared.CodeInvalidMargins, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Margins{tt.top, tt.right, tt.bottom, tt.left}, margins)
		})
	}
}

func TestMarginsFromShorthand(t *testing.T) {
	tests := []struct {
		name     string
		values   []int
		expected Margins
		wantErr  bool
	}{
		{"one value", []int{12}, Margins{12, 12, 12, 12}, false},
		{"two values", []int{10, 20}, Margins{10, 20, 10, 20}, false},
		{"three values", []int{5, 10, 15}, Margins{5, 10, 15, 10}, false},
		{"four values", []int{1, 2, 3, 4}, Margins{1, 2, 3, 4}, false},
		{"no values", nil, Margins{}, true},
		{"five values", []int{1, 2, 3, 4, 5}, Margins{}, true},
		{"out of range", []int{150}, Margins{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MarginsFromShorthand(tt.values)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestMargins_Helpers(t *testing.T) {
	assert.Equal(t, Margins{10, 10, 10, 10}, DefaultMargins())
	assert.True(t, Margins{}.IsZero())
	assert.False(t, DefaultMargins().IsZero())
	assert.True(t, DefaultMargins().Equals(Margins{10, 10, 10, 10}))
	assert.False(t, DefaultMargins().Equals(Margins{10, 10, 10, 11}))
}

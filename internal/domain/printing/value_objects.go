package printing

import "github.com/oqd/pdfservice/internal/domain/shared"

// MaxMarginMM is the largest margin accepted on any side.
const MaxMarginMM = 100

// Margins represents the page margins in millimeters
type Margins struct {
	Top    int `json:"top"`    // Top margin in mm
	Right  int `json:"right"`  // Right margin in mm
	Bottom int `json:"bottom"` // Bottom margin in mm
	Left   int `json:"left"`   // Left margin in mm
}

// NewMargins creates a new Margins value object
func NewMargins(top, right, bottom, left int) (Margins, error) {
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return Margins{}, shared.NewDomainError(shared.CodeInvalidMargins, "Margins cannot be negative")
	}
	if top > MaxMarginMM || right > MaxMarginMM || bottom > MaxMarginMM || left > MaxMarginMM {
		return Margins{}, shared.NewDomainError(shared.CodeInvalidMargins, "Margins cannot exceed 100mm")
	}
	return Margins{
		Top:    top,
		Right:  right,
		Bottom: bottom,
		Left:   left,
	}, nil
}

// MarginsFromShorthand builds margins from 1 to 4 values using the CSS
// shorthand order (top, right, bottom, left).
func MarginsFromShorthand(values []int) (Margins, error) {
	switch len(values) {
	case 1:
		return NewMargins(values[0], values[0], values[0], values[0])
	case 2:
		return NewMargins(values[0], values[1], values[0], values[1])
	case 3:
		return NewMargins(values[0], values[1], values[2], values[1])
	case 4:
		return NewMargins(values[0], values[1], values[2], values[3])
	default:
		return Margins{}, shared.NewDomainError(shared.CodeInvalidMargins, "Margins need between 1 and 4 values")
	}
}

// DefaultMargins returns the default page margins
func DefaultMargins() Margins {
	return Margins{
		Top:    10,
		Right:  10,
		Bottom: 10,
		Left:   10,
	}
}

// IsZero returns true if all margins are zero
func (m Margins) IsZero() bool {
	return m.Top == 0 && m.Right == 0 && m.Bottom == 0 && m.Left == 0
}

// Equals checks if two Margins are equal
func (m Margins) Equals(other Margins) bool {
	return m == other
}

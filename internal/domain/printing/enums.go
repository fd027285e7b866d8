package printing

import "strings"

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA3     PaperSize = "A3"     // 297mm x 420mm
	PaperSizeA4     PaperSize = "A4"     // 210mm x 297mm
	PaperSizeA5     PaperSize = "A5"     // 148mm x 210mm
	PaperSizeLetter PaperSize = "LETTER" // 216mm x 279mm
	PaperSizeLegal  PaperSize = "LEGAL"  // 216mm x 356mm
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA3, PaperSizeA4, PaperSizeA5, PaperSizeLetter, PaperSizeLegal:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
// in portrait orientation.
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA3:
		return 297, 420
	case PaperSizeA5:
		return 148, 210
	case PaperSizeLetter:
		return 216, 279
	case PaperSizeLegal:
		return 216, 356
	default:
		return 210, 297
	}
}

// ParsePaperSize converts a page size name as sent by clients ("a4",
// "Letter") into a PaperSize. Unknown or empty names fall back to A4.
func ParsePaperSize(s string) PaperSize {
	p := PaperSize(strings.ToUpper(strings.TrimSpace(s)))
	if p.IsValid() {
		return p
	}
	return PaperSizeA4
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{PaperSizeA3, PaperSizeA4, PaperSizeA5, PaperSizeLetter, PaperSizeLegal}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}

// ParseOrientation converts "portrait"/"landscape" in any case. Anything
// else is portrait.
func ParseOrientation(s string) Orientation {
	if strings.EqualFold(strings.TrimSpace(s), string(OrientationLandscape)) {
		return OrientationLandscape
	}
	return OrientationPortrait
}

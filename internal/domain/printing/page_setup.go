package printing

import "github.com/oqd/pdfservice/internal/domain/jobticket"

// PageSetup is the resolved layout used for one render.
type PageSetup struct {
	PaperSize          PaperSize   `json:"paperSize"`
	Orientation        Orientation `json:"orientation"`
	Margins            Margins     `json:"margins"`
	NewPageOnSection   bool        `json:"newPageOnSection"`
	IncludeHeader      bool        `json:"includeHeader"`
	IncludeFooter      bool        `json:"includeFooter"`
	IncludePageNumbers bool        `json:"includePageNumbers"`
}

// DefaultPageSetup is A4 portrait with default margins.
func DefaultPageSetup() PageSetup {
	return PageSetup{
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
	}
}

// PageSetupFromOptions resolves the options a checklist author attached to
// a ticket. Invalid margins fall back to the defaults rather than failing
// the render.
func PageSetupFromOptions(opts *jobticket.PdfOptions) PageSetup {
	setup := DefaultPageSetup()
	if opts == nil {
		return setup
	}

	setup.PaperSize = ParsePaperSize(opts.PageSize)
	setup.Orientation = ParseOrientation(opts.Orientation)
	setup.NewPageOnSection = opts.NewPageOnSection
	setup.IncludeHeader = opts.IncludeHeader
	setup.IncludeFooter = opts.IncludeFooter
	setup.IncludePageNumbers = opts.IncludePageNumbers

	if len(opts.PageMargins) > 0 {
		if m, err := MarginsFromShorthand(opts.PageMargins); err == nil {
			setup.Margins = m
		}
	}
	return setup
}

// Landscape reports whether the page is printed in landscape.
func (p PageSetup) Landscape() bool {
	return p.Orientation == OrientationLandscape
}

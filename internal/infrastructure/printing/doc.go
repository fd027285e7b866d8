// Package printing provides the rendering collaborators of the PDF service:
// the html/template engine and its template store, the HTML to PDF
// renderers (headless Chrome through chromedp, or the wkhtmltopdf binary)
// and the archive that keeps copies of generated reports.
//
// Example usage:
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer renderer.Close()
//
//	result, err := renderer.Render(ctx, &RenderRequest{
//	    HTML:        html,
//	    PaperSize:   printing.PaperSizeA4,
//	    Orientation: printing.OrientationPortrait,
//	    Margins:     printing.DefaultMargins(),
//	})
package printing

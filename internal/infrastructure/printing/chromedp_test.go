package printing

import (
	"testing"

	"github.com/oqd/pdfservice/internal/domain/printing"
	"github.com/stretchr/testify/assert"
)

func newTestChromedpRenderer(cfg *ChromedpConfig) *ChromedpRenderer {
	if cfg.Scale == 0 {
		cfg.Scale = 1.0
	}
	return &ChromedpRenderer{config: cfg}
}

func TestBuildPrintParams_PaperSizes(t *testing.T) {
	tests := []struct {
		paperSize printing.PaperSize
		widthMM   float64
		heightMM  float64
	}{
		{printing.PaperSizeA3, 297, 420},
		{printing.PaperSizeA4, 210, 297},
		{printing.PaperSizeA5, 148, 210},
		{printing.PaperSizeLetter, 216, 279},
		{printing.PaperSizeLegal, 216, 356},
	}

	r := newTestChromedpRenderer(&ChromedpConfig{})
	for _, tt := range tests {
		t.Run(tt.paperSize.String(), func(t *testing.T) {
			params := r.buildPrintParams(&RenderRequest{
				HTML:        "<html>test</html>",
				PaperSize:   tt.paperSize,
				Orientation: printing.OrientationPortrait,
				Margins:     printing.DefaultMargins(),
			})

			assert.InDelta(t, mmToInches(tt.widthMM), params.paperWidth, 0.01)
			assert.InDelta(t, mmToInches(tt.heightMM), params.paperHeight, 0.01)
			assert.False(t, params.landscape)
			assert.True(t, params.printBackground)
			assert.False(t, params.displayHeaderFooter)
		})
	}
}

func TestBuildPrintParams_Landscape(t *testing.T) {
	r := newTestChromedpRenderer(&ChromedpConfig{SkipBackground: true})

	params := r.buildPrintParams(&RenderRequest{
		PaperSize:   printing.PaperSizeA4,
		Orientation: printing.OrientationLandscape,
	})

	assert.True(t, params.landscape)
	assert.False(t, params.printBackground)
}

func TestBuildPrintParams_WithMargins(t *testing.T) {
	r := newTestChromedpRenderer(&ChromedpConfig{})

	margins, _ := printing.NewMargins(10, 15, 20, 25)
	params := r.buildPrintParams(&RenderRequest{
		PaperSize: printing.PaperSizeA4,
		Margins:   margins,
	})

	assert.InDelta(t, mmToInches(10), params.marginTop, 0.001)
	assert.InDelta(t, mmToInches(15), params.marginRight, 0.001)
	assert.InDelta(t, mmToInches(20), params.marginBottom, 0.001)
	assert.InDelta(t, mmToInches(25), params.marginLeft, 0.001)
}

func TestBuildPrintParams_WithFooterOnly(t *testing.T) {
	r := newTestChromedpRenderer(&ChromedpConfig{})

	params := r.buildPrintParams(&RenderRequest{
		PaperSize:  printing.PaperSizeA4,
		Margins:    printing.Margins{Top: 2, Right: 2, Bottom: 2, Left: 2},
		FooterHTML: `<div><span class="pageNumber"></span></div>`,
	})

	assert.True(t, params.displayHeaderFooter)
	assert.Equal(t, "<span></span>", params.headerTemplate)
	assert.Contains(t, params.footerTemplate, "pageNumber")
	assert.InDelta(t, mmToInches(2), params.marginTop, 0.001)
	assert.InDelta(t, mmToInches(10), params.marginBottom, 0.001)
}

func TestBuildPrintParams_PageNumbers(t *testing.T) {
	r := newTestChromedpRenderer(&ChromedpConfig{})

	params := r.buildPrintParams(&RenderRequest{
		PaperSize:   printing.PaperSizeA4,
		Margins:     printing.DefaultMargins(),
		PageNumbers: true,
	})

	assert.True(t, params.displayHeaderFooter)
	assert.Contains(t, params.footerTemplate, "totalPages")
}

func TestBuildCompleteHTML(t *testing.T) {
	r := newTestChromedpRenderer(&ChromedpConfig{})

	t.Run("full document is kept", func(t *testing.T) {
		doc := "<!DOCTYPE html><html><head></head><body>test</body></html>"
		assert.Equal(t, doc, r.buildCompleteHTML(&RenderRequest{HTML: doc}))
	})

	t.Run("html tag without doctype is kept", func(t *testing.T) {
		doc := "<html><body>test</body></html>"
		assert.Equal(t, doc, r.buildCompleteHTML(&RenderRequest{HTML: doc}))
	})

	t.Run("fragment is wrapped", func(t *testing.T) {
		result := r.buildCompleteHTML(&RenderRequest{
			HTML:  "<div>Hello World</div>",
			Title: "Job <Ticket>",
		})

		assert.Contains(t, result, "<!DOCTYPE html>")
		assert.Contains(t, result, "<meta charset=\"UTF-8\">")
		assert.Contains(t, result, "<title>Job &lt;Ticket&gt;</title>")
		assert.Contains(t, result, "<body><div>Hello World</div></body></html>")
	})
}

func TestMmToInches(t *testing.T) {
	tests := []struct {
		mm       float64
		expected float64
	}{
		{0, 0},
		{25.4, 1.0},
		{210, 8.2677},
		{297, 11.6929},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, mmToInches(tt.mm), 0.001)
	}
}

func TestChromedpRenderer_Close(t *testing.T) {
	r := &ChromedpRenderer{config: &ChromedpConfig{}}
	assert.NoError(t, r.Close())
}

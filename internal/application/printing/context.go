package printing

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/oqd/pdfservice/internal/domain/jobticket"
	domain "github.com/oqd/pdfservice/internal/domain/printing"
	"golang.org/x/crypto/blake2b"
)

// Template data keys
const (
	dataItems     = "items"
	dataJobTicket = "jobTicket"
	dataWorkOrder = "workOrder"
	dataImages    = "images"
	dataLogoURL   = "logoUrl"
	dataPage      = "page"
)

// renderContext is the data handed to a report template.
type renderContext map[string]any

func newRenderContext(logoURL string, page domain.PageSetup) renderContext {
	return renderContext{
		dataLogoURL: logoURL,
		dataPage:    page,
	}
}

func (c renderContext) withItems(items []jobticket.ChecklistItem) renderContext {
	c[dataItems] = items
	return c
}

func (c renderContext) withTicket(ticket *jobticket.JobTicket) renderContext {
	c[dataJobTicket] = ticket
	return c
}

func (c renderContext) withWorkOrder(wo *jobticket.WorkOrder) renderContext {
	if wo != nil {
		c[dataWorkOrder] = wo
	}
	return c
}

func (c renderContext) withImages(images []string) renderContext {
	c[dataImages] = images
	return c
}

// CacheKey derives the HTML cache key for a template and its data:
// template::<name>::<blake2b-256 of the JSON encoded data>.
func CacheKey(templateName string, data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key data: %w", err)
	}
	sum := blake2b.Sum256(raw)
	return "template::" + templateName + "::" + hex.EncodeToString(sum[:]), nil
}

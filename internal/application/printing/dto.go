package printing

import (
	"time"

	"github.com/oqd/pdfservice/internal/domain/jobticket"
)

// RenderRequest is the input of a single render.
type RenderRequest struct {
	Kind RequestKind
	// Items is set for KindChecklist
	Items []jobticket.ChecklistItem
	// Ticket is set for the job ticket kinds
	Ticket *jobticket.JobTicket
	// Images are embedded by KindJobTicketWithImages
	Images []ImageFile
	// ShortWorkPeriod is the raw work order export for KindJobTicketShortWorkPeriod
	ShortWorkPeriod []byte
}

// RenderOutput is the result of a successful render.
type RenderOutput struct {
	PDF        []byte
	Filename   string
	PageCount  int
	ImageCount int
	// WorkOrder is the matched work order, if any
	WorkOrder *jobticket.WorkOrder
	// ArchiveURL is set when the PDF was archived
	ArchiveURL string
	CacheHit   bool
	Duration   time.Duration
}

// ChecklistID returns the checklist id of the rendered ticket, or "".
func (r *RenderRequest) ChecklistID() string {
	if r == nil || r.Ticket == nil {
		return ""
	}
	return r.Ticket.ChecklistID
}

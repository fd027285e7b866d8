package printing

import infra "github.com/oqd/pdfservice/internal/infrastructure/printing"

// RequestKind identifies which report a render produces.
type RequestKind string

const (
	KindChecklist                RequestKind = "checklist"
	KindJobTicket                RequestKind = "job-ticket"
	KindJobTicketWithImages      RequestKind = "job-ticket-with-images"
	KindJobTicketShortWorkPeriod RequestKind = "job-ticket-short-work-period"
)

// HTML cache regions
const (
	CacheRegionChecklist = "checklistTemplates"
	CacheRegionJobTicket = "jobTicketTemplates"
)

type kindSpec struct {
	template string
	filename string
	region   string // empty: HTML is not cached
}

var kindSpecs = map[RequestKind]kindSpec{
	KindChecklist:                {infra.TemplateChecklist, "checklist.pdf", CacheRegionChecklist},
	KindJobTicket:                {infra.TemplateJobTicket, "job-ticket.pdf", CacheRegionJobTicket},
	KindJobTicketWithImages:      {infra.TemplateJobTicketWithImages, "job-ticket.pdf", ""},
	KindJobTicketShortWorkPeriod: {infra.TemplateJobTicketShortWorkPeriod, "job-ticket-with-work-order.pdf", CacheRegionJobTicket},
}

// IsValid reports whether k is a known kind
func (k RequestKind) IsValid() bool {
	_, ok := kindSpecs[k]
	return ok
}

// String returns the string representation
func (k RequestKind) String() string {
	return string(k)
}

// Template returns the template rendered for k
func (k RequestKind) Template() string {
	return kindSpecs[k].template
}

// Filename returns the download filename for k
func (k RequestKind) Filename() string {
	return kindSpecs[k].filename
}

// CacheRegion returns the HTML cache region for k, or "" when not cached.
// Image payloads are not cached.
func (k RequestKind) CacheRegion() string {
	return kindSpecs[k].region
}

// IsJobTicket reports whether k renders a job ticket
func (k RequestKind) IsJobTicket() bool {
	return k.IsValid() && k != KindChecklist
}

// AllKinds returns every request kind
func AllKinds() []RequestKind {
	return []RequestKind{
		KindChecklist,
		KindJobTicket,
		KindJobTicketWithImages,
		KindJobTicketShortWorkPeriod,
	}
}

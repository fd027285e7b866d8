package dto

// StatusSuccess is the status of every successful JSON render response.
const StatusSuccess = "success"

// ChecklistPDFResponse is the JSON form of POST /api/pdf/render.
type ChecklistPDFResponse struct {
	Status     string `json:"status"`
	PdfBase64  string `json:"pdfBase64"`
	ArchiveURL string `json:"archiveUrl,omitempty"`
}

// JobTicketPDFResponse is the JSON form of POST /api/pdf/render-job-ticket.
type JobTicketPDFResponse struct {
	Status      string `json:"status"`
	Filename    string `json:"filename"`
	PdfBase64   string `json:"pdfBase64"`
	ChecklistID string `json:"checklistId"`
	ArchiveURL  string `json:"archiveUrl,omitempty"`
}

// JobTicketWithImagesPDFResponse is the JSON form of
// POST /api/pdf/render-job-ticket-with-images.
type JobTicketWithImagesPDFResponse struct {
	Status      string `json:"status"`
	ImageCount  int    `json:"imageCount"`
	PdfBase64   string `json:"pdfBase64"`
	Filename    string `json:"filename"`
	ChecklistID string `json:"checklistId"`
	ArchiveURL  string `json:"archiveUrl,omitempty"`
}

// ShortWorkPeriodPDFResponse is the JSON form of
// POST /api/pdf/render-job-ticket-short-work-period. Wonum is set only when
// a work order matched.
type ShortWorkPeriodPDFResponse struct {
	Status           string `json:"status"`
	Filename         string `json:"filename"`
	PdfBase64        string `json:"pdfBase64"`
	ChecklistID      string `json:"checklistId"`
	WorkOrderMatched bool   `json:"workOrderMatched"`
	Wonum            string `json:"wonum,omitempty"`
	ArchiveURL       string `json:"archiveUrl,omitempty"`
}

// HealthResponse is returned by the health endpoints.
type HealthResponse struct {
	Status     string            `json:"status"`
	Service    string            `json:"service,omitempty"`
	Time       string            `json:"time"`
	Components map[string]string `json:"components,omitempty"`
}

// TemplateListResponse lists the available report templates.
type TemplateListResponse struct {
	Templates []string `json:"templates"`
}

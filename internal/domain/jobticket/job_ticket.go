package jobticket

import "encoding/json"

// JobTicket is a filled-in checklist submitted for rendering.
type JobTicket struct {
	ID          string         `json:"id,omitempty"`
	ChecklistID string         `json:"checklistId,omitempty"`
	UserID      string         `json:"userId,omitempty"`
	CreatedAt   Timestamp      `json:"createdAt"`
	User        *User          `json:"user,omitempty"`
	Answers     *Answers       `json:"answers,omitempty"`
	FlatAnswers map[string]any `json:"flatAnswers,omitempty"`
	Context     *Context       `json:"context,omitempty"`
	ContractID  string         `json:"contractId,omitempty"`
	Contract    *Contract      `json:"contract,omitempty"`
}

// UnmarshalJSON decodes the ticket and keeps ContractID in step with the
// embedded contract.
func (t *JobTicket) UnmarshalJSON(data []byte) error {
	type plain JobTicket
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*t = JobTicket(decoded)
	t.syncContractID()
	return nil
}

// SetContract attaches a contract. A contract with an id overrides ContractID.
func (t *JobTicket) SetContract(c *Contract) {
	t.Contract = c
	t.syncContractID()
}

func (t *JobTicket) syncContractID() {
	if t.Contract != nil && t.Contract.ID != "" {
		t.ContractID = t.Contract.ID
	}
}

// WorkOrderNumber returns the work order number recorded in the ticket
// metadata (answers.metadata.additional.workOrder.workOrderNum), or "".
func (t *JobTicket) WorkOrderNumber() string {
	if t == nil || t.Answers == nil || t.Answers.Metadata == nil {
		return ""
	}
	additional := t.Answers.Metadata.Additional
	if additional == nil || additional.WorkOrder == nil {
		return ""
	}
	return additional.WorkOrder.WorkOrderNum
}

// PdfOptions returns the page options attached to the answers, if any.
func (t *JobTicket) PdfOptions() *PdfOptions {
	if t == nil || t.Answers == nil {
		return nil
	}
	return t.Answers.PdfOptions
}

// User identifies who filled in the checklist.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
}

// Context describes where and for what the checklist was executed.
type Context struct {
	StartedAt         Timestamp `json:"startedAt"`
	Language          string    `json:"language,omitempty"`
	SourceWorkOrderID string    `json:"sourceWorkOrderId,omitempty"`
	Asset             *Asset    `json:"asset,omitempty"`
	Location          string    `json:"location,omitempty"`
	UserID            string    `json:"userId,omitempty"`
	WorkOrderType     string    `json:"workOrderType,omitempty"`
}

// Asset is the equipment the checklist was executed on.
type Asset struct {
	ID           string `json:"id,omitempty"`
	PartNumber   string `json:"partNumber,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	AssetNumber  string `json:"assetNumber,omitempty"`
	Designation  string `json:"designation,omitempty"`
	Type         string `json:"type,omitempty"`
	Status       string `json:"status,omitempty"`
	Model        string `json:"model,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Location     string `json:"location,omitempty"`
}

// Contract is the maintenance contract a ticket was produced under.
type Contract struct {
	ID          string              `json:"id,omitempty"`
	Name        string              `json:"name,omitempty"`
	Description string              `json:"description,omitempty"`
	Status      string              `json:"status,omitempty"`
	StartDate   Timestamp           `json:"startDate"`
	EndDate     Timestamp           `json:"endDate"`
	Signatures  []SignatureResponse `json:"signatures,omitempty"`
	Template    *Template           `json:"template,omitempty"`
	PdfOptions  *PdfOptions         `json:"pdfOptions,omitempty"`
	Metadata    *Metadata           `json:"metadata,omitempty"`
}

// SignatureResponse is one signature collected on a contract.
type SignatureResponse struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name,omitempty"`
	Role             string    `json:"role,omitempty"`
	File             string    `json:"file,omitempty"`
	Email            string    `json:"email,omitempty"`
	Status           string    `json:"status,omitempty"`
	SignedAt         Timestamp `json:"signedAt"`
	IPAddress        string    `json:"ipAddress,omitempty"`
	SignatureType    string    `json:"signatureType,omitempty"`
	SignatureImage   string    `json:"signatureImage,omitempty"`
	VerificationCode string    `json:"verificationCode,omitempty"`
}

// Template references an external report template. Its content is opaque.
type Template struct {
	Carboneio any `json:"carboneio"`
}

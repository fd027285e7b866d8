package jobticket

// Answers is the answered checklist: ordered sections of questions plus
// rendering options and enrichment metadata.
type Answers struct {
	ID              string      `json:"_id,omitempty"`
	Title           string      `json:"title,omitempty"`
	Description     string      `json:"description,omitempty"`
	CreatedAt       Timestamp   `json:"createdAt"`
	UpdatedAt       Timestamp   `json:"updatedAt"`
	KnowledgeBaseID string      `json:"knowledgeBaseId,omitempty"`
	Header          string      `json:"header,omitempty"`
	Cover           string      `json:"cover,omitempty"`
	Footer          string      `json:"footer,omitempty"`
	PdfOptions      *PdfOptions `json:"pdfOptions,omitempty"`
	Template        *Template   `json:"template,omitempty"`
	IsFinish        bool        `json:"isFinish"`
	Sections        []Section   `json:"sections,omitempty"`
	Metadata        *Metadata   `json:"metadata,omitempty"`
}

// Section groups questions. Questions render in slice order.
type Section struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions,omitempty"`
}

// Question is a single checklist entry and its response. Response is kept
// as decoded JSON since its shape depends on Type.
type Question struct {
	UUID               string         `json:"uuid,omitempty"`
	ID                 *int           `json:"id,omitempty"`
	Type               string         `json:"type,omitempty"`
	Title              string         `json:"title,omitempty"`
	Mandatory          bool           `json:"mandatory"`
	Attachment         bool           `json:"attachment"`
	Comment            bool           `json:"comment"`
	HideInReport       bool           `json:"hideInReport"`
	Hint               string         `json:"hint,omitempty"`
	ResponseBelow      bool           `json:"responseBelow"`
	CommentContent     string         `json:"commentContent,omitempty"`
	Metadata           map[string]any `json:"metadata,omitempty"`
	Response           any            `json:"response,omitempty"`
	SignatureDate      Timestamp      `json:"signatureDate"`
	SignatureAuto      bool           `json:"signatureAuto"`
	Format             string         `json:"format,omitempty"`
	DefaultValue       string         `json:"defaultValue,omitempty"`
	Choices            []string       `json:"choices,omitempty"`
	MultipleAnswer     bool           `json:"multipleAnswer"`
	DocumentURLs       []string       `json:"documentUrls,omitempty"`
	AttachmentContents []string       `json:"attachmentContents,omitempty"`
}

// Visible reports whether the question should appear in the report.
func (q Question) Visible() bool {
	return !q.HideInReport
}

// PdfOptions are page settings requested by the checklist author.
type PdfOptions struct {
	NewPageOnSection   bool   `json:"newPageOnSection"`
	PageMargins        []int  `json:"pageMargins,omitempty"`
	Orientation        string `json:"orientation,omitempty"`
	PageSize           string `json:"pageSize,omitempty"`
	IncludeHeader      bool   `json:"includeHeader"`
	IncludeFooter      bool   `json:"includeFooter"`
	IncludePageNumbers bool   `json:"includePageNumbers"`
}

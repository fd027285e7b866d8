package jobticket

// ChecklistItem is an entry of the simple checklist report.
type ChecklistItem struct {
	Title       string `json:"title" validate:"notblank"`
	Completed   bool   `json:"completed"`
	Description string `json:"description" validate:"notblank"`
}

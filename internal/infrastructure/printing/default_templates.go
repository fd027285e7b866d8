package printing

import (
	"embed"
	"encoding/base64"
	"fmt"
	"sync"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets/logo.svg
var logoSVG []byte

// Template names understood by the template engine.
const (
	TemplateChecklist                = "checklist"
	TemplateJobTicket                = "jobTicket"
	TemplateJobTicketWithImages      = "jobTicketWithImages"
	TemplateJobTicketShortWorkPeriod = "jobTicketShortWorkPeriod"
)

// partialsPath holds the shared {{define}} blocks parsed with every template.
const partialsPath = "templates/_partials.html"

// DefaultTemplate represents a built-in report template
type DefaultTemplate struct {
	Name        string
	Description string
	FilePath    string // Path within embed.FS
}

// GetDefaultTemplates returns all built-in template configurations
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			Name:        TemplateChecklist,
			Description: "Simple checklist with title, description and completion status per item",
			FilePath:    "templates/checklist.html",
		},
		{
			Name:        TemplateJobTicket,
			Description: "Job ticket with ticket summary, answered sections and signatures",
			FilePath:    "templates/jobTicket.html",
		},
		{
			Name:        TemplateJobTicketWithImages,
			Description: "Job ticket followed by a gallery of uploaded photos",
			FilePath:    "templates/jobTicketWithImages.html",
		},
		{
			Name:        TemplateJobTicketShortWorkPeriod,
			Description: "Job ticket enriched with the matching work order of a short work period",
			FilePath:    "templates/jobTicketShortWorkPeriod.html",
		},
	}
}

// GetDefaultTemplate finds a built-in template configuration by name
func GetDefaultTemplate(name string) *DefaultTemplate {
	for _, t := range GetDefaultTemplates() {
		if t.Name == name {
			return &t
		}
	}
	return nil
}

// LoadTemplateContent loads the HTML content for a built-in template
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", filePath, err)
	}
	return string(content), nil
}

var (
	logoOnce    sync.Once
	logoDataURL string
)

// LogoDataURL returns the branding logo as a data URL. It is encoded once.
func LogoDataURL() string {
	logoOnce.Do(func() {
		logoDataURL = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(logoSVG)
	})
	return logoDataURL
}

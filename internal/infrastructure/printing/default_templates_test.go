package printing

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultTemplates(t *testing.T) {
	templates := GetDefaultTemplates()
	require.Len(t, templates, 4)

	names := make(map[string]bool)
	for _, tmpl := range templates {
		assert.False(t, names[tmpl.Name], "duplicate template name %s", tmpl.Name)
		names[tmpl.Name] = true
		assert.NotEmpty(t, tmpl.Description, "template %s has no description", tmpl.Name)
	}

	for _, name := range []string{
		TemplateChecklist,
		TemplateJobTicket,
		TemplateJobTicketWithImages,
		TemplateJobTicketShortWorkPeriod,
	} {
		assert.True(t, names[name], "missing template %s", name)
	}
}

func TestDefaultTemplates_FilesExist(t *testing.T) {
	for _, tmpl := range GetDefaultTemplates() {
		t.Run(tmpl.Name, func(t *testing.T) {
			content, err := LoadTemplateContent(tmpl.FilePath)
			require.NoError(t, err)
			assert.Contains(t, content, "<!DOCTYPE html>")
			assert.Contains(t, content, `{{template "styles"}}`)
		})
	}
}

func TestLoadTemplateContent(t *testing.T) {
	t.Run("partials", func(t *testing.T) {
		content, err := LoadTemplateContent(partialsPath)
		require.NoError(t, err)
		for _, block := range []string{"styles", "brand", "ticketSummary", "sections", "signatures"} {
			assert.Contains(t, content, `{{define "`+block+`"}}`)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadTemplateContent("templates/nonexistent.html")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read template file")
	})
}

func TestGetDefaultTemplate(t *testing.T) {
	tmpl := GetDefaultTemplate(TemplateJobTicket)
	require.NotNil(t, tmpl)
	assert.Equal(t, "templates/jobTicket.html", tmpl.FilePath)

	assert.Nil(t, GetDefaultTemplate("salesOrder"))
}

func TestLogoDataURL(t *testing.T) {
	url := LogoDataURL()
	require.True(t, strings.HasPrefix(url, "data:image/svg+xml;base64,"))

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, "data:image/svg+xml;base64,"))
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "<svg")

	assert.Equal(t, url, LogoDataURL())
}

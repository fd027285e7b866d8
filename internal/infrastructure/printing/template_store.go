package printing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// templateNamespace seeds the stable template IDs.
var templateNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// TemplateStore manages the report templates.
// It supports loading from an external directory (for customization)
// with fallback to embedded templates.
type TemplateStore struct {
	externalDir string
	templates   map[string]StaticTemplate
	partials    string
	version     uint64
	mu          sync.RWMutex
}

// StaticTemplate represents a report template with loaded content
type StaticTemplate struct {
	ID          string // Stable ID derived from the name
	Name        string
	Description string
	Content     string // Loaded HTML content
	External    bool   // Loaded from the external directory
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir is the directory to load templates from.
	// If empty or a file is missing there, embedded templates are used.
	ExternalDir string
}

// NewTemplateStore creates a new template store
func NewTemplateStore(config *TemplateStoreConfig) (*TemplateStore, error) {
	store := &TemplateStore{}

	if config != nil && config.ExternalDir != "" {
		store.externalDir = config.ExternalDir
	}

	if err := store.loadTemplates(); err != nil {
		return nil, err
	}

	return store, nil
}

// loadTemplates loads all templates from external dir or embedded
func (s *TemplateStore) loadTemplates() error {
	partials, _, err := s.loadTemplateContent(partialsPath)
	if err != nil {
		return fmt.Errorf("failed to load template partials: %w", err)
	}

	defaults := GetDefaultTemplates()
	templates := make(map[string]StaticTemplate, len(defaults))

	for _, dt := range defaults {
		content, external, err := s.loadTemplateContent(dt.FilePath)
		if err != nil {
			return fmt.Errorf("failed to load template %s: %w", dt.Name, err)
		}

		templates[dt.Name] = StaticTemplate{
			ID:          generateTemplateID(dt.Name),
			Name:        dt.Name,
			Description: dt.Description,
			Content:     content,
			External:    external,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = templates
	s.partials = partials
	s.version++

	return nil
}

// loadTemplateContent loads template content from external dir or embedded
func (s *TemplateStore) loadTemplateContent(embeddedPath string) (string, bool, error) {
	if s.externalDir != "" {
		// "templates/jobTicket.html" -> "<externalDir>/jobTicket.html"
		externalPath := filepath.Join(s.externalDir, filepath.Base(embeddedPath))

		if content, err := os.ReadFile(externalPath); err == nil {
			return string(content), true, nil
		}
	}

	content, err := LoadTemplateContent(embeddedPath)
	return content, false, err
}

// Get returns a template by name
func (s *TemplateStore) Get(name string) (*StaticTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[name]
	if !ok {
		return nil, false
	}
	return &t, true
}

// GetByID returns a template by its ID
func (s *TemplateStore) GetByID(id string) *StaticTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.ID == id {
			return &t
		}
	}
	return nil
}

// List returns all templates ordered by name
func (s *TemplateStore) List() []StaticTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]StaticTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// Partials returns the shared template blocks
func (s *TemplateStore) Partials() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.partials
}

// Version changes every time the templates are (re)loaded.
func (s *TemplateStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Reload reloads all templates from disk/embedded
func (s *TemplateStore) Reload() error {
	return s.loadTemplates()
}

// generateTemplateID generates a stable UUID v5 from the template name
func generateTemplateID(name string) string {
	return uuid.NewSHA1(templateNamespace, []byte("report-template:"+name)).String()
}

package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"maps"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oqd/pdfservice/internal/domain/jobticket"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateEngine renders the report templates of a TemplateStore with
// ticket data. It uses Go's html/template package with custom functions
// for formatting. Compiled templates are reused until the store reloads.
type TemplateEngine struct {
	store   *TemplateStore
	funcMap template.FuncMap

	mu       sync.Mutex
	compiled map[string]*template.Template
	version  uint64
}

// TemplateEngineOption configures the template engine
type TemplateEngineOption func(*TemplateEngine)

// WithFuncs adds or overrides template functions.
func WithFuncs(funcs template.FuncMap) TemplateEngineOption {
	return func(e *TemplateEngine) {
		maps.Copy(e.funcMap, funcs)
	}
}

// NewTemplateEngine creates a new template engine over store
func NewTemplateEngine(store *TemplateStore, opts ...TemplateEngineOption) *TemplateEngine {
	e := &TemplateEngine{
		store:    store,
		compiled: make(map[string]*template.Template),
	}

	e.funcMap = template.FuncMap{
		// Date formatting
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"formatTime":     formatTime,

		// Number formatting
		"formatDecimal": formatDecimal,

		// String utilities
		"truncate": truncate,
		"join":     strings.Join,
		"upper":    strings.ToUpper,
		"lower":    strings.ToLower,
		"title":    titleCase,
		"trim":     strings.TrimSpace,
		"replace":  strings.ReplaceAll,
		"contains": strings.Contains,

		// Arithmetic
		"inc": func(i int) int { return i + 1 },
		"add": add,
		"sub": sub,

		// Conditional
		"default":  defaultFunc,
		"ternary":  ternary,
		"coalesce": coalesce,
		"empty":    empty,
		"notEmpty": notEmpty,

		// Checklist answers
		"visibleQuestions": visibleQuestions,
		"responseText":     responseText,
		"isDataURL":        isDataURL,
		"yesNo":            yesNo,
		"statusText":       statusText,

		// Safe content
		"safeHTML": safeHTML,
		"safeURL":  safeURL,

		// Misc
		"dict": dict,
		"list": list,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// RenderHTML renders the named template with data.
func (e *TemplateEngine) RenderHTML(ctx context.Context, name string, data any) (string, error) {
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data)
}

// RenderString renders an ad-hoc template string with the provided data.
// Shared partials are available to it.
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", NewRenderError(ErrCodeTemplateFailed, "template content is empty", nil)
	}

	partials := ""
	if e.store != nil {
		partials = e.store.Partials()
	}
	tmpl, err := e.parse(name, partials, content)
	if err != nil {
		return "", err
	}
	return execute(tmpl, data)
}

// TemplateNames lists the templates the engine can render.
func (e *TemplateEngine) TemplateNames() []string {
	if e.store == nil {
		return nil
	}
	var names []string
	for _, t := range e.store.List() {
		names = append(names, t.Name)
	}
	return names
}

// GetFuncMap returns a copy of the template function map
func (e *TemplateEngine) GetFuncMap() template.FuncMap {
	funcMap := make(template.FuncMap, len(e.funcMap))
	maps.Copy(funcMap, e.funcMap)
	return funcMap
}

func (e *TemplateEngine) lookup(name string) (*template.Template, error) {
	if e.store == nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "no template store configured", nil)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if v := e.store.Version(); v != e.version {
		clear(e.compiled)
		e.version = v
	}
	if tmpl, ok := e.compiled[name]; ok {
		return tmpl, nil
	}

	source, ok := e.store.Get(name)
	if !ok {
		return nil, NewRenderError(ErrCodeTemplateFailed, "template not found: "+name, nil)
	}
	tmpl, err := e.parse(name, e.store.Partials(), source.Content)
	if err != nil {
		return nil, err
	}
	e.compiled[name] = tmpl
	return tmpl, nil
}

func (e *TemplateEngine) parse(name, partials, content string) (*template.Template, error) {
	tmpl := template.New(name).Funcs(e.funcMap)
	if partials != "" {
		if _, err := tmpl.New("partials").Parse(partials); err != nil {
			return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse template partials", err)
		}
	}
	if _, err := tmpl.Parse(content); err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse template "+name, err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template "+tmpl.Name(), err)
	}
	return buf.String(), nil
}

// =============================================================================
// Template Functions - Date Formatting
// =============================================================================

// formatDate formats a time value as date string
// Example: 2024-01-15T14:30:00Z -> "2024-01-15"
func formatDate(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatDateTime formats a time value as datetime string in UTC
// Example: 2024-01-15T14:30:00Z -> "2024-01-15 14:30 UTC"
func formatDateTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

// formatTime formats a time value as time string
func formatTime(v any) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("15:04:05")
}

// =============================================================================
// Template Functions - Numbers
// =============================================================================

// formatDecimal formats a number with fixed precision
func formatDecimal(v any, precision int) string {
	return toDecimal(v).StringFixed(int32(precision))
}

func add(a, b any) decimal.Decimal {
	return toDecimal(a).Add(toDecimal(b))
}

func sub(a, b any) decimal.Decimal {
	return toDecimal(a).Sub(toDecimal(b))
}

// =============================================================================
// Template Functions - Strings
// =============================================================================

// truncate truncates a string to max runes with optional suffix
func truncate(s string, max int, suffix ...string) string {
	suf := "..."
	if len(suffix) > 0 {
		suf = suffix[0]
	}
	runes := []rune(s)
	sufRunes := []rune(suf)
	if len(runes) <= max {
		return s
	}
	if max <= len(sufRunes) {
		return string(sufRunes[:max])
	}
	return string(runes[:max-len(sufRunes)]) + suf
}

// titleCase converts string to title case using proper Unicode handling
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// =============================================================================
// Template Functions - Conditional
// =============================================================================

func empty(v any) bool {
	if v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return val == ""
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	case int:
		return val == 0
	case float64:
		return val == 0
	case bool:
		return !val
	}
	return false
}

func notEmpty(v any) bool {
	return !empty(v)
}

func defaultFunc(val, def any) any {
	if empty(val) {
		return def
	}
	return val
}

func ternary(condition bool, trueVal, falseVal any) any {
	if condition {
		return trueVal
	}
	return falseVal
}

func coalesce(vals ...any) any {
	for _, v := range vals {
		if !empty(v) {
			return v
		}
	}
	return nil
}

// =============================================================================
// Template Functions - Checklist answers
// =============================================================================

// visibleQuestions drops questions hidden from the report, keeping order.
func visibleQuestions(questions []jobticket.Question) []jobticket.Question {
	result := make([]jobticket.Question, 0, len(questions))
	for _, q := range questions {
		if q.Visible() {
			result = append(result, q)
		}
	}
	return result
}

// responseText renders a decoded JSON response for display.
func responseText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return yesNo(val)
	case float64:
		return decimal.NewFromFloat(val).String()
	case int:
		return fmt.Sprintf("%d", val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := responseText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	case map[string]any:
		if inner, ok := val["value"]; ok {
			return responseText(inner)
		}
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+responseText(val[k]))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// isDataURL reports whether a response is an inline image (signatures, sketches).
func isDataURL(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, "data:image/")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// statusText converts work order status codes to display text
func statusText(status string) string {
	statusMap := map[string]string{
		"WAPPR":    "Waiting on Approval",
		"APPR":     "Approved",
		"WSCH":     "Waiting to be Scheduled",
		"WMATL":    "Waiting on Material",
		"INPRG":    "In Progress",
		"COMP":     "Completed",
		"CLOSE":    "Closed",
		"CAN":      "Cancelled",
		"HISTEDIT": "Edited in History",
	}
	if text, ok := statusMap[status]; ok {
		return text
	}
	return status
}

// =============================================================================
// Template Functions - Safe content
// =============================================================================
// SECURITY WARNING: these bypass html/template escaping. Only pass values
// the service produced itself (logo and image data URLs), never free text
// taken from a ticket.

func safeHTML(s string) template.HTML {
	return template.HTML(s)
}

func safeURL(s string) template.URL {
	return template.URL(s)
}

// =============================================================================
// Template Functions - Dict and List
// =============================================================================

// dict creates a map from key-value pairs
func dict(pairs ...any) map[string]any {
	result := make(map[string]any)
	for i := 0; i < len(pairs)-1; i += 2 {
		if key, ok := pairs[i].(string); ok {
			result[key] = pairs[i+1]
		}
	}
	return result
}

// list creates a slice from values
func list(vals ...any) []any {
	return vals
}

// =============================================================================
// Helper Functions
// =============================================================================

// toDecimal converts various types to decimal.Decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toTime converts various types to time.Time
func toTime(v any) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case jobticket.Timestamp:
		return val.Time
	case *jobticket.Timestamp:
		if val == nil {
			return time.Time{}
		}
		return val.Time
	case string:
		ts, err := jobticket.ParseTimestamp(val)
		if err != nil {
			return time.Time{}
		}
		return ts.Time
	default:
		return time.Time{}
	}
}

package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	domain "github.com/oqd/pdfservice/internal/domain/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/logger"
	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	checklistTitle = "Checklist"
	jobTicketTitle = "Job Ticket"
)

// RenderService turns checklist and job ticket payloads into PDFs.
type RenderService struct {
	html     HTMLRenderer
	pdf      infra.PDFRenderer
	cache    HTMLCache
	archive  infra.PDFStorage
	observer RenderObserver
	logo     func() string
	fills    singleflight.Group
	logger   *zap.Logger
}

// Option configures a RenderService
type Option func(*RenderService)

// WithHTMLCache caches rendered HTML for the cacheable kinds
func WithHTMLCache(cache HTMLCache) Option {
	return func(s *RenderService) {
		s.cache = cache
	}
}

// WithArchive stores every generated PDF. Archive failures are logged and do
// not fail the render.
func WithArchive(storage infra.PDFStorage) Option {
	return func(s *RenderService) {
		s.archive = storage
	}
}

// WithLogo overrides the logo data URL source
func WithLogo(logo func() string) Option {
	return func(s *RenderService) {
		s.logo = logo
	}
}

// WithObserver reports render and cache outcomes
func WithObserver(observer RenderObserver) Option {
	return func(s *RenderService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// NewRenderService creates a new RenderService
func NewRenderService(htmlRenderer HTMLRenderer, pdfRenderer infra.PDFRenderer, logger *zap.Logger, opts ...Option) *RenderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &RenderService{
		html:     htmlRenderer,
		pdf:      pdfRenderer,
		observer: nopObserver{},
		logo:     infra.LogoDataURL,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render produces the PDF for req.
func (s *RenderService) Render(ctx context.Context, req *RenderRequest) (*RenderOutput, error) {
	if req == nil || !req.Kind.IsValid() {
		return nil, ErrUnknownKind
	}
	ctx, span := telemetry.StartSpan(ctx, "pdf.render",
		telemetry.WithAttribute(telemetry.SpanAttrKind, req.Kind.String()),
		telemetry.WithAttribute(telemetry.SpanAttrChecklistID, req.ChecklistID()),
	)
	defer span.End()

	out, err := s.render(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrPageCount, out.PageCount,
		telemetry.SpanAttrImageCount, out.ImageCount,
		telemetry.SpanAttrSize, len(out.PDF),
		telemetry.SpanAttrCacheHit, out.CacheHit,
	)
	telemetry.SetOK(span)
	return out, nil
}

func (s *RenderService) render(ctx context.Context, req *RenderRequest) (*RenderOutput, error) {
	start := time.Now()
	kind := req.Kind.String()
	ctx, _ = logger.WithChecklistID(ctx, s.logger, req.ChecklistID())

	if err := s.validate(req); err != nil {
		s.observer.ObserveRender(kind, OutcomeInvalid, time.Since(start))
		return nil, err
	}

	page := domain.DefaultPageSetup()
	if req.Kind.IsJobTicket() {
		page = domain.PageSetupFromOptions(req.Ticket.PdfOptions())
	}

	data := newRenderContext(s.logo(), page)
	out := &RenderOutput{Filename: req.Kind.Filename()}

	switch req.Kind {
	case KindChecklist:
		data.withItems(req.Items)
	case KindJobTicket:
		data.withTicket(req.Ticket)
	case KindJobTicketWithImages:
		images := EncodeImages(req.Images)
		out.ImageCount = len(images)
		data.withTicket(req.Ticket).withImages(images)
	case KindJobTicketShortWorkPeriod:
		out.WorkOrder = s.MergeShortWorkPeriod(ctx, req.Ticket, req.ShortWorkPeriod)
		data.withTicket(req.Ticket).withWorkOrder(out.WorkOrder)
	}

	log := logger.WithLogger(ctx, s.logger).With(zap.String("kind", kind))

	content, hit, err := s.renderHTML(ctx, req.Kind, data)
	if err != nil {
		log.Error("template rendering failed", zap.Error(err))
		s.observer.ObserveRender(kind, OutcomeTemplateError, time.Since(start))
		return nil, &RenderFailedError{Kind: req.Kind, Err: err}
	}
	out.CacheHit = hit

	result, err := s.pdf.Render(ctx, s.buildRenderRequest(req, page, content))
	if err != nil {
		log.Error("PDF rendering failed", zap.Error(err))
		s.observer.ObserveRender(kind, OutcomeRenderError, time.Since(start))
		return nil, &RenderFailedError{Kind: req.Kind, Err: err}
	}
	if len(result.PDFData) == 0 {
		s.observer.ObserveRender(kind, OutcomeRenderError, time.Since(start))
		return nil, &RenderFailedError{Kind: req.Kind, Err: errors.New("renderer returned an empty document")}
	}

	out.PDF = result.PDFData
	out.PageCount = result.PageCount
	out.ArchiveURL = s.store(ctx, req, out, log)
	out.Duration = time.Since(start)

	s.observer.ObserveRender(kind, OutcomeSuccess, out.Duration)
	log.Info("PDF generated",
		zap.Int("size", len(out.PDF)),
		zap.Int("pages", out.PageCount),
		zap.Bool("cache_hit", out.CacheHit),
		zap.Duration("duration", out.Duration))
	return out, nil
}

func (s *RenderService) validate(req *RenderRequest) error {
	if req.Kind == KindChecklist {
		return ValidateChecklist(req.Items)
	}
	if req.Ticket == nil {
		return NewBadRequest("Job ticket data is required")
	}
	return nil
}

// renderHTML renders the kind's template through the HTML cache. Concurrent
// misses for the same key share one fill. Cache failures fall back to a
// direct render.
func (s *RenderService) renderHTML(ctx context.Context, kind RequestKind, data renderContext) (string, bool, error) {
	name := kind.Template()
	region := kind.CacheRegion()
	if s.cache == nil || region == "" {
		content, err := s.html.RenderHTML(ctx, name, data)
		return content, false, err
	}

	log := logger.WithLogger(ctx, s.logger)

	key, err := CacheKey(name, data)
	if err != nil {
		log.Warn("HTML cache key unavailable", zap.Error(err))
		content, err := s.html.RenderHTML(ctx, name, data)
		return content, false, err
	}

	content, ok, err := s.cache.Get(ctx, region, key)
	if err != nil {
		log.Warn("HTML cache read failed", zap.String("region", region), zap.Error(err))
	} else if ok {
		s.observer.ObserveCache(region, true)
		return content, true, nil
	}
	s.observer.ObserveCache(region, false)

	v, err, _ := s.fills.Do(region+"::"+key, func() (any, error) {
		content, err := s.html.RenderHTML(ctx, name, data)
		if err != nil {
			return "", err
		}
		if err := s.cache.Set(ctx, region, key, content); err != nil {
			log.Warn("HTML cache write failed", zap.String("region", region), zap.Error(err))
		}
		return content, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.(string), false, nil
}

func (s *RenderService) buildRenderRequest(req *RenderRequest, page domain.PageSetup, content string) *infra.RenderRequest {
	r := &infra.RenderRequest{
		HTML:        content,
		PaperSize:   page.PaperSize,
		Orientation: page.Orientation,
		Margins:     page.Margins,
		Title:       checklistTitle,
		PageNumbers: page.IncludePageNumbers,
	}
	if !req.Kind.IsJobTicket() {
		return r
	}

	r.Title = jobTicketTitle
	answers := req.Ticket.Answers
	if answers == nil {
		return r
	}
	if answers.Title != "" {
		r.Title = answers.Title
	}
	if page.IncludeHeader && answers.Header != "" {
		r.HeaderHTML = marginBox(answers.Header)
	}
	if page.IncludeFooter && answers.Footer != "" {
		r.FooterHTML = marginBox(answers.Footer)
	}
	return r
}

func marginBox(text string) string {
	return fmt.Sprintf(`<div style="font-size:8px;width:100%%;text-align:center;">%s</div>`, html.EscapeString(text))
}

// store archives the PDF and returns its URL, or "" when archiving is
// disabled or failed.
func (s *RenderService) store(ctx context.Context, req *RenderRequest, out *RenderOutput, log *logger.ContextLogger) string {
	if s.archive == nil {
		return ""
	}
	result, err := s.archive.Store(context.WithoutCancel(ctx), &infra.StoreRequest{
		Kind:        req.Kind.String(),
		Filename:    out.Filename,
		ReferenceID: req.ChecklistID(),
		PDFData:     out.PDF,
	})
	if err != nil {
		log.Warn("PDF archive failed", zap.Error(err))
		return ""
	}
	log.Debug("PDF archived", zap.String("key", result.Key))
	return result.URL
}

// Templates lists the report templates known to the service's renderer, when
// it exposes them.
func (s *RenderService) Templates() []string {
	if lister, ok := s.html.(interface{ TemplateNames() []string }); ok {
		return lister.TemplateNames()
	}
	return nil
}


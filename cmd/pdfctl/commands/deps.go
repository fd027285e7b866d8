package commands

import (
	"fmt"

	"github.com/oqd/pdfservice/internal/application/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/config"
	"github.com/oqd/pdfservice/internal/infrastructure/logger"
	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/resilience"
	"go.uber.org/zap"
)

// deps are the collaborators commands are built from
type deps struct {
	loadConfig  func() (*config.Config, error)
	newRenderer func(cfg config.RendererConfig, log *zap.Logger) (infra.PDFRenderer, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig:  config.Load,
		newRenderer: newRenderer,
	}
}

func newRenderer(cfg config.RendererConfig, log *zap.Logger) (infra.PDFRenderer, error) {
	switch cfg.Engine {
	case "chromedp", "":
		return infra.NewChromedpRenderer(&infra.ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.RemoteURL,
			NoSandbox:      cfg.NoSandbox,
			SkipBackground: !cfg.PrintBackground,
			Logger:         log,
		})
	case "wkhtmltopdf":
		return infra.NewWkhtmltopdfRenderer(&infra.WkhtmltopdfConfig{
			BinaryPath:     cfg.BinaryPath,
			DefaultTimeout: cfg.Timeout,
			SkipBackground: !cfg.PrintBackground,
			Logger:         log,
		})
	default:
		return nil, fmt.Errorf("unknown renderer engine: %s", cfg.Engine)
	}
}

func newLogger(cfg *config.Config, verbose bool) *zap.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(&logger.Config{
		Level:       level,
		Format:      "console",
		Output:      "stderr",
		TimeFormat:  "15:04:05.000",
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func newTemplateEngine(cfg *config.Config) (*infra.TemplateEngine, error) {
	store, err := infra.NewTemplateStore(&infra.TemplateStoreConfig{ExternalDir: cfg.Renderer.TemplateDir})
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return infra.NewTemplateEngine(store), nil
}

// newService wires the same render pipeline the server uses, minus caching
// and archiving
func (d deps) newService(cfg *config.Config, log *zap.Logger) (*printing.RenderService, infra.PDFRenderer, error) {
	engine, err := newTemplateEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	renderer, err := d.newRenderer(cfg.Renderer, log)
	if err != nil {
		return nil, nil, err
	}
	rc := cfg.Resilience
	pipeline := resilience.NewPipeline(renderer, resilience.PipelineConfig{
		Retry:     resilience.RetryConfig{Attempts: rc.RetryAttempts, Backoff: rc.RetryBackoff},
		RateLimit: resilience.RateLimitConfig{Window: rc.RateLimitWindow, Calls: rc.RateLimitCalls, Timeout: rc.RateLimitTimeout},
		Logger:    log,
	})
	return printing.NewRenderService(engine, pipeline, log), pipeline, nil
}

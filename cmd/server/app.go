package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oqd/pdfservice/internal/application/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/cache"
	"github.com/oqd/pdfservice/internal/infrastructure/config"
	infra "github.com/oqd/pdfservice/internal/infrastructure/printing"
	"github.com/oqd/pdfservice/internal/infrastructure/resilience"
	"github.com/oqd/pdfservice/internal/infrastructure/scheduler"
	"github.com/oqd/pdfservice/internal/infrastructure/storage"
	"github.com/oqd/pdfservice/internal/infrastructure/telemetry"
	"github.com/oqd/pdfservice/internal/interfaces/http/handler"
	"github.com/oqd/pdfservice/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Archive drivers
const (
	archiveDriverFilesystem = "filesystem"
	archiveDriverS3         = "s3"
)

// Renderer engines
const (
	engineChromedp    = "chromedp"
	engineWkhtmltopdf = "wkhtmltopdf"
)

const cacheSizeInterval = 30 * time.Second

// Observability groups the telemetry providers
type Observability struct {
	Tracer   *telemetry.TracerProvider
	Meter    *telemetry.MeterProvider
	Profiler *telemetry.Profiler
	Pipeline *telemetry.PipelineMetrics
	log      *zap.Logger
}

func setupObservability(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Observability, error) {
	obs := &Observability{log: log}

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("tracer: %w", err)
	}
	obs.Tracer = tp

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("meter: %w", err)
	}
	obs.Meter = mp

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   cfg.Profiling.ApplicationName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("profiler: %w", err)
	}
	obs.Profiler = profiler
	if profiler.IsEnabled() {
		if err := tp.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	obs.Pipeline = telemetry.NewPipelineMetrics(telemetry.PipelineMetricsConfig{
		HistogramBuckets: telemetry.RenderDurationBuckets,
		IncludeRuntime:   true,
	})
	return obs, nil
}

// Shutdown flushes and stops every provider
func (o *Observability) Shutdown(ctx context.Context) {
	if err := o.Profiler.Stop(); err != nil {
		o.log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := o.Meter.Shutdown(ctx); err != nil {
		o.log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := o.Tracer.Shutdown(ctx); err != nil {
		o.log.Error("Error shutting down tracer provider", zap.Error(err))
	}
}

// App holds the PDF pipeline and the resources it owns
type App struct {
	service        *printing.RenderService
	schema         handler.SchemaValidator
	healthChecks   map[string]handler.Pinger
	ingressLimiter *middleware.RateLimiter

	renderer      infra.PDFRenderer
	htmlCache     cache.HTMLCache
	renderMetrics *telemetry.RenderMetrics
	cleanup       *scheduler.ArchiveCleanupScheduler
	log           *zap.Logger
}

func buildApp(ctx context.Context, cfg *config.Config, obs *Observability, log *zap.Logger) (*App, error) {
	app := &App{
		healthChecks: map[string]handler.Pinger{},
		log:          log,
	}

	store, err := infra.NewTemplateStore(&infra.TemplateStoreConfig{ExternalDir: cfg.Renderer.TemplateDir})
	if err != nil {
		return nil, fmt.Errorf("template store: %w", err)
	}
	engine := infra.NewTemplateEngine(store)

	renderer, err := newRenderer(cfg.Renderer, log)
	if err != nil {
		return nil, err
	}
	app.renderer = renderer

	rc := cfg.Resilience
	pipeline := resilience.NewPipeline(renderer, resilience.PipelineConfig{
		Retry: resilience.RetryConfig{
			Attempts: rc.RetryAttempts,
			Backoff:  rc.RetryBackoff,
		},
		RateLimit: resilience.RateLimitConfig{
			Window:  rc.RateLimitWindow,
			Calls:   rc.RateLimitCalls,
			Timeout: rc.RateLimitTimeout,
		},
		BreakerEnabled: rc.BreakerEnabled,
		Breaker: resilience.BreakerConfig{
			Name:         cfg.Renderer.Engine,
			Window:       rc.BreakerWindow,
			MinRequests:  uint32(max(rc.BreakerMinRequests, 0)),
			FailureRatio: rc.BreakerFailureRatio,
			OpenTimeout:  rc.BreakerOpenTimeout,
		},
		Observer: obs.Pipeline,
		Logger:   log,
	})

	observers := []printing.RenderObserver{obs.Pipeline}
	renderMetrics, err := telemetry.NewRenderMetrics(telemetry.RenderMetricsConfig{
		Meter:  obs.Meter.Meter("pdfservice"),
		Logger: log,
	})
	if err != nil {
		log.Warn("Render metrics unavailable", zap.Error(err))
	} else {
		app.renderMetrics = renderMetrics
		observers = append(observers, renderMetrics)
	}

	opts := []printing.Option{printing.WithObserver(printing.Observers(observers...))}

	htmlCache, err := cache.NewHTMLCacheFactory(cfg.Cache, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).CreateCache()
	if err != nil {
		return nil, fmt.Errorf("html cache: %w", err)
	}
	if htmlCache != nil {
		app.htmlCache = htmlCache
		opts = append(opts, printing.WithHTMLCache(htmlCache))
		if pinger, ok := htmlCache.(handler.Pinger); ok {
			app.healthChecks["cache"] = pinger
		}
		if sizer, ok := htmlCache.(telemetry.CacheSizer); ok && app.renderMetrics != nil {
			app.renderMetrics.StartCacheSizeCollection(context.WithoutCancel(ctx), sizer, cacheSizeInterval)
		}
	}

	if cfg.Archive.Enabled {
		archive, err := newArchive(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, printing.WithArchive(archive))

		if cfg.Archive.RetentionDays > 0 {
			cleanup, err := scheduler.NewArchiveCleanupScheduler(scheduler.ArchiveCleanupConfig{
				Retention: time.Duration(cfg.Archive.RetentionDays) * 24 * time.Hour,
				Interval:  cfg.Archive.CleanupInterval,
			}, archive, log)
			if err != nil {
				return nil, fmt.Errorf("archive cleanup: %w", err)
			}
			if err := cleanup.Start(context.WithoutCancel(ctx)); err != nil {
				return nil, err
			}
			app.cleanup = cleanup
		}
	}

	if cfg.Validation.SchemaEnabled {
		schema, err := printing.NewSchemaValidator()
		if err != nil {
			return nil, fmt.Errorf("job ticket schema: %w", err)
		}
		app.schema = schema
	}

	app.service = printing.NewRenderService(engine, pipeline, log, opts...)
	log.Info("PDF pipeline ready",
		zap.Strings("templates", app.service.Templates()),
		zap.Bool("html_cache", htmlCache != nil),
		zap.Bool("archive", cfg.Archive.Enabled),
		zap.Bool("schema_validation", app.schema != nil),
	)
	return app, nil
}

func newRenderer(cfg config.RendererConfig, log *zap.Logger) (infra.PDFRenderer, error) {
	switch strings.ToLower(cfg.Engine) {
	case engineChromedp, "":
		r, err := infra.NewChromedpRenderer(&infra.ChromedpConfig{
			DefaultTimeout: cfg.Timeout,
			RemoteURL:      cfg.RemoteURL,
			NoSandbox:      cfg.NoSandbox,
			SkipBackground: !cfg.PrintBackground,
			Logger:         log,
		})
		if err != nil {
			return nil, fmt.Errorf("chromedp renderer: %w", err)
		}
		return r, nil
	case engineWkhtmltopdf:
		r, err := infra.NewWkhtmltopdfRenderer(&infra.WkhtmltopdfConfig{
			BinaryPath:     cfg.BinaryPath,
			DefaultTimeout: cfg.Timeout,
			SkipBackground: !cfg.PrintBackground,
			Logger:         log,
		})
		if err != nil {
			return nil, fmt.Errorf("wkhtmltopdf renderer: %w", err)
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown renderer engine: %s", cfg.Engine)
	}
}

func newArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (infra.PDFStorage, error) {
	switch cfg.Archive.Driver {
	case archiveDriverFilesystem, "":
		fs, err := infra.NewFileSystemStorage(&infra.FileSystemStorageConfig{
			BasePath: cfg.Archive.BasePath,
			BaseURL:  cfg.Archive.BaseURL,
			Logger:   log,
		})
		if err != nil {
			return nil, fmt.Errorf("filesystem archive: %w", err)
		}
		return fs, nil
	case archiveDriverS3:
		s3, err := storage.NewS3PDFStorage(ctx, &cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			return nil, fmt.Errorf("s3 archive: %w", err)
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("s3 archive bucket %s: %w", s3.Bucket(), err)
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown archive driver: %s", cfg.Archive.Driver)
	}
}

// Close releases the pipeline resources
func (a *App) Close(ctx context.Context) {
	if a.cleanup != nil {
		if err := a.cleanup.Stop(ctx); err != nil {
			a.log.Warn("Archive cleanup did not stop in time", zap.Error(err))
		}
	}
	if a.ingressLimiter != nil {
		a.ingressLimiter.Stop()
	}
	if a.renderMetrics != nil {
		a.renderMetrics.Stop()
	}
	if a.htmlCache != nil {
		if err := a.htmlCache.Close(); err != nil {
			a.log.Error("Error closing HTML cache", zap.Error(err))
		}
	}
	if err := a.renderer.Close(); err != nil {
		a.log.Error("Error closing PDF renderer", zap.Error(err))
	}
}

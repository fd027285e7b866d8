package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oqd/pdfservice/internal/infrastructure/config"
	"github.com/oqd/pdfservice/internal/infrastructure/logger"
	"github.com/oqd/pdfservice/internal/infrastructure/telemetry"
	"github.com/oqd/pdfservice/internal/interfaces/http/handler"
	"github.com/oqd/pdfservice/internal/interfaces/http/middleware"
	"github.com/oqd/pdfservice/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// Bootstrap logger for telemetry setup; replaced once the OTLP bridge exists
	bootLog, err := logger.New(loggerConfig(cfg))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize OTLP logs", zap.Error(err))
	}

	log, err := logger.New(loggerConfig(cfg), telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		LoggerProvider: logsProvider,
		Level:          zapcore.InfoLevel,
	}))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting PDF service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", Version),
		zap.String("renderer", cfg.Renderer.Engine),
	)

	obs, err := setupObservability(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	app, err := buildApp(ctx, cfg, obs, log)
	if err != nil {
		log.Fatal("Failed to initialize PDF pipeline", zap.Error(err))
	}

	engine := newEngine(cfg, app, obs, log)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	app.Close(shutdownCtx)
	obs.Shutdown(shutdownCtx)
	if err := logsProvider.Shutdown(shutdownCtx); err != nil {
		bootLog.Error("Error shutting down logs provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func loggerConfig(cfg *config.Config) *logger.Config {
	return &logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.App.Env,
	}
}

// newEngine builds the gin engine. Middleware order:
//  1. RequestID, so every later log line and span carries it
//  2. Recovery
//  3. Tracing and span enrichment
//  4. Request logging
//  5. Security headers and CORS
//  6. HTTP metrics and profiling labels
//  7. Body limit, ingress rate limit and API key
func newEngine(cfg *config.Config, app *App, obs *Observability, log *zap.Logger) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.MaxMultipartMemory = cfg.HTTP.MaxRequestSize

	base := handler.BaseHandler{
		Debug:          cfg.App.Debug,
		MaxFileSize:    cfg.HTTP.MaxFileSize,
		MaxRequestSize: cfg.HTTP.MaxRequestSize,
		Logger:         log,
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log, base.PanicResponder))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   middleware.DefaultExemptPaths,
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: obs.Meter,
		Logger:        log,
	}))
	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = cfg.Profiling.Enabled
	engine.Use(middleware.Profiling(profiling))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxFileSize, cfg.HTTP.MaxRequestSize))
	if cfg.HTTP.IngressRateLimitEnabled {
		app.ingressLimiter = middleware.NewRateLimiter(cfg.HTTP.IngressRateLimitRPS, cfg.HTTP.IngressRateLimitBurst)
		engine.Use(middleware.RateLimit(app.ingressLimiter))
	}
	engine.Use(middleware.APIKey(middleware.APIKeyConfig{
		Key:         cfg.Security.APIKey,
		ExemptPaths: cfg.Security.ExemptPaths,
		Logger:      log,
	}))

	engine.NoRoute(base.NotFound)

	handler.NewHealthHandler(cfg.App.Name, app.healthChecks, log).RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(obs.Pipeline.Handler()))

	opts := []handler.PDFHandlerOption{handler.WithMaxFiles(cfg.HTTP.MaxFiles)}
	if app.schema != nil {
		opts = append(opts, handler.WithSchemaValidator(app.schema))
	}
	pdfHandler := handler.NewPDFHandler(app.service, base, opts...)

	r := router.NewRouter(engine, router.WithBasePath(router.DefaultBasePath))
	r.Register(handler.PDFRoutes(pdfHandler))
	r.Setup()

	for _, route := range engine.Routes() {
		log.Debug("Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}
	return engine
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Log        LogConfig
	HTTP       HTTPConfig
	Security   SecurityConfig
	Renderer   RendererConfig
	Resilience ResilienceConfig
	Cache      CacheConfig
	Redis      RedisConfig
	Archive    ArchiveConfig
	Storage    StorageConfig
	Validation ValidationConfig
	Telemetry  TelemetryConfig
	Profiling  ProfilingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool // expose error details and stack traces in error bodies
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	// MaxFileSize bounds a single uploaded part
	MaxFileSize int64
	// MaxRequestSize bounds the whole request body
	MaxRequestSize int64
	// MaxFiles bounds the parts of a multipart upload, the JSON part included
	MaxFiles                int
	IngressRateLimitEnabled bool
	IngressRateLimitRPS     float64
	IngressRateLimitBurst   int
	CORSAllowOrigins        []string
	CORSAllowMethods        []string
	CORSAllowHeaders        []string
	TrustedProxies          []string
}

// SecurityConfig holds API key settings
type SecurityConfig struct {
	APIKey string
	// ExemptPaths are path prefixes served without an API key
	ExemptPaths []string
}

// RendererConfig selects and tunes the HTML to PDF engine
type RendererConfig struct {
	Engine          string // chromedp, wkhtmltopdf
	RemoteURL       string // DevTools websocket URL of a running browser
	Timeout         time.Duration
	NoSandbox       bool
	BinaryPath      string // wkhtmltopdf binary
	TemplateDir     string // overrides the embedded templates
	PrintBackground bool
}

// ResilienceConfig tunes retry, rate limiting and the circuit breaker
type ResilienceConfig struct {
	RetryAttempts       int
	RetryBackoff        time.Duration
	RateLimitWindow     time.Duration
	RateLimitCalls      int
	RateLimitTimeout    time.Duration
	BreakerEnabled      bool
	BreakerWindow       time.Duration
	BreakerMinRequests  int
	BreakerFailureRatio float64
	BreakerOpenTimeout  time.Duration
}

// CacheConfig holds HTML cache settings
type CacheConfig struct {
	Enabled    bool
	Driver     string // redis, memory
	DefaultTTL time.Duration
	Regions    map[string]time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ArchiveConfig controls storing generated PDFs
type ArchiveConfig struct {
	Enabled         bool
	Driver          string // filesystem, s3
	BasePath        string
	BaseURL         string
	RetentionDays   int
	CleanupInterval time.Duration
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Endpoint          string
	Bucket            string
	AccessKey         string
	SecretKey         string
	Region            string
	UsePathStyle      bool
	PresignExpiration time.Duration
}

// ValidationConfig holds request validation settings
type ValidationConfig struct {
	SchemaEnabled bool
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable tracing
	MetricsEnabled    bool    // Whether to export OTel metrics
	LogsEnabled       bool    // Whether to bridge zap logs to OTLP
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsInterval   time.Duration
}

// ProfilingConfig holds Pyroscope continuous profiling configuration
type ProfilingConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
}

// IsProduction reports whether the app runs in production
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Load loads configuration from .env, TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with PDF_ prefix (e.g., PDF_SECURITY_API_KEY)
// 2. .env file (never overrides variables already set)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/app")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("PDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("app.name"),
			Env:   v.GetString("app.env"),
			Port:  v.GetString("app.port"),
			Debug: v.GetBool("app.debug"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:             v.GetDuration("http.read_timeout"),
			WriteTimeout:            v.GetDuration("http.write_timeout"),
			IdleTimeout:             v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:          v.GetInt("http.max_header_bytes"),
			MaxFileSize:             v.GetInt64("http.max_file_size"),
			MaxRequestSize:          v.GetInt64("http.max_request_size"),
			MaxFiles:                v.GetInt("http.max_files"),
			IngressRateLimitEnabled: v.GetBool("http.ingress_rate_limit_enabled"),
			IngressRateLimitRPS:     v.GetFloat64("http.ingress_rate_limit_rps"),
			IngressRateLimitBurst:   v.GetInt("http.ingress_rate_limit_burst"),
			CORSAllowOrigins:        v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:        v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:        v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:          v.GetStringSlice("http.trusted_proxies"),
		},
		Security: SecurityConfig{
			APIKey:      v.GetString("security.api_key"),
			ExemptPaths: v.GetStringSlice("security.exempt_paths"),
		},
		Renderer: RendererConfig{
			Engine:          v.GetString("renderer.engine"),
			RemoteURL:       v.GetString("renderer.remote_url"),
			Timeout:         v.GetDuration("renderer.timeout"),
			NoSandbox:       v.GetBool("renderer.no_sandbox"),
			BinaryPath:      v.GetString("renderer.binary_path"),
			TemplateDir:     v.GetString("renderer.template_dir"),
			PrintBackground: v.GetBool("renderer.print_background"),
		},
		Resilience: ResilienceConfig{
			RetryAttempts:       v.GetInt("resilience.retry_attempts"),
			RetryBackoff:        v.GetDuration("resilience.retry_backoff"),
			RateLimitWindow:     v.GetDuration("resilience.rate_limit_window"),
			RateLimitCalls:      v.GetInt("resilience.rate_limit_calls"),
			RateLimitTimeout:    v.GetDuration("resilience.rate_limit_timeout"),
			BreakerEnabled:      v.GetBool("resilience.breaker_enabled"),
			BreakerWindow:       v.GetDuration("resilience.breaker_window"),
			BreakerMinRequests:  v.GetInt("resilience.breaker_min_requests"),
			BreakerFailureRatio: v.GetFloat64("resilience.breaker_failure_ratio"),
			BreakerOpenTimeout:  v.GetDuration("resilience.breaker_open_timeout"),
		},
		Cache: CacheConfig{
			Enabled:    v.GetBool("cache.enabled"),
			Driver:     v.GetString("cache.driver"),
			DefaultTTL: v.GetDuration("cache.default_ttl"),
			Regions:    durationMap(v.GetStringMapString("cache.regions")),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Archive: ArchiveConfig{
			Enabled:         v.GetBool("archive.enabled"),
			Driver:          v.GetString("archive.driver"),
			BasePath:        v.GetString("archive.base_path"),
			BaseURL:         v.GetString("archive.base_url"),
			RetentionDays:   v.GetInt("archive.retention_days"),
			CleanupInterval: v.GetDuration("archive.cleanup_interval"),
		},
		Storage: StorageConfig{
			Endpoint:          v.GetString("storage.endpoint"),
			Bucket:            v.GetString("storage.bucket"),
			AccessKey:         v.GetString("storage.access_key"),
			SecretKey:         v.GetString("storage.secret_key"),
			Region:            v.GetString("storage.region"),
			UsePathStyle:      v.GetBool("storage.use_path_style"),
			PresignExpiration: v.GetDuration("storage.presign_expiration"),
		},
		Validation: ValidationConfig{
			SchemaEnabled: v.GetBool("validation.schema_enabled"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
		},
		Profiling: ProfilingConfig{
			Enabled:           v.GetBool("profiling.enabled"),
			ServerAddress:     v.GetString("profiling.server_address"),
			ApplicationName:   v.GetString("profiling.application_name"),
			BasicAuthUser:     v.GetString("profiling.basic_auth_user"),
			BasicAuthPassword: v.GetString("profiling.basic_auth_password"),
		},
	}

	// Booleans that default to true cannot be told apart from an explicit
	// false once read, so they are resolved here.
	if !v.IsSet("validation.schema_enabled") {
		cfg.Validation.SchemaEnabled = true
	}
	if !v.IsSet("renderer.print_background") {
		cfg.Renderer.PrintBackground = true
	}

	// Apply defaults for empty values
	applyDefaults(cfg)

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// durationMap parses region TTLs such as {jobTicketTemplates = "24h"}.
// Unparseable values are skipped.
func durationMap(raw map[string]string) map[string]time.Duration {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]time.Duration, len(raw))
	for k, s := range raw {
		if d, err := time.ParseDuration(s); err == nil {
			out[k] = d
		}
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "pdf-service"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 90 * time.Second // renders can retry
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxFileSize == 0 {
		cfg.HTTP.MaxFileSize = 10 << 20 // 10MB
	}
	if cfg.HTTP.MaxRequestSize == 0 {
		cfg.HTTP.MaxRequestSize = 50 << 20 // 50MB
	}
	if cfg.HTTP.MaxFiles == 0 {
		cfg.HTTP.MaxFiles = 25
	}
	if cfg.HTTP.IngressRateLimitRPS == 0 {
		cfg.HTTP.IngressRateLimitRPS = 5
	}
	if cfg.HTTP.IngressRateLimitBurst == 0 {
		cfg.HTTP.IngressRateLimitBurst = 10
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"POST", "GET", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Accept", "X-API-KEY", "X-Request-ID"}
	}

	if cfg.Renderer.Engine == "" {
		cfg.Renderer.Engine = "chromedp"
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 30 * time.Second
	}
	if cfg.Renderer.BinaryPath == "" {
		cfg.Renderer.BinaryPath = "wkhtmltopdf"
	}

	if cfg.Resilience.RetryAttempts == 0 {
		cfg.Resilience.RetryAttempts = 3
	}
	if cfg.Resilience.RetryBackoff == 0 {
		cfg.Resilience.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Resilience.RateLimitWindow == 0 {
		cfg.Resilience.RateLimitWindow = time.Minute
	}
	if cfg.Resilience.RateLimitCalls == 0 {
		cfg.Resilience.RateLimitCalls = 10
	}
	if cfg.Resilience.RateLimitTimeout == 0 {
		cfg.Resilience.RateLimitTimeout = time.Second
	}
	if cfg.Resilience.BreakerWindow == 0 {
		cfg.Resilience.BreakerWindow = time.Minute
	}
	if cfg.Resilience.BreakerMinRequests == 0 {
		cfg.Resilience.BreakerMinRequests = 10
	}
	if cfg.Resilience.BreakerFailureRatio == 0 {
		cfg.Resilience.BreakerFailureRatio = 0.5
	}
	if cfg.Resilience.BreakerOpenTimeout == 0 {
		cfg.Resilience.BreakerOpenTimeout = 30 * time.Second
	}

	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = "memory"
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = time.Hour
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}

	if cfg.Archive.Driver == "" {
		cfg.Archive.Driver = "filesystem"
	}
	if cfg.Archive.BasePath == "" {
		cfg.Archive.BasePath = "/data/pdf-archive"
	}
	if cfg.Archive.BaseURL == "" {
		cfg.Archive.BaseURL = "/archive"
	}
	if cfg.Archive.RetentionDays == 0 {
		cfg.Archive.RetentionDays = 30
	}
	if cfg.Archive.CleanupInterval == 0 {
		cfg.Archive.CleanupInterval = 6 * time.Hour
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.PresignExpiration == 0 {
		cfg.Storage.PresignExpiration = 15 * time.Minute
	}

	// Telemetry defaults
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317" // Default gRPC endpoint
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Profiling.ApplicationName == "" {
		cfg.Profiling.ApplicationName = cfg.App.Name
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Renderer.Engine {
	case "chromedp", "wkhtmltopdf":
	default:
		return fmt.Errorf("renderer.engine must be chromedp or wkhtmltopdf, got %q", c.Renderer.Engine)
	}
	switch c.Cache.Driver {
	case "redis", "memory":
	default:
		return fmt.Errorf("cache.driver must be redis or memory, got %q", c.Cache.Driver)
	}
	switch c.Archive.Driver {
	case "filesystem", "s3":
	default:
		return fmt.Errorf("archive.driver must be filesystem or s3, got %q", c.Archive.Driver)
	}
	if c.Archive.Enabled && c.Archive.Driver == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket is required when archive.driver is s3")
	}

	if c.HTTP.MaxFiles < 1 {
		return fmt.Errorf("http.max_files must be positive")
	}
	if c.HTTP.MaxFileSize > c.HTTP.MaxRequestSize {
		return fmt.Errorf("http.max_file_size (%d) cannot exceed http.max_request_size (%d)",
			c.HTTP.MaxFileSize, c.HTTP.MaxRequestSize)
	}
	if c.Resilience.RetryAttempts < 1 {
		return fmt.Errorf("resilience.retry_attempts must be at least 1")
	}
	if c.Resilience.RateLimitCalls < 1 {
		return fmt.Errorf("resilience.rate_limit_calls must be at least 1")
	}
	if c.Resilience.BreakerFailureRatio <= 0 || c.Resilience.BreakerFailureRatio > 1 {
		return fmt.Errorf("resilience.breaker_failure_ratio must be in (0, 1], got %f", c.Resilience.BreakerFailureRatio)
	}

	// Production-specific validations
	if c.App.IsProduction() {
		if c.Security.APIKey == "" {
			return fmt.Errorf("security.api_key is required in production")
		}
		if c.App.Debug {
			return fmt.Errorf("app.debug must be false in production to avoid leaking stack traces")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

// RedisAddr returns host:port of the Redis server
func (r RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// FormatSize renders a byte count in the largest unit it reaches, with at
// most one decimal, e.g. 10MB or 1.5MB.
func FormatSize(n int64) string {
	const unit = 1024
	units := []struct {
		size int64
		name string
	}{
		{unit * unit * unit, "GB"},
		{unit * unit, "MB"},
		{unit, "KB"},
	}
	for _, u := range units {
		if n >= u.size {
			v := strconv.FormatFloat(float64(n)/float64(u.size), 'f', 1, 64)
			return strings.TrimSuffix(v, ".0") + u.name
		}
	}
	return fmt.Sprintf("%dB", n)
}

package cache

import (
	"context"
	"fmt"

	"github.com/oqd/pdfservice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Cache drivers
const (
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// HTMLCache is a region-aware store for rendered HTML
type HTMLCache interface {
	Get(ctx context.Context, region, key string) (string, bool, error)
	Set(ctx context.Context, region, key, html string) error
	Close() error
}

// HTMLCacheFactory creates HTML caches based on configuration
type HTMLCacheFactory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// HTMLCacheFactoryOption is a functional option for configuring the factory
type HTMLCacheFactoryOption func(*HTMLCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) HTMLCacheFactoryOption {
	return func(f *HTMLCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) HTMLCacheFactoryOption {
	return func(f *HTMLCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewHTMLCacheFactory creates a new factory
func NewHTMLCacheFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...HTMLCacheFactoryOption) *HTMLCacheFactory {
	f := &HTMLCacheFactory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *HTMLCacheFactory) ttls() RegionTTLs {
	return NewRegionTTLs(f.cacheConfig.DefaultTTL, f.cacheConfig.Regions)
}

// CreateRedisCache creates a Redis-backed cache
func (f *HTMLCacheFactory) CreateRedisCache() (*RedisHTMLCache, error) {
	c, err := NewRedisHTMLCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.ttls())
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis HTML cache: %w", err)
	}
	return c, nil
}

// CreateInMemoryCache creates an in-memory cache
// WARNING: In-memory caches do not share state across process instances
func (f *HTMLCacheFactory) CreateInMemoryCache() *MemoryHTMLCache {
	return NewMemoryHTMLCache(f.ttls())
}

// CreateCache creates the configured cache. It returns nil when caching is
// disabled. The redis driver falls back to memory when Redis is unavailable
// and fallback is allowed.
func (f *HTMLCacheFactory) CreateCache() (HTMLCache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("HTML cache disabled")
		return nil, nil
	}

	switch f.cacheConfig.Driver {
	case DriverMemory, "":
		f.logger.Info("using in-memory HTML cache")
		return f.CreateInMemoryCache(), nil
	case DriverRedis:
	default:
		return nil, fmt.Errorf("unknown cache driver: %s", f.cacheConfig.Driver)
	}

	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis HTML cache")
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for HTML cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory HTML cache",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}

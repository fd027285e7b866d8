package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisHTMLCache stores rendered HTML in Redis under region::key.
// This is suitable for deployments where several instances share renders.
type RedisHTMLCache struct {
	client *redis.Client
	ttls   RegionTTLs
}

// NewRedisHTMLCache connects to Redis and creates the cache
func NewRedisHTMLCache(cfg RedisConfig, ttls RegionTTLs) (*RedisHTMLCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisHTMLCacheWithClient(client, ttls), nil
}

// NewRedisHTMLCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisHTMLCacheWithClient(client *redis.Client, ttls RegionTTLs) *RedisHTMLCache {
	return &RedisHTMLCache{client: client, ttls: ttls}
}

// Get returns the cached HTML. A missing key is a miss, not an error.
func (c *RedisHTMLCache) Get(ctx context.Context, region, key string) (string, bool, error) {
	html, err := c.client.Get(ctx, regionKey(region, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached HTML: %w", err)
	}
	return html, true, nil
}

// Set stores html with the region's TTL
func (c *RedisHTMLCache) Set(ctx context.Context, region, key, html string) error {
	if err := c.client.Set(ctx, regionKey(region, key), html, c.ttls.TTL(region)).Err(); err != nil {
		return fmt.Errorf("failed to cache HTML: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (c *RedisHTMLCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *RedisHTMLCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisHTMLCache) GetClient() *redis.Client {
	return c.client
}

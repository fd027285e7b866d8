package cache

import (
	"context"
	"sync"
	"time"
)

// entry is a cached page with its expiration
type entry struct {
	html      string
	expiresAt time.Time
}

// MemoryHTMLCache keeps rendered HTML in process memory.
// This is suitable for single-instance deployments and testing
type MemoryHTMLCache struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttls      RegionTTLs
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryHTMLCache creates the cache and starts a background goroutine
// that drops expired entries
func NewMemoryHTMLCache(ttls RegionTTLs) *MemoryHTMLCache {
	c := &MemoryHTMLCache{
		entries:  make(map[string]entry),
		ttls:     ttls,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached HTML if present and not expired
func (c *MemoryHTMLCache) Get(_ context.Context, region, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[regionKey(region, key)]
	if !ok || !c.now().Before(e.expiresAt) {
		return "", false, nil
	}
	return e.html, true, nil
}

// Set stores html with the region's TTL
func (c *MemoryHTMLCache) Set(_ context.Context, region, key, html string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[regionKey(region, key)] = entry{
		html:      html,
		expiresAt: c.now().Add(c.ttls.TTL(region)),
	}
	return nil
}

// Close stops the cleanup goroutine
// Safe to call multiple times
func (c *MemoryHTMLCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *MemoryHTMLCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *MemoryHTMLCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Size returns the number of entries, expired ones included (for testing/monitoring)
func (c *MemoryHTMLCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

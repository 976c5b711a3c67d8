package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dropship/backend/internal/domain/dropship"
)

// cacheEntry is a stored product with expiration.
type cacheEntry struct {
	product   *dropship.Product
	expiresAt time.Time
}

// InMemoryProductCache implements ProductCache using an in-memory map.
// Suitable for single-instance deployments and testing.
type InMemoryProductCache struct {
	mu        sync.RWMutex
	entries   map[string]cacheEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryProductCache creates an in-memory product cache. It starts a
// background goroutine that evicts expired entries.
func NewInMemoryProductCache() *InMemoryProductCache {
	c := &InMemoryProductCache{
		entries:  make(map[string]cacheEntry),
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns a cached product, or (nil, nil) on a miss. The stored product
// is cloned so callers never share cache-owned state.
func (c *InMemoryProductCache) Get(ctx context.Context, provider, productID string) (*dropship.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[productCacheKey(provider, productID)]
	if !exists || time.Now().After(e.expiresAt) {
		return nil, nil
	}
	return e.product.Clone(), nil
}

// Set stores a clone of the product with a TTL.
func (c *InMemoryProductCache) Set(ctx context.Context, product *dropship.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[productCacheKey(product.Provider, product.ID)] = cacheEntry{
		product:   product.Clone(),
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Invalidate removes one cached product.
func (c *InMemoryProductCache) Invalidate(ctx context.Context, provider, productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, productCacheKey(provider, productID))
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryProductCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// Size returns the number of entries (for testing/monitoring).
func (c *InMemoryProductCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *InMemoryProductCache) cleanupLoop() {
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

func (c *InMemoryProductCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Ensure InMemoryProductCache implements ProductCache
var _ ProductCache = (*InMemoryProductCache)(nil)

// Package cache provides the product cache used by the dropshipping facade.
// Two implementations exist: an in-memory cache for single-instance
// deployments and tests, and a Redis-backed cache for shared deployments.
package cache

import (
	"context"
	"time"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ProductCache caches provider products keyed by (provider, product id).
type ProductCache interface {
	// Get returns a cached product, or (nil, nil) on a miss.
	Get(ctx context.Context, provider, productID string) (*dropship.Product, error)

	// Set stores a product with a TTL.
	Set(ctx context.Context, product *dropship.Product, ttl time.Duration) error

	// Invalidate removes one cached product.
	Invalidate(ctx context.Context, provider, productID string) error

	// Close releases cache resources.
	Close() error
}

// productCacheKey builds the cache key for a product.
func productCacheKey(provider, productID string) string {
	return "dropship:product:" + provider + ":" + productID
}

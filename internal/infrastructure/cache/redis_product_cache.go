package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/dropship"
)

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisProductCache implements ProductCache using Redis.
type RedisProductCache struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger
}

// NewRedisProductCache creates a Redis-backed product cache and verifies the
// connection.
func NewRedisProductCache(cfg RedisConfig, logger *zap.Logger) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProductCache{client: client, ownsClient: true, logger: logger}, nil
}

// NewRedisProductCacheWithClient creates a cache around an existing client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisProductCacheWithClient(client *redis.Client, logger *zap.Logger) *RedisProductCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProductCache{client: client, ownsClient: false, logger: logger}
}

// Get returns a cached product, or (nil, nil) on a miss. A corrupt cache
// entry is treated as a miss and dropped.
func (c *RedisProductCache) Get(ctx context.Context, provider, productID string) (*dropship.Product, error) {
	key := productCacheKey(provider, productID)
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var product dropship.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		c.logger.Warn("dropping corrupt product cache entry", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return nil, nil
	}
	return &product, nil
}

// Set stores a product with a TTL.
func (c *RedisProductCache) Set(ctx context.Context, product *dropship.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}
	raw, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("cache encode failed: %w", err)
	}
	return c.client.Set(ctx, productCacheKey(product.Provider, product.ID), raw, ttl).Err()
}

// Invalidate removes one cached product.
func (c *RedisProductCache) Invalidate(ctx context.Context, provider, productID string) error {
	return c.client.Del(ctx, productCacheKey(provider, productID)).Err()
}

// Close closes the underlying client if this cache owns it.
func (c *RedisProductCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisProductCache implements ProductCache
var _ ProductCache = (*RedisProductCache)(nil)

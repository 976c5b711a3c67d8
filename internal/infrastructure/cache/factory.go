package cache

import (
	"fmt"

	"go.uber.org/zap"
)

// ProductCacheFactory creates product caches based on configuration.
type ProductCacheFactory struct {
	redisConfig           RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ProductCacheFactoryOption is a functional option for configuring the factory.
type ProductCacheFactoryOption func(*ProductCacheFactory)

// WithLogger sets the logger for the factory.
func WithLogger(logger *zap.Logger) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewProductCacheFactory creates a new factory.
func NewProductCacheFactory(cfg RedisConfig, opts ...ProductCacheFactoryOption) *ProductCacheFactory {
	f := &ProductCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a product cache. It tries Redis first and falls back to
// the in-memory cache when Redis is unavailable and fallback is allowed.
func (f *ProductCacheFactory) CreateCache() (ProductCache, error) {
	cache, err := NewRedisProductCache(f.redisConfig, f.logger)
	if err == nil {
		f.logger.Info("using Redis product cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for product cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory product cache. "+
		"Cached products will not be shared across process instances.",
		zap.Error(err),
	)
	return NewInMemoryProductCache(), nil
}

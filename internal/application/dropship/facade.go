// Package dropship contains the application services of the dropshipping
// context: the provider facade and the order lifecycle tracker.
package dropship

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dropship/backend/internal/domain/dropship"
	"github.com/dropship/backend/internal/infrastructure/cache"
	"github.com/dropship/backend/internal/infrastructure/resilience"
)

// defaultFanOutLimit bounds concurrent provider calls during multi-provider
// search fan-out.
const defaultFanOutLimit = 8

// defaultCacheTTL is how long fetched products stay cached.
const defaultCacheTTL = 5 * time.Minute

// ProviderHealth is one entry of the health report.
type ProviderHealth struct {
	Provider string `json:"provider"`
	Enabled  bool   `json:"enabled"`
	Status   string `json:"status"`
}

// Service is the single entry point for all dropshipping operations. It
// resolves providers through the registry, wraps every adapter call in the
// retry executor, and hands results to the platform-side collaborators
// (catalog store, inventory sink, product cache).
//
// The service performs no local mutation of provider state itself; it only
// relays, so a cancelled call never leaves half-applied local state.
type Service struct {
	registry  *dropship.Registry
	executor  *resilience.Executor
	catalog   dropship.CatalogStore
	inventory dropship.InventorySink
	cache     cache.ProductCache
	logger    *zap.Logger

	fanOutLimit int
	cacheTTL    time.Duration
}

// ServiceOption is a functional option for configuring the Service.
type ServiceOption func(*Service)

// WithCatalogStore sets the store import results are persisted to.
func WithCatalogStore(store dropship.CatalogStore) ServiceOption {
	return func(s *Service) { s.catalog = store }
}

// WithInventorySink sets the sink inventory snapshots are handed to.
func WithInventorySink(sink dropship.InventorySink) ServiceOption {
	return func(s *Service) { s.inventory = sink }
}

// WithProductCache sets the product cache consulted by GetProduct.
func WithProductCache(c cache.ProductCache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = c
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithFanOutLimit bounds concurrent provider calls during search fan-out.
func WithFanOutLimit(limit int) ServiceOption {
	return func(s *Service) {
		if limit > 0 {
			s.fanOutLimit = limit
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService creates the dropshipping facade.
func NewService(registry *dropship.Registry, executor *resilience.Executor, opts ...ServiceOption) *Service {
	s := &Service{
		registry:    registry,
		executor:    executor,
		logger:      zap.NewNop(),
		fanOutLimit: defaultFanOutLimit,
		cacheTTL:    defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// CreateOrder validates the request locally and places it with the resolved
// provider. Provider selection is explicit or default-only; a failed creation
// is never retried against a different provider, because order creation must
// not be silently duplicated across providers.
func (s *Service) CreateOrder(ctx context.Context, req dropship.OrderRequest, providerName string) (*dropship.OrderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	adapter, err := s.registry.Resolve(providerName)
	if err != nil {
		return nil, err
	}

	var result *dropship.OrderResult
	err = s.executor.Do(ctx, "create_order", func(ctx context.Context) error {
		var opErr error
		result, opErr = adapter.CreateOrder(ctx, req)
		return opErr
	})
	if err != nil {
		s.logger.Error("order creation failed",
			zap.String("provider", adapter.Name()),
			zap.String("kind", dropship.KindOf(err).String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("provider", adapter.Name()),
		zap.String("provider_order_id", result.ProviderOrderID),
	)
	return result, nil
}

// GetOrderStatus fetches the canonical status of an order. An order is only
// ever tracked by the provider that created it, so the provider name is
// required.
func (s *Service) GetOrderStatus(ctx context.Context, orderID, providerName string) (*dropship.OrderStatus, error) {
	adapter, err := s.resolveExplicit(providerName)
	if err != nil {
		return nil, err
	}

	var status *dropship.OrderStatus
	err = s.executor.Do(ctx, "get_order_status", func(ctx context.Context) error {
		var opErr error
		status, opErr = adapter.GetOrderStatus(ctx, orderID)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// CancelOrder requests cancellation of an order. A provider that cannot
// cancel reports false, which is propagated unchanged.
func (s *Service) CancelOrder(ctx context.Context, orderID, providerName string) (bool, error) {
	adapter, err := s.resolveExplicit(providerName)
	if err != nil {
		return false, err
	}

	var cancelled bool
	err = s.executor.Do(ctx, "cancel_order", func(ctx context.Context) error {
		var opErr error
		cancelled, opErr = adapter.CancelOrder(ctx, orderID)
		return opErr
	})
	if err != nil {
		return false, err
	}
	return cancelled, nil
}

// ---------------------------------------------------------------------------
// Product Operations
// ---------------------------------------------------------------------------

// GetAvailableProducts searches for products. With a provider name the call
// goes to that provider alone; without one it fans out to every enabled
// provider concurrently and concatenates results. A single provider's
// failure is logged and excluded rather than failing the whole call.
func (s *Service) GetAvailableProducts(ctx context.Context, query dropship.SearchQuery, providerName string) ([]*dropship.Product, error) {
	if providerName != "" {
		adapter, err := s.registry.Resolve(providerName)
		if err != nil {
			return nil, err
		}
		return s.searchOne(ctx, adapter, query)
	}

	adapters := s.registry.ListEnabled()
	if len(adapters) == 0 {
		return nil, dropship.NewConfigurationError("", "no provider registered")
	}

	// Fan out with bounded concurrency; collect per-adapter slices so the
	// aggregate keeps registration order regardless of completion order.
	results := make([][]*dropship.Product, len(adapters))
	sem := make(chan struct{}, s.fanOutLimit)
	var wg sync.WaitGroup

	for i, adapter := range adapters {
		wg.Add(1)
		go func(idx int, a dropship.ProviderAdapter) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			products, err := s.searchOne(ctx, a, query)
			if err != nil {
				s.logger.Warn("provider search failed, excluding from aggregate",
					zap.String("provider", a.Name()),
					zap.String("kind", dropship.KindOf(err).String()),
					zap.Error(err),
				)
				return
			}
			results[idx] = products
		}(i, adapter)
	}
	wg.Wait()

	var aggregate []*dropship.Product
	for _, products := range results {
		aggregate = append(aggregate, products...)
	}
	return aggregate, nil
}

func (s *Service) searchOne(ctx context.Context, adapter dropship.ProviderAdapter, query dropship.SearchQuery) ([]*dropship.Product, error) {
	var products []*dropship.Product
	err := s.executor.Do(ctx, "search_products", func(ctx context.Context) error {
		var opErr error
		products, opErr = adapter.SearchProducts(ctx, query)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	// Source tagging is an invariant of the aggregate, not adapter goodwill.
	for _, p := range products {
		if p.Provider == "" {
			p.Provider = adapter.Name()
		}
	}
	return products, nil
}

// GetProduct fetches one product from an explicit provider, consulting the
// product cache first.
func (s *Service) GetProduct(ctx context.Context, productID, providerName string) (*dropship.Product, error) {
	adapter, err := s.resolveExplicit(providerName)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, adapter.Name(), productID); err == nil && cached != nil {
			return cached, nil
		}
	}

	var product *dropship.Product
	err = s.executor.Do(ctx, "get_product", func(ctx context.Context) error {
		var opErr error
		product, opErr = adapter.GetProduct(ctx, productID)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product, s.cacheTTL); err != nil {
			s.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return product, nil
}

// ImportProduct fetches a product from an explicit provider and materializes
// it into the local catalog. A product the provider cannot serve yields a
// failed result, so batch imports keep going.
func (s *Service) ImportProduct(ctx context.Context, productID, providerName string) (*dropship.ImportResult, error) {
	adapter, err := s.resolveExplicit(providerName)
	if err != nil {
		return nil, err
	}

	var result *dropship.ImportResult
	err = s.executor.Do(ctx, "import_product", func(ctx context.Context) error {
		var opErr error
		result, opErr = adapter.ImportProduct(ctx, productID)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	if result.Success && result.Product != nil && s.catalog != nil {
		record := &dropship.ImportedProduct{
			Provider:          adapter.Name(),
			ProviderProductID: result.Product.ID,
			Title:             result.Product.Title,
			Price:             result.Product.Price,
			Currency:          result.Product.Currency,
		}
		if existing, err := s.catalog.FindByProviderProduct(ctx, adapter.Name(), result.Product.ID); err == nil && existing != nil {
			record.LocalID = existing.LocalID
			record.ImportedAt = existing.ImportedAt
		}
		if err := s.catalog.Save(ctx, record); err != nil {
			return nil, err
		}
		result.LocalID = record.LocalID
	}
	return result, nil
}

// GetShippingInfo fetches shipping options for a product from an explicit
// provider.
func (s *Service) GetShippingInfo(ctx context.Context, productID, providerName string) (*dropship.ShippingInfo, error) {
	adapter, err := s.resolveExplicit(providerName)
	if err != nil {
		return nil, err
	}

	var info *dropship.ShippingInfo
	err = s.executor.Do(ctx, "get_shipping_info", func(ctx context.Context) error {
		var opErr error
		info, opErr = adapter.GetShippingInfo(ctx, productID)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// ---------------------------------------------------------------------------
// Inventory Operations
// ---------------------------------------------------------------------------

// SyncInventory fetches stock snapshots for the given ids from an explicit
// provider and hands them to the inventory sink. The returned slice has one
// entry per requested id, in request order.
func (s *Service) SyncInventory(ctx context.Context, productIDs []string, providerName string) ([]dropship.InventoryUpdate, error) {
	adapter, err := s.resolveExplicit(providerName)
	if err != nil {
		return nil, err
	}

	var updates []dropship.InventoryUpdate
	err = s.executor.Do(ctx, "sync_inventory", func(ctx context.Context) error {
		var opErr error
		updates, opErr = adapter.SyncInventory(ctx, productIDs)
		return opErr
	})
	if err != nil {
		return nil, err
	}

	if s.inventory != nil {
		if err := s.inventory.Record(ctx, adapter.Name(), updates); err != nil {
			return nil, err
		}
	}
	return updates, nil
}

// ---------------------------------------------------------------------------
// Operational Surface
// ---------------------------------------------------------------------------

// DefaultProvider returns the name of the default provider, or "" when none
// is set.
func (s *Service) DefaultProvider() string {
	return s.registry.DefaultName()
}

// GetEnabledProviders returns the enabled provider names in registration
// order.
func (s *Service) GetEnabledProviders() []string {
	adapters := s.registry.ListEnabled()
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return names
}

// HealthCheck probes every registered provider. It never returns an error;
// an unreachable provider is reported as unhealthy.
func (s *Service) HealthCheck(ctx context.Context) []ProviderHealth {
	names := s.registry.Names()
	report := make([]ProviderHealth, 0, len(names))

	for _, name := range names {
		adapter, ok := s.registry.Get(name)
		if !ok {
			continue
		}
		entry := ProviderHealth{Provider: name, Enabled: adapter.Enabled()}
		if !adapter.Enabled() {
			entry.Status = "disabled"
		} else {
			probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := adapter.Initialize(probeCtx); err != nil {
				entry.Status = "unhealthy"
				s.logger.Warn("provider health probe failed",
					zap.String("provider", name),
					zap.Error(err),
				)
			} else {
				entry.Status = "healthy"
			}
			cancel()
		}
		report = append(report, entry)
	}
	return report
}

// resolveExplicit resolves a provider that must be named by the caller.
func (s *Service) resolveExplicit(providerName string) (dropship.ProviderAdapter, error) {
	if providerName == "" {
		return nil, dropship.NewConfigurationError("", "provider name required")
	}
	return s.registry.Resolve(providerName)
}

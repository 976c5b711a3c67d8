package dropship

import (
	"context"
)

// ---------------------------------------------------------------------------
// Provider Port
// ---------------------------------------------------------------------------

// ProviderAdapter is the port interface every fulfillment provider implements.
// Implementations live in the infrastructure layer; the rest of the system
// only ever sees this contract and the canonical types it exchanges.
//
// All blocking operations take a context and honour its cancellation. A
// cancelled context surfaces as an error before any state is reported.
type ProviderAdapter interface {
	// Name returns the provider's unique registry name (e.g. "printful").
	Name() string

	// Enabled reports whether the adapter is configured and switched on.
	// Disabled adapters stay registered but are excluded from resolution
	// and fan-out.
	Enabled() bool

	// Initialize validates credentials and prepares the adapter for use.
	// Called once before the adapter serves traffic.
	Initialize(ctx context.Context) error

	// SearchProducts searches the provider's catalog. The returned products
	// are tagged with this provider's name.
	SearchProducts(ctx context.Context, query SearchQuery) ([]*Product, error)

	// GetProduct fetches one product by its provider-native id.
	GetProduct(ctx context.Context, productID string) (*Product, error)

	// ImportProduct fetches a product for materialization into the local
	// catalog. A product the provider cannot serve yields a failed
	// ImportResult, not an error.
	ImportProduct(ctx context.Context, productID string) (*ImportResult, error)

	// SyncInventory fetches stock and price snapshots for the given product
	// ids. The result has exactly one entry per requested id, in request
	// order; ids unknown to the provider come back with Available=false.
	SyncInventory(ctx context.Context, productIDs []string) ([]InventoryUpdate, error)

	// CreateOrder places an order with the provider. The request is validated
	// locally first; no network call is made for an invalid request.
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)

	// GetOrderStatus fetches the current canonical status of an order.
	GetOrderStatus(ctx context.Context, providerOrderID string) (*OrderStatus, error)

	// CancelOrder requests cancellation of an order. It returns true only if
	// the provider confirmed the cancellation; an order already shipped or
	// delivered cannot be cancelled.
	CancelOrder(ctx context.Context, providerOrderID string) (bool, error)

	// GetShippingInfo fetches the shipping options for a product.
	GetShippingInfo(ctx context.Context, productID string) (*ShippingInfo, error)
}

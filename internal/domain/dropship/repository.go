package dropship

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Persistence Ports
// ---------------------------------------------------------------------------

// ImportedProduct is a provider product materialized into the local catalog.
type ImportedProduct struct {
	// LocalID is the platform-local identifier.
	LocalID string
	// Provider is the source provider name.
	Provider string
	// ProviderProductID is the product id on the source provider.
	ProviderProductID string
	// Title is the product title at import time.
	Title string
	// Price is the price at import time.
	Price decimal.Decimal
	// Currency is the ISO 4217 currency code for Price.
	Currency string
	// ImportedAt is when the import happened.
	ImportedAt time.Time
	// UpdatedAt is when the record was last refreshed by inventory sync.
	UpdatedAt time.Time
}

// CatalogStore persists imported products. Implementations live in the
// infrastructure layer.
type CatalogStore interface {
	// Save stores an imported product. Importing the same provider product
	// twice updates the existing record and keeps its LocalID.
	Save(ctx context.Context, p *ImportedProduct) error

	// FindByProviderProduct looks up an imported product by its source
	// coordinates. Returns (nil, nil) when absent.
	FindByProviderProduct(ctx context.Context, provider, providerProductID string) (*ImportedProduct, error)

	// FindByLocalID looks up an imported product by its local id.
	// Returns (nil, nil) when absent.
	FindByLocalID(ctx context.Context, localID string) (*ImportedProduct, error)

	// List returns imported products for a provider, newest first. An empty
	// provider name lists across all providers.
	List(ctx context.Context, provider string, limit, offset int) ([]*ImportedProduct, error)
}

// InventorySink receives inventory snapshots produced by batch sync. The
// core keeps no inventory state of its own.
type InventorySink interface {
	// Record stores a batch of inventory snapshots.
	Record(ctx context.Context, provider string, updates []InventoryUpdate) error
}

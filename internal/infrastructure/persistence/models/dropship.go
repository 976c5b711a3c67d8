// Package models contains the GORM persistence models and their domain
// conversions.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dropship/backend/internal/domain/dropship"
)

// ImportedProductModel is the persistence model for an imported product.
type ImportedProductModel struct {
	LocalID           string          `gorm:"type:uuid;primary_key;column:local_id"`
	Provider          string          `gorm:"type:varchar(50);not null;index:idx_imported_provider_product,priority:1,unique"`
	ProviderProductID string          `gorm:"type:varchar(100);not null;index:idx_imported_provider_product,priority:2,unique"`
	Title             string          `gorm:"type:varchar(255);not null"`
	Price             decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency          string          `gorm:"type:varchar(3);not null"`
	ImportedAt        time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ImportedProductModel) TableName() string {
	return "imported_products"
}

// ToDomain converts the persistence model to a domain ImportedProduct.
func (m *ImportedProductModel) ToDomain() *dropship.ImportedProduct {
	return &dropship.ImportedProduct{
		LocalID:           m.LocalID,
		Provider:          m.Provider,
		ProviderProductID: m.ProviderProductID,
		Title:             m.Title,
		Price:             m.Price,
		Currency:          m.Currency,
		ImportedAt:        m.ImportedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ImportedProduct.
func (m *ImportedProductModel) FromDomain(p *dropship.ImportedProduct) {
	m.LocalID = p.LocalID
	m.Provider = p.Provider
	m.ProviderProductID = p.ProviderProductID
	m.Title = p.Title
	m.Price = p.Price
	m.Currency = p.Currency
	m.ImportedAt = p.ImportedAt
	m.UpdatedAt = p.UpdatedAt
}

// InventorySnapshotModel is the persistence model for one inventory snapshot
// produced by batch sync.
type InventorySnapshotModel struct {
	ID        uint            `gorm:"primary_key;autoIncrement"`
	Provider  string          `gorm:"type:varchar(50);not null;index:idx_snapshot_provider_product,priority:1"`
	ProductID string          `gorm:"type:varchar(100);not null;index:idx_snapshot_provider_product,priority:2"`
	VariantID string          `gorm:"type:varchar(100)"`
	Stock     int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Available bool            `gorm:"not null"`
	CheckedAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InventorySnapshotModel) TableName() string {
	return "inventory_snapshots"
}

// FromDomain populates the persistence model from a domain InventoryUpdate.
func (m *InventorySnapshotModel) FromDomain(provider string, u dropship.InventoryUpdate) {
	m.Provider = provider
	m.ProductID = u.ProductID
	m.VariantID = u.VariantID
	m.Stock = u.Stock
	m.Price = u.Price
	m.Available = u.Available
	m.CheckedAt = u.CheckedAt
}

// ToDomain converts the persistence model to a domain InventoryUpdate.
func (m *InventorySnapshotModel) ToDomain() dropship.InventoryUpdate {
	return dropship.InventoryUpdate{
		ProductID: m.ProductID,
		VariantID: m.VariantID,
		Stock:     m.Stock,
		Price:     m.Price,
		Available: m.Available,
		CheckedAt: m.CheckedAt,
	}
}

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dropship/backend/internal/domain/dropship"
	"github.com/dropship/backend/internal/infrastructure/persistence/models"
)

// GormCatalogStore implements dropship.CatalogStore using GORM.
type GormCatalogStore struct {
	db *gorm.DB
}

// NewGormCatalogStore creates a new GormCatalogStore.
func NewGormCatalogStore(db *gorm.DB) *GormCatalogStore {
	return &GormCatalogStore{db: db}
}

// Save stores an imported product. Re-importing the same provider product
// updates the existing row and keeps its local id.
func (r *GormCatalogStore) Save(ctx context.Context, p *dropship.ImportedProduct) error {
	if p.LocalID == "" {
		p.LocalID = uuid.NewString()
	}
	if p.ImportedAt.IsZero() {
		p.ImportedAt = time.Now()
	}
	p.UpdatedAt = time.Now()

	var model models.ImportedProductModel
	model.FromDomain(p)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "provider"}, {Name: "provider_product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "price", "currency", "updated_at"}),
		}).
		Create(&model).Error
}

// FindByProviderProduct looks up an imported product by its source
// coordinates. Returns (nil, nil) when absent.
func (r *GormCatalogStore) FindByProviderProduct(ctx context.Context, provider, providerProductID string) (*dropship.ImportedProduct, error) {
	var model models.ImportedProductModel
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_product_id = ?", provider, providerProductID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLocalID looks up an imported product by its local id.
// Returns (nil, nil) when absent.
func (r *GormCatalogStore) FindByLocalID(ctx context.Context, localID string) (*dropship.ImportedProduct, error) {
	var model models.ImportedProductModel
	err := r.db.WithContext(ctx).
		Where("local_id = ?", localID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns imported products, newest first. An empty provider name lists
// across all providers.
func (r *GormCatalogStore) List(ctx context.Context, provider string, limit, offset int) ([]*dropship.ImportedProduct, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&models.ImportedProductModel{})
	if provider != "" {
		query = query.Where("provider = ?", provider)
	}

	var rows []models.ImportedProductModel
	if err := query.Order("imported_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*dropship.ImportedProduct, len(rows))
	for i := range rows {
		result[i] = rows[i].ToDomain()
	}
	return result, nil
}

// Ensure GormCatalogStore implements CatalogStore
var _ dropship.CatalogStore = (*GormCatalogStore)(nil)

// ---------------------------------------------------------------------------
// Inventory Sink
// ---------------------------------------------------------------------------

// GormInventorySink implements dropship.InventorySink using GORM.
type GormInventorySink struct {
	db *gorm.DB
}

// NewGormInventorySink creates a new GormInventorySink.
func NewGormInventorySink(db *gorm.DB) *GormInventorySink {
	return &GormInventorySink{db: db}
}

// Record stores a batch of inventory snapshots in one insert.
func (r *GormInventorySink) Record(ctx context.Context, provider string, updates []dropship.InventoryUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	rows := make([]models.InventorySnapshotModel, len(updates))
	for i, u := range updates {
		rows[i].FromDomain(provider, u)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// Ensure GormInventorySink implements InventorySink
var _ dropship.InventorySink = (*GormInventorySink)(nil)

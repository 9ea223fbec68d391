package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := dbFor(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySellerAndPeriod lists a seller's sales created within [from, to)
func (r *GormSaleRepository) FindBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	if err := dbFor(ctx, r.db).
		Where("seller_id = ? AND created_at >= ? AND created_at < ?", sellerID, from, to).
		Order("created_at ASC").
		Find(&saleModels).Error; err != nil {
		return nil, err
	}
	result := make([]sales.Sale, len(saleModels))
	for i := range saleModels {
		result[i] = *saleModels[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a sale with an optimistic version check. A
// stored version ahead of the aggregate means another writer advanced the
// row since this one was loaded; that returns shared.ErrConcurrencyConflict.
// Saving an unmodified aggregate (stored equals in-memory) is a plain
// rewrite, not a conflict.
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	var model models.SaleModel
	model.FromDomain(sale)
	db := dbFor(ctx, r.db)

	result := db.Model(&models.SaleModel{}).
		Where("id = ? AND version <= ?", sale.ID, sale.Version).
		Select("*").
		Updates(&model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&models.SaleModel{}).Where("id = ?", sale.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrConcurrencyConflict
	}
	return db.Create(&model).Error
}

package persistence

import (
	"context"
	"errors"

	"github.com/agencia/backend/internal/domain/commission"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleCommissionRepository implements commission.SaleCommissionRepository using GORM
type GormSaleCommissionRepository struct {
	db *gorm.DB
}

// NewGormSaleCommissionRepository creates a new GormSaleCommissionRepository
func NewGormSaleCommissionRepository(db *gorm.DB) *GormSaleCommissionRepository {
	return &GormSaleCommissionRepository{db: db}
}

// FindBySaleAndPeriod returns the record keyed by (sale, month, year), or
// nil when the aggregation has not produced one yet
func (r *GormSaleCommissionRepository) FindBySaleAndPeriod(ctx context.Context, saleID uuid.UUID, month, year int) (*commission.SaleCommission, error) {
	var model models.SaleCommissionModel
	err := dbFor(ctx, r.db).
		Where("sale_id = ? AND month = ? AND year = ?", saleID, month, year).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListBySellerAndPeriod lists a seller's commission records for a period
func (r *GormSaleCommissionRepository) ListBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, month, year int) ([]commission.SaleCommission, error) {
	var recordModels []models.SaleCommissionModel
	if err := dbFor(ctx, r.db).
		Where("seller_id = ? AND month = ? AND year = ?", sellerID, month, year).
		Order("created_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	result := make([]commission.SaleCommission, len(recordModels))
	for i := range recordModels {
		result[i] = *recordModels[i].ToDomain()
	}
	return result, nil
}

// ListActiveBySale lists the sale's non-cancelled commission records
func (r *GormSaleCommissionRepository) ListActiveBySale(ctx context.Context, saleID uuid.UUID) ([]commission.SaleCommission, error) {
	var recordModels []models.SaleCommissionModel
	if err := dbFor(ctx, r.db).
		Where("sale_id = ? AND cancelled = ?", saleID, false).
		Find(&recordModels).Error; err != nil {
		return nil, err
	}
	result := make([]commission.SaleCommission, len(recordModels))
	for i := range recordModels {
		result[i] = *recordModels[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a commission record
func (r *GormSaleCommissionRepository) Save(ctx context.Context, record *commission.SaleCommission) error {
	var model models.SaleCommissionModel
	model.FromDomain(record)
	return dbFor(ctx, r.db).Save(&model).Error
}

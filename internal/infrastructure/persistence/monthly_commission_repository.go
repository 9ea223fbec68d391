package persistence

import (
	"context"
	"errors"

	"github.com/agencia/backend/internal/domain/commission"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMonthlyCommissionRepository implements commission.MonthlyCommissionRepository using GORM
type GormMonthlyCommissionRepository struct {
	db *gorm.DB
}

// NewGormMonthlyCommissionRepository creates a new GormMonthlyCommissionRepository
func NewGormMonthlyCommissionRepository(db *gorm.DB) *GormMonthlyCommissionRepository {
	return &GormMonthlyCommissionRepository{db: db}
}

// FindBySellerAndPeriod returns the seller's monthly summary, or nil when
// no recalculation has produced one yet
func (r *GormMonthlyCommissionRepository) FindBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, month, year int) (*commission.MonthlyCommission, error) {
	var model models.MonthlyCommissionModel
	err := dbFor(ctx, r.db).
		Where("seller_id = ? AND month = ? AND year = ?", sellerID, month, year).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a monthly summary
func (r *GormMonthlyCommissionRepository) Save(ctx context.Context, summary *commission.MonthlyCommission) error {
	var model models.MonthlyCommissionModel
	model.FromDomain(summary)
	return dbFor(ctx, r.db).Save(&model).Error
}

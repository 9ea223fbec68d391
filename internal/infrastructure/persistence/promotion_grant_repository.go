package persistence

import (
	"context"

	"github.com/agencia/backend/internal/domain/loyalty"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPromotionGrantRepository implements loyalty.PromotionGrantRepository using GORM
type GormPromotionGrantRepository struct {
	db *gorm.DB
}

// NewGormPromotionGrantRepository creates a new GormPromotionGrantRepository
func NewGormPromotionGrantRepository(db *gorm.DB) *GormPromotionGrantRepository {
	return &GormPromotionGrantRepository{db: db}
}

// ListActiveBySale lists the sale's grants that have not been reversed
func (r *GormPromotionGrantRepository) ListActiveBySale(ctx context.Context, saleID uuid.UUID) ([]loyalty.PromotionGrant, error) {
	var grantModels []models.PromotionGrantModel
	if err := dbFor(ctx, r.db).
		Where("sale_id = ? AND reversed = ?", saleID, false).
		Find(&grantModels).Error; err != nil {
		return nil, err
	}
	result := make([]loyalty.PromotionGrant, len(grantModels))
	for i := range grantModels {
		result[i] = *grantModels[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a promotion grant
func (r *GormPromotionGrantRepository) Save(ctx context.Context, grant *loyalty.PromotionGrant) error {
	var model models.PromotionGrantModel
	model.FromDomain(grant)
	return dbFor(ctx, r.db).Save(&model).Error
}

package persistence

import (
	"context"
	"errors"

	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentEntryRepository implements sales.PaymentEntryRepository using GORM
type GormPaymentEntryRepository struct {
	db *gorm.DB
}

// NewGormPaymentEntryRepository creates a new GormPaymentEntryRepository
func NewGormPaymentEntryRepository(db *gorm.DB) *GormPaymentEntryRepository {
	return &GormPaymentEntryRepository{db: db}
}

// FindByID finds a payment entry by its ID
func (r *GormPaymentEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.PaymentEntry, error) {
	var model models.PaymentEntryModel
	if err := dbFor(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListBySale lists every payment entry of a sale, oldest first
func (r *GormPaymentEntryRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]sales.PaymentEntry, error) {
	var entryModels []models.PaymentEntryModel
	if err := dbFor(ctx, r.db).
		Where("sale_id = ?", saleID).
		Order("paid_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	result := make([]sales.PaymentEntry, len(entryModels))
	for i := range entryModels {
		result[i] = *entryModels[i].ToDomain()
	}
	return result, nil
}

// Save creates or updates a payment entry
func (r *GormPaymentEntryRepository) Save(ctx context.Context, entry *sales.PaymentEntry) error {
	var model models.PaymentEntryModel
	model.FromDomain(entry)
	return dbFor(ctx, r.db).Save(&model).Error
}

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

// GormCancellationRequestRepository implements sales.CancellationRequestRepository using GORM
type GormCancellationRequestRepository struct {
	db *gorm.DB
}

// NewGormCancellationRequestRepository creates a new GormCancellationRequestRepository
func NewGormCancellationRequestRepository(db *gorm.DB) *GormCancellationRequestRepository {
	return &GormCancellationRequestRepository{db: db}
}

// FindByID finds a cancellation request by its ID
func (r *GormCancellationRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.CancellationRequest, error) {
	var model models.CancellationRequestModel
	if err := dbFor(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveBySale returns the sale's PENDING or APPROVED request, or nil
// when none exists. At most one active request may exist per sale.
func (r *GormCancellationRequestRepository) FindActiveBySale(ctx context.Context, saleID uuid.UUID) (*sales.CancellationRequest, error) {
	var model models.CancellationRequestModel
	err := dbFor(ctx, r.db).
		Where("sale_id = ? AND state IN ?", saleID, []sales.CancellationState{
			sales.CancellationPending, sales.CancellationApproved,
		}).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a cancellation request
func (r *GormCancellationRequestRepository) Save(ctx context.Context, request *sales.CancellationRequest) error {
	var model models.CancellationRequestModel
	model.FromDomain(request)
	return dbFor(ctx, r.db).Save(&model).Error
}

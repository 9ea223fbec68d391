package persistence

import (
	"context"

	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Loyalty movement kinds
const (
	MovementAccrual    = "ACCRUAL"
	MovementRedemption = "REDEMPTION"
	MovementBonus      = "BONUS"
	MovementReversal   = "REVERSAL"
)

// GormLoyaltyService implements loyalty.Service over the loyalty_movements
// ledger. History is never mutated; every reversal inserts a compensating
// movement and flags the originals.
type GormLoyaltyService struct {
	db *gorm.DB
}

// NewGormLoyaltyService creates a new GormLoyaltyService
func NewGormLoyaltyService(db *gorm.DB) *GormLoyaltyService {
	return &GormLoyaltyService{db: db}
}

// ReverseAccrual undoes the points the sale accrued and returns how many
// points were reverted
func (s *GormLoyaltyService) ReverseAccrual(ctx context.Context, saleID uuid.UUID) (int64, error) {
	return s.reverseMovements(ctx, saleID, MovementAccrual)
}

// ReverseRedemption returns the points the customer redeemed against the
// sale and reports how many points were returned
func (s *GormLoyaltyService) ReverseRedemption(ctx context.Context, saleID uuid.UUID) (int64, error) {
	reverted, err := s.reverseMovements(ctx, saleID, MovementRedemption)
	if err != nil {
		return 0, err
	}
	// Redemptions carry negative points; the returned count is positive.
	if reverted < 0 {
		return -reverted, nil
	}
	return reverted, nil
}

// ReverseBonus undoes a promotion bonus previously granted against the sale
func (s *GormLoyaltyService) ReverseBonus(ctx context.Context, customerID uuid.UUID, points int64, saleID, promotionID uuid.UUID) error {
	db := dbFor(ctx, s.db)
	compensation := models.LoyaltyMovementModel{
		BaseModel:  models.NewBaseModel(),
		CustomerID: customerID,
		SaleID:     &saleID,
		Points:     -points,
		Kind:       MovementReversal,
	}
	return db.Create(&compensation).Error
}

// reverseMovements flags the sale's active movements of the given kind and
// inserts one compensating row per movement. Returns the total points the
// compensations removed.
func (s *GormLoyaltyService) reverseMovements(ctx context.Context, saleID uuid.UUID, kind string) (int64, error) {
	db := dbFor(ctx, s.db)

	var movements []models.LoyaltyMovementModel
	if err := db.
		Where("sale_id = ? AND kind = ? AND reversed = ?", saleID, kind, false).
		Find(&movements).Error; err != nil {
		return 0, err
	}

	var total int64
	for i := range movements {
		m := &movements[i]
		compensation := models.LoyaltyMovementModel{
			BaseModel:  models.NewBaseModel(),
			CustomerID: m.CustomerID,
			SaleID:     m.SaleID,
			Points:     -m.Points,
			Kind:       MovementReversal,
		}
		if err := db.Create(&compensation).Error; err != nil {
			return total, err
		}
		if err := db.Model(&models.LoyaltyMovementModel{}).
			Where("id = ?", m.ID).
			Update("reversed", true).Error; err != nil {
			return total, err
		}
		total += m.Points
	}
	return total, nil
}

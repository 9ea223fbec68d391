package loyalty

import (
	"time"

	"github.com/agencia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PromotionGrant records a promotion bonus of loyalty points granted to a
// customer against a sale. Grants are reversed, never deleted, when the
// sale is cancelled.
type PromotionGrant struct {
	shared.BaseEntity
	SaleID      uuid.UUID  `json:"sale_id"`
	CustomerID  uuid.UUID  `json:"customer_id"`
	PromotionID uuid.UUID  `json:"promotion_id"`
	Points      int64      `json:"points"`
	Reversed    bool       `json:"reversed"`
	ReversedAt  *time.Time `json:"reversed_at,omitempty"`
}

// NewPromotionGrant grants promotion points to a customer for a sale
func NewPromotionGrant(saleID, customerID, promotionID uuid.UUID, points int64) (*PromotionGrant, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewValidationError("sale ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer ID cannot be empty")
	}
	if promotionID == uuid.Nil {
		return nil, shared.NewValidationError("promotion ID cannot be empty")
	}
	if points <= 0 {
		return nil, shared.NewValidationError("granted points must be positive")
	}
	return &PromotionGrant{
		BaseEntity:  shared.NewBaseEntity(),
		SaleID:      saleID,
		CustomerID:  customerID,
		PromotionID: promotionID,
		Points:      points,
	}, nil
}

// Reverse marks the grant reversed. Reversing twice is rejected so the
// cancellation reversal cannot double-count.
func (g *PromotionGrant) Reverse() error {
	if g.Reversed {
		return shared.NewInvalidTransition("promotion grant is already reversed")
	}
	now := time.Now()
	g.Reversed = true
	g.ReversedAt = &now
	g.UpdatedAt = now
	return nil
}

package loyalty

import (
	"context"

	"github.com/google/uuid"
)

// Service is the loyalty-point collaborator consumed by the cancellation
// reversal. Implementations mutate the customer's point balance; callers
// only care about the counts for the reversal report.
type Service interface {
	// ReverseAccrual undoes the points the sale accrued for the customer
	// and returns how many points were reverted.
	ReverseAccrual(ctx context.Context, saleID uuid.UUID) (int64, error)

	// ReverseRedemption returns the points the customer redeemed against
	// the sale and reports how many points were returned.
	ReverseRedemption(ctx context.Context, saleID uuid.UUID) (int64, error)

	// ReverseBonus undoes a promotion bonus previously granted to the
	// customer against the sale.
	ReverseBonus(ctx context.Context, customerID uuid.UUID, points int64, saleID, promotionID uuid.UUID) error
}

// PromotionGrantRepository persists promotion grants
type PromotionGrantRepository interface {
	ListActiveBySale(ctx context.Context, saleID uuid.UUID) ([]PromotionGrant, error)
	Save(ctx context.Context, grant *PromotionGrant) error
}

package commission

import (
	"context"

	"github.com/google/uuid"
)

// SaleCommissionRepository persists per-sale commission records. Records
// are keyed by (sale, month, year); aggregation reruns update the existing
// row instead of inserting duplicates.
type SaleCommissionRepository interface {
	FindBySaleAndPeriod(ctx context.Context, saleID uuid.UUID, month, year int) (*SaleCommission, error)
	ListBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, month, year int) ([]SaleCommission, error)
	ListActiveBySale(ctx context.Context, saleID uuid.UUID) ([]SaleCommission, error)
	Save(ctx context.Context, record *SaleCommission) error
}

// MonthlyCommissionRepository persists the seller-level monthly rollups
type MonthlyCommissionRepository interface {
	FindBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, month, year int) (*MonthlyCommission, error)
	Save(ctx context.Context, summary *MonthlyCommission) error
}

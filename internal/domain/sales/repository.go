package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SaleRepository persists Sale aggregates. Save performs an optimistic
// version check and returns shared.ErrConcurrencyConflict when the row
// changed underneath the caller.
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]Sale, error)
	Save(ctx context.Context, sale *Sale) error
}

// PaymentEntryRepository persists the payment ledger of a sale
type PaymentEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PaymentEntry, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]PaymentEntry, error)
	Save(ctx context.Context, entry *PaymentEntry) error
}

// CancellationRequestRepository persists cancellation requests
type CancellationRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CancellationRequest, error)
	FindActiveBySale(ctx context.Context, saleID uuid.UUID) (*CancellationRequest, error)
	Save(ctx context.Context, request *CancellationRequest) error
}

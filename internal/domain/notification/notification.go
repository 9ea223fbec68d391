package notification

import (
	"context"
	"time"

	"github.com/agencia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Kind classifies a notification for rendering and filtering
type Kind string

const (
	KindSaleFullySettled     Kind = "SALE_FULLY_SETTLED"
	KindPaymentRegistered    Kind = "PAYMENT_REGISTERED"
	KindPaymentConfirmed     Kind = "PAYMENT_CONFIRMED"
	KindCancellationRequest  Kind = "CANCELLATION_REQUESTED"
	KindCancellationApproved Kind = "CANCELLATION_APPROVED"
	KindCancellationRejected Kind = "CANCELLATION_REJECTED"
	KindSaleCancelled        Kind = "SALE_CANCELLED"
)

// Record is one delivered notification. Rows are append-only; Read is the
// only mutable flag.
type Record struct {
	shared.BaseEntity
	UserID  uuid.UUID  `json:"user_id"`
	Kind    Kind       `json:"kind"`
	Message string     `json:"message"`
	SaleID  *uuid.UUID `json:"sale_id,omitempty"`
	Read    bool       `json:"read"`
	ReadAt  *time.Time `json:"read_at,omitempty"`
}

// NewRecord creates a notification record for a user
func NewRecord(userID uuid.UUID, kind Kind, message string, saleID *uuid.UUID) (*Record, error) {
	if userID == uuid.Nil {
		return nil, shared.NewValidationError("notification target user ID cannot be empty")
	}
	if message == "" {
		return nil, shared.NewValidationError("notification message cannot be empty")
	}
	return &Record{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Kind:       kind,
		Message:    message,
		SaleID:     saleID,
	}, nil
}

// MarkRead flags the record as read
func (r *Record) MarkRead() {
	if r.Read {
		return
	}
	now := time.Now()
	r.Read = true
	r.ReadAt = &now
	r.UpdatedAt = now
}

// Notifier is the fire-and-forget notification sink. Implementations must
// swallow and log delivery failures; callers never see an error.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind Kind, message string, saleID *uuid.UUID)
}

// Repository persists notification records
type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]Record, error)
	Save(ctx context.Context, record *Record) error
}

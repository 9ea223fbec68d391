package sales

import (
	"fmt"
	"time"

	"github.com/agencia/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CancellationState represents the state of a cancellation request
type CancellationState string

const (
	CancellationPending   CancellationState = "PENDING"   // Awaiting approval
	CancellationApproved  CancellationState = "APPROVED"  // Approved, reversal may run
	CancellationRejected  CancellationState = "REJECTED"  // Rejected with a reason
	CancellationCancelled CancellationState = "CANCELLED" // Reversal executed, terminal
)

// IsValid checks if the state is a valid CancellationState
func (s CancellationState) IsValid() bool {
	switch s {
	case CancellationPending, CancellationApproved, CancellationRejected, CancellationCancelled:
		return true
	}
	return false
}

// String returns the string representation of CancellationState
func (s CancellationState) String() string {
	return string(s)
}

// IsActive returns true while the request still blocks new requests for the
// same sale (at most one non-rejected, non-cancelled request per sale).
func (s CancellationState) IsActive() bool {
	return s == CancellationPending || s == CancellationApproved
}

// IsTerminal returns true for states that allow a new request to be opened
func (s CancellationState) IsTerminal() bool {
	return s == CancellationRejected || s == CancellationCancelled
}

// CancellationRequest tracks the approval flow that precedes the
// irreversible cancellation of a sale.
type CancellationRequest struct {
	shared.BaseAggregateRoot
	SaleID          uuid.UUID         `json:"sale_id"`
	State           CancellationState `json:"state"`
	Reason          string            `json:"reason"`
	RequestedBy     uuid.UUID         `json:"requested_by"`
	ApprovedBy      *uuid.UUID        `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CancelledAt     *time.Time        `json:"cancelled_at,omitempty"`
}

// NewCancellationRequest opens a cancellation request for a sale
func NewCancellationRequest(saleID uuid.UUID, reason string, requestedBy uuid.UUID) (*CancellationRequest, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewValidationError("sale ID cannot be empty")
	}
	if reason == "" {
		return nil, shared.NewValidationError("cancellation reason is required")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewValidationError("requesting user ID is required")
	}
	return &CancellationRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		State:             CancellationPending,
		Reason:            reason,
		RequestedBy:       requestedBy,
	}, nil
}

// Approve moves the request PENDING -> APPROVED
func (r *CancellationRequest) Approve(approvedBy uuid.UUID) error {
	if r.State != CancellationPending {
		return shared.NewInvalidTransition(fmt.Sprintf("cannot approve a request in %s state", r.State))
	}
	if approvedBy == uuid.Nil {
		return shared.NewValidationError("approving user ID is required")
	}
	now := time.Now()
	r.State = CancellationApproved
	r.ApprovedBy = &approvedBy
	r.ApprovedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

// Reject moves the request PENDING -> REJECTED with a reason
func (r *CancellationRequest) Reject(rejectedBy uuid.UUID, reason string) error {
	if r.State != CancellationPending {
		return shared.NewInvalidTransition(fmt.Sprintf("cannot reject a request in %s state", r.State))
	}
	if rejectedBy == uuid.Nil {
		return shared.NewValidationError("rejecting user ID is required")
	}
	if reason == "" {
		return shared.NewValidationError("rejection reason is required")
	}
	r.State = CancellationRejected
	r.RejectionReason = reason
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// MarkCancelled stamps the request once the reversal has executed,
// APPROVED -> CANCELLED (terminal)
func (r *CancellationRequest) MarkCancelled() error {
	if r.State != CancellationApproved {
		return shared.NewInvalidTransition(fmt.Sprintf("cannot finalize a request in %s state", r.State))
	}
	now := time.Now()
	r.State = CancellationCancelled
	r.CancelledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()
	return nil
}

package commission

import (
	"fmt"
	"time"

	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentState tags whether a record's commission is fully paid out or
// still carries a pending portion
type PaymentState string

const (
	PaymentStatePaid    PaymentState = "PAID"
	PaymentStatePending PaymentState = "PENDING"
)

// String returns the string representation of PaymentState
func (s PaymentState) String() string {
	return string(s)
}

// SaleCommission is one row per (sale, month, year) capturing a seller's
// entitlement. Records are recomputed in place by the monthly aggregation
// and marked cancelled, never deleted, when the sale is cancelled.
// Invariant: Paid + Pending == Computed at all times.
type SaleCommission struct {
	shared.BaseAggregateRoot
	SaleID      uuid.UUID         `json:"sale_id"`
	SellerID    uuid.UUID         `json:"seller_id"`
	Month       int               `json:"month"`
	Year        int               `json:"year"`
	BaseAmount  valueobject.Money `json:"base_amount"`
	Percentage  decimal.Decimal   `json:"percentage"`
	Computed    valueobject.Money `json:"computed"`
	Paid        valueobject.Money `json:"paid"`
	Pending     valueobject.Money `json:"pending"`
	State       PaymentState      `json:"state"`
	Cancelled   bool              `json:"cancelled"`
	CancelledAt *time.Time        `json:"cancelled_at,omitempty"`
}

// NewSaleCommission creates a commission record for a sale in a period
func NewSaleCommission(
	saleID, sellerID uuid.UUID,
	month, year int,
	baseAmount valueobject.Money,
	percentage decimal.Decimal,
	fullyPaid bool,
) (*SaleCommission, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewValidationError("sale ID cannot be empty")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewValidationError("seller ID cannot be empty")
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if baseAmount.IsNegative() {
		return nil, shared.NewValidationError("base amount cannot be negative")
	}
	if percentage.IsNegative() {
		return nil, shared.NewValidationError("percentage cannot be negative")
	}

	c := &SaleCommission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SaleID:            saleID,
		SellerID:          sellerID,
		Month:             month,
		Year:              year,
	}
	c.apply(baseAmount, percentage, fullyPaid)
	return c, nil
}

// Recalculate overwrites the record's figures in place. Aggregation reruns
// hit the same (sale, month, year) row so repeated recomputation with
// unchanged inputs is byte-identical.
func (c *SaleCommission) Recalculate(baseAmount valueobject.Money, percentage decimal.Decimal, fullyPaid bool) error {
	if c.Cancelled {
		return shared.NewInvalidTransition("cannot recalculate a cancelled commission record")
	}
	if baseAmount.IsNegative() {
		return shared.NewValidationError("base amount cannot be negative")
	}
	if percentage.IsNegative() {
		return shared.NewValidationError("percentage cannot be negative")
	}
	c.apply(baseAmount, percentage, fullyPaid)
	c.IncrementVersion()
	return nil
}

func (c *SaleCommission) apply(baseAmount valueobject.Money, percentage decimal.Decimal, fullyPaid bool) {
	c.BaseAmount = baseAmount
	c.Percentage = percentage
	c.Computed = Compute(baseAmount, percentage)
	c.Paid, c.Pending = Prorate(c.Computed, fullyPaid)
	if fullyPaid {
		c.State = PaymentStatePaid
	} else {
		c.State = PaymentStatePending
	}
	c.UpdatedAt = time.Now()
}

// Cancel marks the record cancelled when its sale is cancelled. The row
// survives for audit; it simply stops counting into monthly totals.
func (c *SaleCommission) Cancel() error {
	if c.Cancelled {
		return shared.NewInvalidTransition(fmt.Sprintf("commission record for sale %s is already cancelled", c.SaleID))
	}
	now := time.Now()
	c.Cancelled = true
	c.CancelledAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return shared.NewValidationError(fmt.Sprintf("month must be between 1 and 12, got %d", month))
	}
	if year < 2000 {
		return shared.NewValidationError(fmt.Sprintf("year %d is out of range", year))
	}
	return nil
}

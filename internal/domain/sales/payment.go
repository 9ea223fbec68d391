package sales

import (
	"fmt"
	"time"

	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents the method of a payment entry
type PaymentMethod string

const (
	PaymentMethodCash           PaymentMethod = "CASH"             // Cash, confirmed automatically at creation
	PaymentMethodTransfer       PaymentMethod = "TRANSFER"         // Bank transfer, voucher-gated
	PaymentMethodCard           PaymentMethod = "CARD"             // Card payment, voucher-gated
	PaymentMethodDeposit        PaymentMethod = "DEPOSIT"          // Bank deposit, voucher-gated
	PaymentMethodCredit         PaymentMethod = "CREDIT"           // Opening on credit, settled by later installments
	PaymentMethodDirectToVendor PaymentMethod = "DIRECT_TO_VENDOR" // Customer paid the vendor directly
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard,
		PaymentMethodDeposit, PaymentMethodCredit, PaymentMethodDirectToVendor:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// RequiresVoucher returns true for methods that need an uploaded voucher
// before an accountant can confirm them
func (m PaymentMethod) RequiresVoucher() bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCard, PaymentMethodDeposit:
		return true
	}
	return false
}

// AutoConfirms returns true for methods confirmed at creation with no human actor
func (m PaymentMethod) AutoConfirms() bool {
	return m == PaymentMethodCash
}

// OpeningOnly returns true for methods only valid as a sale's opening payment
func (m PaymentMethod) OpeningOnly() bool {
	return m == PaymentMethodCredit || m == PaymentMethodDirectToVendor
}

// PaymentEntry represents one installment payment recorded against a sale.
// The constructor is the variant gate: method-specific rules (automatic
// confirmation, voucher requirement, opening-only methods) are enforced
// here instead of being probed at call sites. Entries are never deleted;
// cancelling a sale marks the sale, not its payments.
type PaymentEntry struct {
	shared.BaseEntity
	SaleID          uuid.UUID          `json:"sale_id"`
	Amount          valueobject.Money  `json:"amount"`
	Method          PaymentMethod      `json:"method"`
	Confirmed       bool               `json:"confirmed"`
	ConfirmedBy     *uuid.UUID         `json:"confirmed_by,omitempty"`
	ConfirmedAt     *time.Time         `json:"confirmed_at,omitempty"`
	VoucherUploaded bool               `json:"voucher_uploaded"`
	RegisteredBy    uuid.UUID          `json:"registered_by"`
	PaidAt          time.Time          `json:"paid_at"`
	SourceAmountUSD *decimal.Decimal   `json:"source_amount_usd,omitempty"` // Original USD amount for a cross-currency domestic payment
	AppliedRate     *decimal.Decimal   `json:"applied_rate,omitempty"`      // Rate frozen at entry time
}

// NewPaymentEntry creates an installment payment for a sale. Opening-only
// methods (CREDIT, DIRECT_TO_VENDOR) are rejected here.
func NewPaymentEntry(saleID uuid.UUID, amount valueobject.Money, method PaymentMethod, registeredBy uuid.UUID) (*PaymentEntry, error) {
	if saleID == uuid.Nil {
		return nil, shared.NewValidationError("sale ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown payment method %q", method))
	}
	if method.OpeningOnly() {
		return nil, shared.NewValidationError(fmt.Sprintf("method %s is only valid as an opening payment", method))
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("payment amount must be positive")
	}
	if registeredBy == uuid.Nil {
		return nil, shared.NewValidationError("registering user ID is required")
	}

	now := time.Now()
	entry := &PaymentEntry{
		BaseEntity:   shared.NewBaseEntity(),
		SaleID:       saleID,
		Amount:       amount,
		Method:       method,
		RegisteredBy: registeredBy,
		PaidAt:       now,
	}

	if method.AutoConfirms() {
		entry.Confirmed = true
		entry.ConfirmedAt = &now
	}

	return entry, nil
}

// NewConvertedPaymentEntry creates a domestic installment that was paid in
// USD. The amount is converted exactly once with the supplied rate and
// frozen; the original USD figure and the applied rate are kept for audit.
func NewConvertedPaymentEntry(saleID uuid.UUID, usdAmount valueobject.Money, rate decimal.Decimal, method PaymentMethod, registeredBy uuid.UUID) (*PaymentEntry, error) {
	if usdAmount.Currency() != valueobject.USD {
		return nil, shared.NewValidationError("converted entries start from a USD amount")
	}
	converted, err := usdAmount.ConvertTo(valueobject.MXN, rate)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	entry, err := NewPaymentEntry(saleID, converted, method, registeredBy)
	if err != nil {
		return nil, err
	}
	usd := usdAmount.Amount()
	entry.SourceAmountUSD = &usd
	entry.AppliedRate = &rate
	return entry, nil
}

// AttachVoucher marks the entry's payment voucher as uploaded
func (e *PaymentEntry) AttachVoucher() {
	e.VoucherUploaded = true
	e.UpdatedAt = time.Now()
}

// Confirm transitions the entry UNCONFIRMED -> CONFIRMED. The transition is
// terminal; confirming an already-confirmed entry is an idempotent no-op so
// retries are tolerated without disturbing the confirmation timestamp.
func (e *PaymentEntry) Confirm(confirmedBy uuid.UUID) error {
	if e.Confirmed {
		return nil
	}
	if confirmedBy == uuid.Nil {
		return shared.NewValidationError("confirming user ID is required")
	}
	if e.Method.RequiresVoucher() && !e.VoucherUploaded {
		return shared.NewInvalidTransition("voucher required before confirmation")
	}

	now := time.Now()
	e.Confirmed = true
	e.ConfirmedBy = &confirmedBy
	e.ConfirmedAt = &now
	e.UpdatedAt = now
	return nil
}

// CountsTowardPaid returns true when the entry's amount counts into the
// sale's total paid
func (e *PaymentEntry) CountsTowardPaid() bool {
	return e.Confirmed
}

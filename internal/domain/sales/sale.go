package sales

import (
	"fmt"
	"time"

	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyMode distinguishes domestic (MXN) from international (USD) sales
type CurrencyMode string

const (
	CurrencyModeDomestic      CurrencyMode = "DOMESTIC"      // Figures carried in MXN
	CurrencyModeInternational CurrencyMode = "INTERNATIONAL" // Figures carried in USD, rate is reference-only
)

// IsValid checks if the mode is a known CurrencyMode
func (m CurrencyMode) IsValid() bool {
	return m == CurrencyModeDomestic || m == CurrencyModeInternational
}

// String returns the string representation of CurrencyMode
func (m CurrencyMode) String() string {
	return string(m)
}

// Currency returns the currency figures are carried in for this mode
func (m CurrencyMode) Currency() valueobject.Currency {
	if m == CurrencyModeInternational {
		return valueobject.USD
	}
	return valueobject.MXN
}

// LifecycleState represents the sale's lifecycle
type LifecycleState string

const (
	LifecycleActive    LifecycleState = "ACTIVE"
	LifecycleCancelled LifecycleState = "CANCELLED" // Soft-terminal, the row is never hard-deleted
)

// ConfirmationState tracks how far the sale's money has been confirmed
type ConfirmationState string

const (
	ConfirmationPending        ConfirmationState = "PENDING"         // No confirmed money yet
	ConfirmationInConfirmation ConfirmationState = "IN_CONFIRMATION" // Money registered, awaiting confirmation
	ConfirmationCompleted      ConfirmationState = "COMPLETED"       // Total paid covers the payable total
)

// IsValid checks if the state is a known ConfirmationState
func (s ConfirmationState) IsValid() bool {
	switch s {
	case ConfirmationPending, ConfirmationInConfirmation, ConfirmationCompleted:
		return true
	}
	return false
}

// String returns the string representation of ConfirmationState
func (s ConfirmationState) String() string {
	return string(s)
}

// Sale is the aggregate root for a sold trip. It owns the opening payment
// and the financial reference figures; installment payments live in the
// ledger (PaymentEntry) and are combined with the sale through
// CalculateFinancials.
type Sale struct {
	shared.BaseAggregateRoot
	Mode                  CurrencyMode      `json:"mode"`
	Lifecycle             LifecycleState    `json:"lifecycle"`
	Confirmation          ConfirmationState `json:"confirmation"`
	SoldPrice             decimal.Decimal   `json:"sold_price"`
	ModificationSurcharge decimal.Decimal   `json:"modification_surcharge"`
	LoyaltyDiscount       decimal.Decimal   `json:"loyalty_discount"`
	PromotionDiscount     decimal.Decimal   `json:"promotion_discount"`
	OpeningAmount         decimal.Decimal   `json:"opening_amount"`
	OpeningMethod         PaymentMethod     `json:"opening_method"`
	OpeningConfirmed      bool              `json:"opening_confirmed"`
	OpeningConfirmedBy    *uuid.UUID        `json:"opening_confirmed_by,omitempty"`
	OpeningConfirmedAt    *time.Time        `json:"opening_confirmed_at,omitempty"`
	OpeningVoucher        bool              `json:"opening_voucher"`
	ExchangeRate          decimal.Decimal   `json:"exchange_rate"` // Reference-only, frozen at sale creation
	SellerID              uuid.UUID         `json:"seller_id"`
	CustomerID            uuid.UUID         `json:"customer_id"`
	CancelledAt           *time.Time        `json:"cancelled_at,omitempty"`
}

// NewSale creates a sale with its opening payment. The opening method
// drives the initial confirmation state:
//   - CASH confirms automatically with no human actor
//   - TRANSFER/CARD/DEPOSIT leave the sale IN_CONFIRMATION until an
//     accountant confirms against the uploaded voucher
//   - CREDIT enters IN_CONFIRMATION at zero recorded amount; later
//     installments settle it
//   - DIRECT_TO_VENDOR is synthesized as fully paid and COMPLETED at creation
func NewSale(
	mode CurrencyMode,
	soldPrice valueobject.Money,
	openingAmount valueobject.Money,
	openingMethod PaymentMethod,
	exchangeRate decimal.Decimal,
	sellerID uuid.UUID,
	customerID uuid.UUID,
) (*Sale, error) {
	if !mode.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown currency mode %q", mode))
	}
	if soldPrice.Currency() != mode.Currency() {
		return nil, shared.NewValidationError(fmt.Sprintf("sold price must be in %s for %s sales", mode.Currency(), mode))
	}
	if !soldPrice.IsPositive() {
		return nil, shared.NewValidationError("sold price must be positive")
	}
	if !openingMethod.IsValid() {
		return nil, shared.NewValidationError(fmt.Sprintf("unknown payment method %q", openingMethod))
	}
	if openingAmount.IsNegative() {
		return nil, shared.NewValidationError("opening amount cannot be negative")
	}
	if openingAmount.Currency() != mode.Currency() {
		return nil, shared.NewValidationError("opening amount currency must match the sale currency")
	}
	if exchangeRate.IsNegative() {
		return nil, shared.NewValidationError("exchange rate cannot be negative")
	}
	if sellerID == uuid.Nil {
		return nil, shared.NewValidationError("seller ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer ID cannot be empty")
	}

	s := &Sale{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		Mode:                  mode,
		Lifecycle:             LifecycleActive,
		Confirmation:          ConfirmationPending,
		SoldPrice:             soldPrice.Amount(),
		ModificationSurcharge: decimal.Zero,
		LoyaltyDiscount:       decimal.Zero,
		PromotionDiscount:     decimal.Zero,
		OpeningAmount:         openingAmount.Amount(),
		OpeningMethod:         openingMethod,
		ExchangeRate:          exchangeRate,
		SellerID:              sellerID,
		CustomerID:            customerID,
	}

	now := time.Now()
	switch {
	case openingMethod.AutoConfirms():
		s.OpeningConfirmed = true
		s.OpeningConfirmedAt = &now
	case openingMethod == PaymentMethodCredit:
		// Credit openings carry no recorded money until settled.
		s.OpeningAmount = decimal.Zero
		s.Confirmation = ConfirmationInConfirmation
	case openingMethod == PaymentMethodDirectToVendor:
		s.OpeningAmount = s.payableTotalAmount()
		s.OpeningConfirmed = true
		s.OpeningConfirmedAt = &now
		s.Confirmation = ConfirmationCompleted
	default:
		if openingAmount.IsPositive() {
			s.Confirmation = ConfirmationInConfirmation
		}
	}

	s.AddDomainEvent(NewSaleCreatedEvent(s))
	return s, nil
}

// Currency returns the currency the sale's figures are carried in
func (s *Sale) Currency() valueobject.Currency {
	return s.Mode.Currency()
}

// IsActive returns true if the sale has not been cancelled
func (s *Sale) IsActive() bool {
	return s.Lifecycle == LifecycleActive
}

// IsCancelled returns true if the sale is cancelled
func (s *Sale) IsCancelled() bool {
	return s.Lifecycle == LifecycleCancelled
}

// IsCompleted returns true if the sale's payable total is fully confirmed
func (s *Sale) IsCompleted() bool {
	return s.Confirmation == ConfirmationCompleted
}

func (s *Sale) payableTotalAmount() decimal.Decimal {
	total := s.SoldPrice.Add(s.ModificationSurcharge)
	if s.Mode == CurrencyModeDomestic {
		total = total.Sub(s.LoyaltyDiscount).Sub(s.PromotionDiscount)
	}
	return total
}

// PayableTotal returns the amount the customer must cover:
// sold price + modification surcharge - discounts. Discounts only apply
// to domestic sales.
func (s *Sale) PayableTotal() valueobject.Money {
	m, _ := valueobject.NewMoney(s.payableTotalAmount(), s.Currency())
	return m
}

// AttachOpeningVoucher marks the opening payment's voucher as uploaded
func (s *Sale) AttachOpeningVoucher() {
	s.OpeningVoucher = true
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// ConfirmOpening confirms the opening payment. Idempotent on an already
// confirmed opening; voucher-gated methods require the voucher first.
func (s *Sale) ConfirmOpening(confirmedBy uuid.UUID) error {
	if s.OpeningConfirmed {
		return nil
	}
	if !s.IsActive() {
		return shared.NewInvalidTransition("cannot confirm payments on a cancelled sale")
	}
	if confirmedBy == uuid.Nil {
		return shared.NewValidationError("confirming user ID is required")
	}
	if s.OpeningMethod.RequiresVoucher() && !s.OpeningVoucher {
		return shared.NewInvalidTransition("voucher required before confirmation")
	}

	now := time.Now()
	s.OpeningConfirmed = true
	s.OpeningConfirmedBy = &confirmedBy
	s.OpeningConfirmedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	return nil
}

// ApplySurcharge adds a modification surcharge to the payable total
func (s *Sale) ApplySurcharge(amount valueobject.Money) error {
	if !s.IsActive() {
		return shared.NewInvalidTransition("cannot modify a cancelled sale")
	}
	if amount.Currency() != s.Currency() {
		return shared.NewValidationError("surcharge currency must match the sale currency")
	}
	if amount.IsNegative() {
		return shared.NewValidationError("surcharge cannot be negative")
	}
	s.ModificationSurcharge = s.ModificationSurcharge.Add(amount.Amount())
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ApplyLoyaltyDiscount records a loyalty-point redemption discount.
// International sales carry no discounts.
func (s *Sale) ApplyLoyaltyDiscount(amount valueobject.Money) error {
	return s.applyDiscount(amount, &s.LoyaltyDiscount)
}

// ApplyPromotionDiscount records a promotion discount.
// International sales carry no discounts.
func (s *Sale) ApplyPromotionDiscount(amount valueobject.Money) error {
	return s.applyDiscount(amount, &s.PromotionDiscount)
}

func (s *Sale) applyDiscount(amount valueobject.Money, target *decimal.Decimal) error {
	if !s.IsActive() {
		return shared.NewInvalidTransition("cannot modify a cancelled sale")
	}
	if s.Mode == CurrencyModeInternational {
		return shared.NewValidationError("international sales do not carry discounts")
	}
	if amount.Currency() != s.Currency() {
		return shared.NewValidationError("discount currency must match the sale currency")
	}
	if amount.IsNegative() {
		return shared.NewValidationError("discount cannot be negative")
	}
	*target = target.Add(amount.Amount())
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// ApplyFinancials updates the sale's confirmation state from a freshly
// recomputed financial aggregate. Returns true when the sale transitioned
// to COMPLETED with this application.
func (s *Sale) ApplyFinancials(f Financials) bool {
	if s.Confirmation == ConfirmationCompleted {
		return false
	}
	if f.IsFullyPaid {
		s.Confirmation = ConfirmationCompleted
		s.UpdatedAt = time.Now()
		s.IncrementVersion()
		s.AddDomainEvent(NewSaleFullySettledEvent(s, f))
		return true
	}
	if f.TotalPaid.IsPositive() && s.Confirmation == ConfirmationPending {
		s.Confirmation = ConfirmationInConfirmation
		s.UpdatedAt = time.Now()
		s.IncrementVersion()
	}
	return false
}

// MarkCancelled transitions the sale to its soft-terminal CANCELLED state.
// Rejected with InvalidTransition when already cancelled.
func (s *Sale) MarkCancelled() error {
	if s.IsCancelled() {
		return shared.NewInvalidTransition("sale is already cancelled")
	}
	now := time.Now()
	s.Lifecycle = LifecycleCancelled
	s.CancelledAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleCancelledEvent(s))
	return nil
}

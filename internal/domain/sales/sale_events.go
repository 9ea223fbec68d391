package sales

import (
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the sales aggregate
const (
	EventTypeSaleCreated      = "sale.created"
	EventTypeSaleFullySettled = "sale.fully_settled"
	EventTypeSaleCancelled    = "sale.cancelled"
)

// SaleCreatedEvent is emitted when a sale is created
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	Mode          CurrencyMode    `json:"mode"`
	SoldPrice     decimal.Decimal `json:"sold_price"`
	OpeningMethod PaymentMethod   `json:"opening_method"`
}

// NewSaleCreatedEvent creates a SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCreated, "Sale", s.ID),
		Mode:            s.Mode,
		SoldPrice:       s.SoldPrice,
		OpeningMethod:   s.OpeningMethod,
	}
}

// SaleFullySettledEvent is emitted when total paid reaches the payable total
type SaleFullySettledEvent struct {
	shared.BaseDomainEvent
	TotalPaid    decimal.Decimal `json:"total_paid"`
	PayableTotal decimal.Decimal `json:"payable_total"`
}

// NewSaleFullySettledEvent creates a SaleFullySettledEvent
func NewSaleFullySettledEvent(s *Sale, f Financials) *SaleFullySettledEvent {
	return &SaleFullySettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleFullySettled, "Sale", s.ID),
		TotalPaid:       f.TotalPaid.Amount(),
		PayableTotal:    f.PayableTotal.Amount(),
	}
}

// SaleCancelledEvent is emitted when a sale reaches its terminal CANCELLED state
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
}

// NewSaleCancelledEvent creates a SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, "Sale", s.ID),
	}
}

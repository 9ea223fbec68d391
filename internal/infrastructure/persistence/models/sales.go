package models

import (
	"time"

	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate
type SaleModel struct {
	AggregateModel
	Mode                  sales.CurrencyMode      `gorm:"type:varchar(20);not null"`
	Lifecycle             sales.LifecycleState    `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Confirmation          sales.ConfirmationState `gorm:"type:varchar(20);not null;default:'PENDING'"`
	SoldPrice             decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	ModificationSurcharge decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	LoyaltyDiscount       decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	PromotionDiscount     decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	OpeningAmount         decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	OpeningMethod         sales.PaymentMethod     `gorm:"type:varchar(20);not null"`
	OpeningConfirmed      bool                    `gorm:"not null;default:false"`
	OpeningConfirmedBy    *uuid.UUID              `gorm:"type:uuid"`
	OpeningConfirmedAt    *time.Time              ``
	OpeningVoucher        bool                    `gorm:"not null;default:false"`
	ExchangeRate          decimal.Decimal         `gorm:"type:decimal(12,4);not null;default:0"`
	SellerID              uuid.UUID               `gorm:"type:uuid;not null;index"`
	CustomerID            uuid.UUID               `gorm:"type:uuid;not null;index"`
	CancelledAt           *time.Time              ``
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		Mode:                  m.Mode,
		Lifecycle:             m.Lifecycle,
		Confirmation:          m.Confirmation,
		SoldPrice:             m.SoldPrice,
		ModificationSurcharge: m.ModificationSurcharge,
		LoyaltyDiscount:       m.LoyaltyDiscount,
		PromotionDiscount:     m.PromotionDiscount,
		OpeningAmount:         m.OpeningAmount,
		OpeningMethod:         m.OpeningMethod,
		OpeningConfirmed:      m.OpeningConfirmed,
		OpeningConfirmedBy:    m.OpeningConfirmedBy,
		OpeningConfirmedAt:    m.OpeningConfirmedAt,
		OpeningVoucher:        m.OpeningVoucher,
		ExchangeRate:          m.ExchangeRate,
		SellerID:              m.SellerID,
		CustomerID:            m.CustomerID,
		CancelledAt:           m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain Sale
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Mode = s.Mode
	m.Lifecycle = s.Lifecycle
	m.Confirmation = s.Confirmation
	m.SoldPrice = s.SoldPrice
	m.ModificationSurcharge = s.ModificationSurcharge
	m.LoyaltyDiscount = s.LoyaltyDiscount
	m.PromotionDiscount = s.PromotionDiscount
	m.OpeningAmount = s.OpeningAmount
	m.OpeningMethod = s.OpeningMethod
	m.OpeningConfirmed = s.OpeningConfirmed
	m.OpeningConfirmedBy = s.OpeningConfirmedBy
	m.OpeningConfirmedAt = s.OpeningConfirmedAt
	m.OpeningVoucher = s.OpeningVoucher
	m.ExchangeRate = s.ExchangeRate
	m.SellerID = s.SellerID
	m.CustomerID = s.CustomerID
	m.CancelledAt = s.CancelledAt
}

// PaymentEntryModel is the persistence model for PaymentEntry
type PaymentEntryModel struct {
	BaseModel
	SaleID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Currency        string              `gorm:"type:varchar(3);not null;default:'MXN'"`
	Method          sales.PaymentMethod `gorm:"type:varchar(20);not null"`
	Confirmed       bool                `gorm:"not null;default:false;index"`
	ConfirmedBy     *uuid.UUID          `gorm:"type:uuid"`
	ConfirmedAt     *time.Time          ``
	VoucherUploaded bool                `gorm:"not null;default:false"`
	RegisteredBy    uuid.UUID           `gorm:"type:uuid;not null"`
	PaidAt          time.Time           `gorm:"not null"`
	SourceAmountUSD *decimal.Decimal    `gorm:"type:decimal(18,2)"`
	AppliedRate     *decimal.Decimal    `gorm:"type:decimal(12,4)"`
}

// TableName returns the table name for GORM
func (PaymentEntryModel) TableName() string {
	return "payment_entries"
}

// ToDomain converts the persistence model to a domain PaymentEntry
func (m *PaymentEntryModel) ToDomain() *sales.PaymentEntry {
	amount, _ := valueobject.NewMoney(m.Amount, valueobject.Currency(m.Currency))
	return &sales.PaymentEntry{
		BaseEntity:      m.ToDomainBaseEntity(),
		SaleID:          m.SaleID,
		Amount:          amount,
		Method:          m.Method,
		Confirmed:       m.Confirmed,
		ConfirmedBy:     m.ConfirmedBy,
		ConfirmedAt:     m.ConfirmedAt,
		VoucherUploaded: m.VoucherUploaded,
		RegisteredBy:    m.RegisteredBy,
		PaidAt:          m.PaidAt,
		SourceAmountUSD: m.SourceAmountUSD,
		AppliedRate:     m.AppliedRate,
	}
}

// FromDomain populates the persistence model from a domain PaymentEntry
func (m *PaymentEntryModel) FromDomain(e *sales.PaymentEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.SaleID = e.SaleID
	m.Amount = e.Amount.Amount()
	m.Currency = string(e.Amount.Currency())
	m.Method = e.Method
	m.Confirmed = e.Confirmed
	m.ConfirmedBy = e.ConfirmedBy
	m.ConfirmedAt = e.ConfirmedAt
	m.VoucherUploaded = e.VoucherUploaded
	m.RegisteredBy = e.RegisteredBy
	m.PaidAt = e.PaidAt
	m.SourceAmountUSD = e.SourceAmountUSD
	m.AppliedRate = e.AppliedRate
}

// CancellationRequestModel is the persistence model for CancellationRequest
type CancellationRequestModel struct {
	AggregateModel
	SaleID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	State           sales.CancellationState `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Reason          string                  `gorm:"type:text;not null"`
	RequestedBy     uuid.UUID               `gorm:"type:uuid;not null"`
	ApprovedBy      *uuid.UUID              `gorm:"type:uuid"`
	ApprovedAt      *time.Time              ``
	RejectionReason string                  `gorm:"type:text"`
	CancelledAt     *time.Time              ``
}

// TableName returns the table name for GORM
func (CancellationRequestModel) TableName() string {
	return "cancellation_requests"
}

// ToDomain converts the persistence model to a domain CancellationRequest
func (m *CancellationRequestModel) ToDomain() *sales.CancellationRequest {
	return &sales.CancellationRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SaleID:            m.SaleID,
		State:             m.State,
		Reason:            m.Reason,
		RequestedBy:       m.RequestedBy,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		RejectionReason:   m.RejectionReason,
		CancelledAt:       m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain CancellationRequest
func (m *CancellationRequestModel) FromDomain(r *sales.CancellationRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.SaleID = r.SaleID
	m.State = r.State
	m.Reason = r.Reason
	m.RequestedBy = r.RequestedBy
	m.ApprovedBy = r.ApprovedBy
	m.ApprovedAt = r.ApprovedAt
	m.RejectionReason = r.RejectionReason
	m.CancelledAt = r.CancelledAt
}

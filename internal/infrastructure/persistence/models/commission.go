package models

import (
	"time"

	"github.com/agencia/backend/internal/domain/commission"
	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleCommissionModel is the persistence model for SaleCommission.
// Rows are keyed by (sale, month, year) so aggregation reruns update in
// place instead of inserting duplicates.
type SaleCommissionModel struct {
	AggregateModel
	SaleID      uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_commission_sale_period,priority:1"`
	SellerID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	Month       int                     `gorm:"not null;uniqueIndex:idx_commission_sale_period,priority:2"`
	Year        int                     `gorm:"not null;uniqueIndex:idx_commission_sale_period,priority:3"`
	BaseAmount  decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Percentage  decimal.Decimal         `gorm:"type:decimal(6,2);not null"`
	Computed    decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Paid        decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	Pending     decimal.Decimal         `gorm:"type:decimal(18,2);not null"`
	State       commission.PaymentState `gorm:"type:varchar(10);not null"`
	Cancelled   bool                    `gorm:"not null;default:false;index"`
	CancelledAt *time.Time              ``
}

// TableName returns the table name for GORM
func (SaleCommissionModel) TableName() string {
	return "sale_commissions"
}

// ToDomain converts the persistence model to a domain SaleCommission
func (m *SaleCommissionModel) ToDomain() *commission.SaleCommission {
	currency := valueobject.DefaultCurrency
	base, _ := valueobject.NewMoney(m.BaseAmount, currency)
	computed, _ := valueobject.NewMoney(m.Computed, currency)
	paid, _ := valueobject.NewMoney(m.Paid, currency)
	pending, _ := valueobject.NewMoney(m.Pending, currency)
	return &commission.SaleCommission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SaleID:            m.SaleID,
		SellerID:          m.SellerID,
		Month:             m.Month,
		Year:              m.Year,
		BaseAmount:        base,
		Percentage:        m.Percentage,
		Computed:          computed,
		Paid:              paid,
		Pending:           pending,
		State:             m.State,
		Cancelled:         m.Cancelled,
		CancelledAt:       m.CancelledAt,
	}
}

// FromDomain populates the persistence model from a domain SaleCommission
func (m *SaleCommissionModel) FromDomain(c *commission.SaleCommission) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.SaleID = c.SaleID
	m.SellerID = c.SellerID
	m.Month = c.Month
	m.Year = c.Year
	m.BaseAmount = c.BaseAmount.Amount()
	m.Percentage = c.Percentage
	m.Computed = c.Computed.Amount()
	m.Paid = c.Paid.Amount()
	m.Pending = c.Pending.Amount()
	m.State = c.State
	m.Cancelled = c.Cancelled
	m.CancelledAt = c.CancelledAt
}

// MonthlyCommissionModel is the persistence model for MonthlyCommission
type MonthlyCommissionModel struct {
	AggregateModel
	SellerID          uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_seller_period,priority:1"`
	Month             int                     `gorm:"not null;uniqueIndex:idx_monthly_seller_period,priority:2"`
	Year              int                     `gorm:"not null;uniqueIndex:idx_monthly_seller_period,priority:3"`
	Category          identity.SellerCategory `gorm:"type:varchar(20);not null"`
	TotalSales        decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	AppliedPercentage decimal.Decimal         `gorm:"type:decimal(6,2);not null;default:0"`
	ExtraBonus        decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	PaidTotal         decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	PendingTotal      decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal        decimal.Decimal         `gorm:"type:decimal(18,2);not null;default:0"`
	ManualPercentage  *decimal.Decimal        `gorm:"type:decimal(6,2)"`
	OverriddenBy      *uuid.UUID              `gorm:"type:uuid"`
	OverriddenAt      *time.Time              ``
	OverrideReason    string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MonthlyCommissionModel) TableName() string {
	return "monthly_commissions"
}

// ToDomain converts the persistence model to a domain MonthlyCommission
func (m *MonthlyCommissionModel) ToDomain() *commission.MonthlyCommission {
	currency := valueobject.DefaultCurrency
	totalSales, _ := valueobject.NewMoney(m.TotalSales, currency)
	extraBonus, _ := valueobject.NewMoney(m.ExtraBonus, currency)
	paidTotal, _ := valueobject.NewMoney(m.PaidTotal, currency)
	pendingTotal, _ := valueobject.NewMoney(m.PendingTotal, currency)
	grandTotal, _ := valueobject.NewMoney(m.GrandTotal, currency)
	return &commission.MonthlyCommission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SellerID:          m.SellerID,
		Month:             m.Month,
		Year:              m.Year,
		Category:          m.Category,
		TotalSales:        totalSales,
		AppliedPercentage: m.AppliedPercentage,
		ExtraBonus:        extraBonus,
		PaidTotal:         paidTotal,
		PendingTotal:      pendingTotal,
		GrandTotal:        grandTotal,
		ManualPercentage:  m.ManualPercentage,
		OverriddenBy:      m.OverriddenBy,
		OverriddenAt:      m.OverriddenAt,
		OverrideReason:    m.OverrideReason,
	}
}

// FromDomain populates the persistence model from a domain MonthlyCommission
func (m *MonthlyCommissionModel) FromDomain(c *commission.MonthlyCommission) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.SellerID = c.SellerID
	m.Month = c.Month
	m.Year = c.Year
	m.Category = c.Category
	m.TotalSales = c.TotalSales.Amount()
	m.AppliedPercentage = c.AppliedPercentage
	m.ExtraBonus = c.ExtraBonus.Amount()
	m.PaidTotal = c.PaidTotal.Amount()
	m.PendingTotal = c.PendingTotal.Amount()
	m.GrandTotal = c.GrandTotal.Amount()
	m.ManualPercentage = c.ManualPercentage
	m.OverriddenBy = c.OverriddenBy
	m.OverriddenAt = c.OverriddenAt
	m.OverrideReason = c.OverrideReason
}

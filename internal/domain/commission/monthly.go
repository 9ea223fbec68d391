package commission

import (
	"time"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlyCommission is the seller-level rollup for one (seller, month,
// year, category). It is created lazily on the first recalculation request
// for a period and overwritten wholesale on every recompute. The manual
// percentage override persists across recomputations until cleared.
type MonthlyCommission struct {
	shared.BaseAggregateRoot
	SellerID          uuid.UUID               `json:"seller_id"`
	Month             int                     `json:"month"`
	Year              int                     `json:"year"`
	Category          identity.SellerCategory `json:"category"`
	TotalSales        valueobject.Money       `json:"total_sales"`
	AppliedPercentage decimal.Decimal         `json:"applied_percentage"`
	ExtraBonus        valueobject.Money       `json:"extra_bonus"`
	PaidTotal         valueobject.Money       `json:"paid_total"`
	PendingTotal      valueobject.Money       `json:"pending_total"`
	GrandTotal        valueobject.Money       `json:"grand_total"`
	ManualPercentage  *decimal.Decimal        `json:"manual_percentage,omitempty"`
	OverriddenBy      *uuid.UUID              `json:"overridden_by,omitempty"`
	OverriddenAt      *time.Time              `json:"overridden_at,omitempty"`
	OverrideReason    string                  `json:"override_reason,omitempty"`
}

// NewMonthlyCommission creates an empty monthly summary for a period
func NewMonthlyCommission(sellerID uuid.UUID, month, year int, category identity.SellerCategory) (*MonthlyCommission, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewValidationError("seller ID cannot be empty")
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, shared.NewValidationError("unknown seller category " + category.String())
	}
	currency := valueobject.DefaultCurrency
	return &MonthlyCommission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Month:             month,
		Year:              year,
		Category:          category,
		TotalSales:        valueobject.Zero(currency),
		ExtraBonus:        valueobject.Zero(currency),
		PaidTotal:         valueobject.Zero(currency),
		PendingTotal:      valueobject.Zero(currency),
		GrandTotal:        valueobject.Zero(currency),
	}, nil
}

// ApplyTotals overwrites the summary's derived figures from a fresh
// aggregation pass. The grand total is the sum of the period's commission
// records plus the extra bonus.
func (m *MonthlyCommission) ApplyTotals(
	totalSales valueobject.Money,
	appliedPercentage decimal.Decimal,
	extraBonus valueobject.Money,
	paidTotal valueobject.Money,
	pendingTotal valueobject.Money,
) {
	m.TotalSales = totalSales
	m.AppliedPercentage = appliedPercentage
	m.ExtraBonus = extraBonus
	m.PaidTotal = paidTotal
	m.PendingTotal = pendingTotal
	m.GrandTotal = paidTotal.MustAdd(pendingTotal).MustAdd(extraBonus)
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

// SetManualPercentage assigns a manual commission percentage. Only ISLAND
// sellers support this; the override survives recomputation until cleared.
func (m *MonthlyCommission) SetManualPercentage(percentage decimal.Decimal, overriddenBy uuid.UUID, reason string) error {
	if m.Category != identity.CategoryIsland {
		return shared.NewValidationError("manual percentage overrides only apply to ISLAND sellers")
	}
	if percentage.IsNegative() {
		return shared.NewValidationError("manual percentage cannot be negative")
	}
	if overriddenBy == uuid.Nil {
		return shared.NewValidationError("overriding user ID is required")
	}
	if reason == "" {
		return shared.NewValidationError("override reason is required")
	}
	now := time.Now()
	m.ManualPercentage = &percentage
	m.OverriddenBy = &overriddenBy
	m.OverriddenAt = &now
	m.OverrideReason = reason
	m.UpdatedAt = now
	m.IncrementVersion()
	return nil
}

// ClearManualPercentage removes the manual override; the seller falls back
// to the category default on the next recompute.
func (m *MonthlyCommission) ClearManualPercentage() {
	m.ManualPercentage = nil
	m.OverriddenBy = nil
	m.OverriddenAt = nil
	m.OverrideReason = ""
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
}

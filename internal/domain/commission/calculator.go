package commission

import (
	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Monthly volume thresholds (in the sale currency's units) for the tiered
// percentage table and the extra bonus.
var (
	tierThresholds = []struct {
		below decimal.Decimal
		rate  decimal.Decimal
	}{
		{decimal.NewFromInt(100_000), decimal.NewFromInt(1)},
		{decimal.NewFromInt(200_000), decimal.NewFromInt(2)},
		{decimal.NewFromInt(300_000), decimal.NewFromInt(3)},
		{decimal.NewFromInt(400_000), decimal.NewFromInt(4)},
	}
	tierCeilingRate = decimal.NewFromInt(5)

	fieldRate = decimal.NewFromInt(4)

	bonusThreshold = decimal.NewFromInt(500_000)
	bonusRate      = decimal.NewFromInt(1)

	paidShare = decimal.NewFromFloat(0.30)
)

// TieredRate returns the percentage for a cumulative monthly sales volume:
// <100k 1%, <200k 2%, <300k 3%, <400k 4%, then a 5% ceiling.
func TieredRate(monthlyVolume decimal.Decimal) decimal.Decimal {
	for _, tier := range tierThresholds {
		if monthlyVolume.LessThan(tier.below) {
			return tier.rate
		}
	}
	return tierCeilingRate
}

// RateFor resolves the commission percentage for a seller category given the
// seller's cumulative paid sales volume for the period. manualOverride only
// applies to ISLAND sellers, whose automatic computation is suppressed
// entirely (they default to 0% until a manager assigns a percentage).
func RateFor(category identity.SellerCategory, monthlyVolume decimal.Decimal, manualOverride *decimal.Decimal) decimal.Decimal {
	switch {
	case category == identity.CategoryField:
		return fieldRate
	case category == identity.CategoryIsland:
		if manualOverride != nil {
			return *manualOverride
		}
		return decimal.Zero
	case category.IsTiered():
		return TieredRate(monthlyVolume)
	}
	return decimal.Zero
}

// BonusFor returns the extra 1% bonus on total monthly volume once it
// crosses the 500,000 threshold. The bonus is additive on top of the tiered
// percentage and only applies to tiered categories.
func BonusFor(category identity.SellerCategory, monthlyVolume valueobject.Money) valueobject.Money {
	if !category.IsTiered() {
		return valueobject.Zero(monthlyVolume.Currency())
	}
	if monthlyVolume.Amount().LessThan(bonusThreshold) {
		return valueobject.Zero(monthlyVolume.Currency())
	}
	return monthlyVolume.CalculatePercentage(bonusRate).Round(2)
}

// Compute applies a percentage to a sale's base amount and returns the
// computed commission rounded to cents.
func Compute(baseAmount valueobject.Money, percentage decimal.Decimal) valueobject.Money {
	return baseAmount.CalculatePercentage(percentage).Round(2)
}

// Prorate splits a computed commission into its paid and pending portions.
// A fully paid sale pays the whole commission immediately; otherwise the
// fixed 30/70 split applies. The pending portion is derived by subtraction
// so paid + pending always equals the computed commission exactly.
func Prorate(computed valueobject.Money, fullyPaid bool) (paid, pending valueobject.Money) {
	if fullyPaid {
		return computed, valueobject.Zero(computed.Currency())
	}
	paid = computed.Multiply(paidShare).Round(2)
	pending = computed.MustSubtract(paid)
	return paid, pending
}

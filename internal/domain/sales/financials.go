package sales

import (
	"github.com/agencia/backend/internal/domain/shared/valueobject"
)

// Financials is the derived financial aggregate of a sale. It is always
// recomputed wholesale from the sale and its ledger entries inside the
// transaction that reads them - never patched incrementally - so repeated
// recomputation cannot drift.
type Financials struct {
	TotalPaid    valueobject.Money `json:"total_paid"`
	PayableTotal valueobject.Money `json:"payable_total"`
	Outstanding  valueobject.Money `json:"outstanding"` // Raw value, may be negative on overpayment
	IsFullyPaid  bool              `json:"is_fully_paid"`
}

// OutstandingDisplay returns the outstanding balance clamped at zero for
// presentation. Reconciliation uses the raw Outstanding value.
func (f Financials) OutstandingDisplay() valueobject.Money {
	return f.Outstanding.ClampAtZero()
}

// CalculateFinancials derives the financial aggregate for a sale from its
// payment entries. Only confirmed entries count; the opening payment counts
// once confirmed. The result is deterministic regardless of entry order.
func CalculateFinancials(s *Sale, entries []PaymentEntry) Financials {
	currency := s.Currency()
	totalPaid := valueobject.Zero(currency)

	if s.OpeningConfirmed {
		opening, _ := valueobject.NewMoney(s.OpeningAmount, currency)
		totalPaid = totalPaid.MustAdd(opening)
	}
	for i := range entries {
		if entries[i].CountsTowardPaid() {
			totalPaid = totalPaid.MustAdd(entries[i].Amount)
		}
	}

	payable := s.PayableTotal()
	outstanding := payable.MustSubtract(totalPaid)
	fullyPaid, _ := totalPaid.GreaterThanOrEqual(payable)

	return Financials{
		TotalPaid:    totalPaid,
		PayableTotal: payable,
		Outstanding:  outstanding,
		IsFullyPaid:  fullyPaid,
	}
}

package commission

import (
	"context"
	"fmt"
	"time"

	"github.com/agencia/backend/internal/domain/commission"
	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SellerDirectory resolves the commission category of a seller
type SellerDirectory interface {
	CategoryOf(ctx context.Context, sellerID uuid.UUID) (identity.SellerCategory, error)
}

// MonthlyService computes the per-sale commission records and the monthly
// rollup for a (seller, month, year) period. Recalculation is idempotent:
// existing records are overwritten in place keyed by (sale, month, year),
// and rerunning with unchanged inputs produces identical totals.
type MonthlyService struct {
	saleRepo    sales.SaleRepository
	entryRepo   sales.PaymentEntryRepository
	recordRepo  commission.SaleCommissionRepository
	monthlyRepo commission.MonthlyCommissionRepository
	sellers     SellerDirectory
	uow         shared.UnitOfWork
	logger      *zap.Logger
}

// NewMonthlyService creates a new MonthlyService
func NewMonthlyService(
	saleRepo sales.SaleRepository,
	entryRepo sales.PaymentEntryRepository,
	recordRepo commission.SaleCommissionRepository,
	monthlyRepo commission.MonthlyCommissionRepository,
	sellers SellerDirectory,
	uow shared.UnitOfWork,
	logger *zap.Logger,
) *MonthlyService {
	return &MonthlyService{
		saleRepo:    saleRepo,
		entryRepo:   entryRepo,
		recordRepo:  recordRepo,
		monthlyRepo: monthlyRepo,
		sellers:     sellers,
		uow:         uow,
		logger:      logger,
	}
}

// MonthlyResult reports the rollup after a recalculation
type MonthlyResult struct {
	SellerID          uuid.UUID                  `json:"seller_id"`
	Month             int                        `json:"month"`
	Year              int                        `json:"year"`
	Category          identity.SellerCategory    `json:"category"`
	TotalSales        valueobject.Money          `json:"total_sales"`
	AppliedPercentage decimal.Decimal            `json:"applied_percentage"`
	ExtraBonus        valueobject.Money          `json:"extra_bonus"`
	PaidTotal         valueobject.Money          `json:"paid_total"`
	PendingTotal      valueobject.Money          `json:"pending_total"`
	GrandTotal        valueobject.Money          `json:"grand_total"`
	ManualPercentage  *decimal.Decimal           `json:"manual_percentage,omitempty"`
	Records           []commission.SaleCommission `json:"records,omitempty"`
}

// Recalculate rebuilds the seller's commission records and monthly summary
// for a period. Sales are attributed to the period by creation date. The
// ISLAND manual override, when present, survives the recompute and is
// re-applied until explicitly cleared.
func (s *MonthlyService) Recalculate(ctx context.Context, sellerID uuid.UUID, month, year int) error {
	_, err := s.RecalculateWithResult(ctx, sellerID, month, year)
	return err
}

// RecalculateWithResult recalculates the period and returns the rollup
func (s *MonthlyService) RecalculateWithResult(ctx context.Context, sellerID uuid.UUID, month, year int) (*MonthlyResult, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewValidationError("seller ID cannot be empty")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewValidationError(fmt.Sprintf("month must be between 1 and 12, got %d", month))
	}

	category, err := s.sellers.CategoryOf(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	var result *MonthlyResult
	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		result, err = s.recalculate(txCtx, sellerID, month, year, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("monthly commission recalculated",
		zap.String("seller_id", sellerID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.String("category", category.String()),
		zap.String("grand_total", result.GrandTotal.String()))
	return result, nil
}

func (s *MonthlyService) recalculate(ctx context.Context, sellerID uuid.UUID, month, year int, category identity.SellerCategory) (*MonthlyResult, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	periodSales, err := s.saleRepo.FindBySellerAndPeriod(ctx, sellerID, from, to)
	if err != nil {
		return nil, err
	}

	summary, err := s.monthlyRepo.FindBySellerAndPeriod(ctx, sellerID, month, year)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		summary, err = commission.NewMonthlyCommission(sellerID, month, year, category)
		if err != nil {
			return nil, err
		}
	}

	type saleFigures struct {
		sale      *sales.Sale
		base      valueobject.Money
		fullyPaid bool
	}

	currency := valueobject.DefaultCurrency
	totalSales := valueobject.Zero(currency)
	figures := make([]saleFigures, 0, len(periodSales))

	for i := range periodSales {
		sale := &periodSales[i]
		if !sale.IsActive() {
			continue
		}
		base, ok := s.commissionBase(sale)
		if !ok {
			continue
		}
		entries, err := s.entryRepo.ListBySale(ctx, sale.ID)
		if err != nil {
			return nil, err
		}
		f := sales.CalculateFinancials(sale, entries)
		figures = append(figures, saleFigures{sale: sale, base: base, fullyPaid: f.IsFullyPaid})
		totalSales = totalSales.MustAdd(base)
	}

	percentage := commission.RateFor(category, totalSales.Amount(), summary.ManualPercentage)
	bonus := commission.BonusFor(category, totalSales)

	paidTotal := valueobject.Zero(currency)
	pendingTotal := valueobject.Zero(currency)
	records := make([]commission.SaleCommission, 0, len(figures))

	for _, fig := range figures {
		record, err := s.recordRepo.FindBySaleAndPeriod(ctx, fig.sale.ID, month, year)
		if err != nil {
			return nil, err
		}
		if record == nil {
			record, err = commission.NewSaleCommission(fig.sale.ID, sellerID, month, year, fig.base, percentage, fig.fullyPaid)
			if err != nil {
				return nil, err
			}
		} else if !record.Cancelled {
			if err := record.Recalculate(fig.base, percentage, fig.fullyPaid); err != nil {
				return nil, err
			}
		}
		if err := s.recordRepo.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to save commission record: %w", err)
		}
		if !record.Cancelled {
			paidTotal = paidTotal.MustAdd(record.Paid)
			pendingTotal = pendingTotal.MustAdd(record.Pending)
		}
		records = append(records, *record)
	}

	summary.ApplyTotals(totalSales, percentage, bonus, paidTotal, pendingTotal)
	if err := s.monthlyRepo.Save(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save monthly commission: %w", err)
	}

	return &MonthlyResult{
		SellerID:          sellerID,
		Month:             month,
		Year:              year,
		Category:          category,
		TotalSales:        summary.TotalSales,
		AppliedPercentage: summary.AppliedPercentage,
		ExtraBonus:        summary.ExtraBonus,
		PaidTotal:         summary.PaidTotal,
		PendingTotal:      summary.PendingTotal,
		GrandTotal:        summary.GrandTotal,
		ManualPercentage:  summary.ManualPercentage,
		Records:           records,
	}, nil
}

// commissionBase returns the sale's payable total in the rollup currency.
// International sales are converted with their frozen reference rate; a
// sale without a usable rate is excluded from the rollup.
func (s *MonthlyService) commissionBase(sale *sales.Sale) (valueobject.Money, bool) {
	payable := sale.PayableTotal()
	if sale.Mode == sales.CurrencyModeDomestic {
		return payable, true
	}
	converted, err := payable.ConvertTo(valueobject.DefaultCurrency, sale.ExchangeRate)
	if err != nil {
		s.logger.Warn("excluding international sale without a usable exchange rate",
			zap.String("sale_id", sale.ID.String()),
			zap.String("rate", sale.ExchangeRate.String()))
		return valueobject.Money{}, false
	}
	return converted, true
}

// SetManualPercentage assigns an ISLAND seller's manual percentage for a
// period and recomputes the rollup with it.
func (s *MonthlyService) SetManualPercentage(ctx context.Context, actor identity.ActorContext, sellerID uuid.UUID, month, year int, percentage decimal.Decimal, reason string) (*MonthlyResult, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if !actor.Role.CanOverrideCommission() {
		return nil, shared.ErrForbidden
	}

	category, err := s.sellers.CategoryOf(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	var result *MonthlyResult
	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		summary, err := s.monthlyRepo.FindBySellerAndPeriod(txCtx, sellerID, month, year)
		if err != nil {
			return err
		}
		if summary == nil {
			summary, err = commission.NewMonthlyCommission(sellerID, month, year, category)
			if err != nil {
				return err
			}
		}
		if err := summary.SetManualPercentage(percentage, actor.UserID, reason); err != nil {
			return err
		}
		if err := s.monthlyRepo.Save(txCtx, summary); err != nil {
			return fmt.Errorf("failed to save monthly commission: %w", err)
		}
		result, err = s.recalculate(txCtx, sellerID, month, year, category)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual commission percentage assigned",
		zap.String("seller_id", sellerID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.String("percentage", percentage.String()),
		zap.String("overridden_by", actor.UserID.String()))
	return result, nil
}

// ClearManualPercentage removes the manual override and recomputes the
// rollup with the category default.
func (s *MonthlyService) ClearManualPercentage(ctx context.Context, actor identity.ActorContext, sellerID uuid.UUID, month, year int) (*MonthlyResult, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if !actor.Role.CanOverrideCommission() {
		return nil, shared.ErrForbidden
	}

	category, err := s.sellers.CategoryOf(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	var result *MonthlyResult
	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		summary, err := s.monthlyRepo.FindBySellerAndPeriod(txCtx, sellerID, month, year)
		if err != nil {
			return err
		}
		if summary == nil {
			return shared.ErrNotFound
		}
		summary.ClearManualPercentage()
		if err := s.monthlyRepo.Save(txCtx, summary); err != nil {
			return fmt.Errorf("failed to save monthly commission: %w", err)
		}
		result, err = s.recalculate(txCtx, sellerID, month, year, category)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetMonthly returns the stored rollup for a period without recomputing it
func (s *MonthlyService) GetMonthly(ctx context.Context, sellerID uuid.UUID, month, year int) (*MonthlyResult, error) {
	summary, err := s.monthlyRepo.FindBySellerAndPeriod(ctx, sellerID, month, year)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, shared.ErrNotFound
	}
	records, err := s.recordRepo.ListBySellerAndPeriod(ctx, sellerID, month, year)
	if err != nil {
		return nil, err
	}
	return &MonthlyResult{
		SellerID:          summary.SellerID,
		Month:             summary.Month,
		Year:              summary.Year,
		Category:          summary.Category,
		TotalSales:        summary.TotalSales,
		AppliedPercentage: summary.AppliedPercentage,
		ExtraBonus:        summary.ExtraBonus,
		PaidTotal:         summary.PaidTotal,
		PendingTotal:      summary.PendingTotal,
		GrandTotal:        summary.GrandTotal,
		ManualPercentage:  summary.ManualPercentage,
		Records:           records,
	}, nil
}

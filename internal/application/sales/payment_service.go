package sales

import (
	"context"
	"fmt"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/notification"
	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentService drives the payment side of a sale: creating the sale with
// its opening payment, registering installments, attaching vouchers and
// confirming entries. Every mutation runs inside one transaction and ends
// with a wholesale recomputation of the sale's financial aggregate.
type PaymentService struct {
	saleRepo  sales.SaleRepository
	entryRepo sales.PaymentEntryRepository
	uow       shared.UnitOfWork
	notifier  notification.Notifier
	logger    *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	saleRepo sales.SaleRepository,
	entryRepo sales.PaymentEntryRepository,
	uow shared.UnitOfWork,
	notifier notification.Notifier,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		saleRepo:  saleRepo,
		entryRepo: entryRepo,
		uow:       uow,
		notifier:  notifier,
		logger:    logger,
	}
}

// CreateSaleRequest carries the data to open a sale with its opening payment
type CreateSaleRequest struct {
	Mode          sales.CurrencyMode
	SoldPrice     decimal.Decimal
	OpeningAmount decimal.Decimal
	OpeningMethod sales.PaymentMethod
	ExchangeRate  decimal.Decimal
	SellerID      uuid.UUID
	CustomerID    uuid.UUID
}

// RegisterPaymentRequest carries the data to record one installment
type RegisterPaymentRequest struct {
	SaleID uuid.UUID
	Amount decimal.Decimal
	Method sales.PaymentMethod
	// USDRate, when set on a DOMESTIC sale, marks the installment as paid
	// in USD: Amount is the USD figure and it is converted once at this
	// rate, then frozen.
	USDRate *decimal.Decimal
}

// PaymentResult reports the sale's financial position after a mutation
type PaymentResult struct {
	SaleID       uuid.UUID               `json:"sale_id"`
	EntryID      *uuid.UUID              `json:"entry_id,omitempty"`
	Confirmation sales.ConfirmationState `json:"confirmation"`
	TotalPaid    valueobject.Money       `json:"total_paid"`
	PayableTotal valueobject.Money       `json:"payable_total"`
	Outstanding  valueobject.Money       `json:"outstanding"`
	IsFullyPaid  bool                    `json:"is_fully_paid"`
}

// CreateSale opens a sale with its opening payment
func (s *PaymentService) CreateSale(ctx context.Context, actor identity.ActorContext, req CreateSaleRequest) (*PaymentResult, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}

	currency := req.Mode.Currency()
	soldPrice, err := valueobject.NewMoney(req.SoldPrice, currency)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	opening, err := valueobject.NewMoney(req.OpeningAmount, currency)
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}

	sale, err := sales.NewSale(req.Mode, soldPrice, opening, req.OpeningMethod, req.ExchangeRate, req.SellerID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	var result *PaymentResult
	err = s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		f := sales.CalculateFinancials(sale, nil)
		settled := sale.ApplyFinancials(f)
		if err := s.saleRepo.Save(txCtx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if settled {
			s.notifySettled(txCtx, sale)
		}
		result = s.buildResult(sale, nil, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("mode", sale.Mode.String()),
		zap.String("opening_method", sale.OpeningMethod.String()),
		zap.String("confirmation", sale.Confirmation.String()))
	return result, nil
}

// RegisterPayment records an installment payment against a sale and
// recomputes the financial aggregate. CASH entries count immediately;
// voucher-gated methods wait for confirmation.
func (s *PaymentService) RegisterPayment(ctx context.Context, actor identity.ActorContext, req RegisterPaymentRequest) (*PaymentResult, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}

	var result *PaymentResult
	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.FindByID(txCtx, req.SaleID)
		if err != nil {
			return err
		}
		if !sale.IsActive() {
			return shared.NewInvalidTransition("cannot register payments on a cancelled sale")
		}

		entry, err := s.buildEntry(sale, req, actor.UserID)
		if err != nil {
			return err
		}
		if err := s.entryRepo.Save(txCtx, entry); err != nil {
			return fmt.Errorf("failed to save payment entry: %w", err)
		}

		f, settled, err := s.recompute(txCtx, sale)
		if err != nil {
			return err
		}
		message := fmt.Sprintf("Payment of %s (%s) registered on sale %s", req.Amount.StringFixed(2), req.Method, sale.ID)
		if !entry.Confirmed {
			message += ", pending confirmation"
		}
		s.notifier.Notify(txCtx, sale.SellerID, notification.KindPaymentRegistered, message, &sale.ID)
		if settled {
			s.notifySettled(txCtx, sale)
		}
		result = s.buildResult(sale, &entry.ID, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment registered",
		zap.String("sale_id", req.SaleID.String()),
		zap.String("method", req.Method.String()),
		zap.String("amount", req.Amount.String()))
	return result, nil
}

// ConfirmPayment confirms a voucher-gated installment. Confirming an
// already confirmed entry is an idempotent no-op that still returns the
// current financial position.
func (s *PaymentService) ConfirmPayment(ctx context.Context, actor identity.ActorContext, entryID uuid.UUID) (*PaymentResult, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if !actor.Role.CanConfirmPayments() {
		return nil, shared.ErrForbidden
	}

	var result *PaymentResult
	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		entry, err := s.entryRepo.FindByID(txCtx, entryID)
		if err != nil {
			return err
		}
		sale, err := s.saleRepo.FindByID(txCtx, entry.SaleID)
		if err != nil {
			return err
		}
		if !sale.IsActive() {
			return shared.NewInvalidTransition("cannot confirm payments on a cancelled sale")
		}

		alreadyConfirmed := entry.Confirmed
		if err := entry.Confirm(actor.UserID); err != nil {
			return err
		}
		if !alreadyConfirmed {
			if err := s.entryRepo.Save(txCtx, entry); err != nil {
				return fmt.Errorf("failed to save payment entry: %w", err)
			}
			s.notifier.Notify(txCtx, sale.SellerID, notification.KindPaymentConfirmed,
				fmt.Sprintf("Payment of %s confirmed on sale %s", entry.Amount.Amount().StringFixed(2), sale.ID), &sale.ID)
		}

		f, settled, err := s.recompute(txCtx, sale)
		if err != nil {
			return err
		}
		if settled {
			s.notifySettled(txCtx, sale)
		}
		result = s.buildResult(sale, &entry.ID, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment confirmed",
		zap.String("entry_id", entryID.String()),
		zap.String("confirmed_by", actor.UserID.String()))
	return result, nil
}

// ConfirmOpening confirms a sale's opening payment
func (s *PaymentService) ConfirmOpening(ctx context.Context, actor identity.ActorContext, saleID uuid.UUID) (*PaymentResult, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if !actor.Role.CanConfirmPayments() {
		return nil, shared.ErrForbidden
	}

	var result *PaymentResult
	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.FindByID(txCtx, saleID)
		if err != nil {
			return err
		}
		if err := sale.ConfirmOpening(actor.UserID); err != nil {
			return err
		}

		f, settled, err := s.recompute(txCtx, sale)
		if err != nil {
			return err
		}
		if settled {
			s.notifySettled(txCtx, sale)
		}
		result = s.buildResult(sale, nil, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("opening payment confirmed", zap.String("sale_id", saleID.String()))
	return result, nil
}

// AttachVoucher marks an installment's voucher as uploaded
func (s *PaymentService) AttachVoucher(ctx context.Context, actor identity.ActorContext, entryID uuid.UUID) error {
	if actor.IsZero() {
		return shared.ErrUnauthorized
	}
	return s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		entry, err := s.entryRepo.FindByID(txCtx, entryID)
		if err != nil {
			return err
		}
		entry.AttachVoucher()
		return s.entryRepo.Save(txCtx, entry)
	})
}

// AttachOpeningVoucher marks the opening payment's voucher as uploaded
func (s *PaymentService) AttachOpeningVoucher(ctx context.Context, actor identity.ActorContext, saleID uuid.UUID) error {
	if actor.IsZero() {
		return shared.ErrUnauthorized
	}
	return s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.FindByID(txCtx, saleID)
		if err != nil {
			return err
		}
		sale.AttachOpeningVoucher()
		return s.saleRepo.Save(txCtx, sale)
	})
}

// GetFinancials derives the current financial position of a sale
func (s *PaymentService) GetFinancials(ctx context.Context, saleID uuid.UUID) (*PaymentResult, error) {
	sale, err := s.saleRepo.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	f := sales.CalculateFinancials(sale, entries)
	return s.buildResult(sale, nil, f), nil
}

func (s *PaymentService) buildEntry(sale *sales.Sale, req RegisterPaymentRequest, registeredBy uuid.UUID) (*sales.PaymentEntry, error) {
	if req.USDRate != nil {
		if sale.Mode != sales.CurrencyModeDomestic {
			return nil, shared.NewValidationError("USD conversion only applies to domestic sales")
		}
		usdAmount, err := valueobject.NewMoney(req.Amount, valueobject.USD)
		if err != nil {
			return nil, shared.NewValidationError(err.Error())
		}
		return sales.NewConvertedPaymentEntry(sale.ID, usdAmount, *req.USDRate, req.Method, registeredBy)
	}
	amount, err := valueobject.NewMoney(req.Amount, sale.Currency())
	if err != nil {
		return nil, shared.NewValidationError(err.Error())
	}
	return sales.NewPaymentEntry(sale.ID, amount, req.Method, registeredBy)
}

// recompute rebuilds the sale's financial aggregate from its ledger and
// persists the resulting state. Returns true when the sale just settled.
func (s *PaymentService) recompute(ctx context.Context, sale *sales.Sale) (sales.Financials, bool, error) {
	entries, err := s.entryRepo.ListBySale(ctx, sale.ID)
	if err != nil {
		return sales.Financials{}, false, err
	}
	f := sales.CalculateFinancials(sale, entries)
	settled := sale.ApplyFinancials(f)
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return sales.Financials{}, false, fmt.Errorf("failed to save sale: %w", err)
	}
	return f, settled, nil
}

func (s *PaymentService) notifySettled(ctx context.Context, sale *sales.Sale) {
	saleID := sale.ID
	s.notifier.Notify(ctx, sale.SellerID, notification.KindSaleFullySettled,
		fmt.Sprintf("Sale %s is fully paid", sale.ID), &saleID)
}

func (s *PaymentService) buildResult(sale *sales.Sale, entryID *uuid.UUID, f sales.Financials) *PaymentResult {
	return &PaymentResult{
		SaleID:       sale.ID,
		EntryID:      entryID,
		Confirmation: sale.Confirmation,
		TotalPaid:    f.TotalPaid,
		PayableTotal: f.PayableTotal,
		Outstanding:  f.OutstandingDisplay(),
		IsFullyPaid:  f.IsFullyPaid,
	}
}

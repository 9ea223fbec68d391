package sales

import (
	"context"
	"fmt"

	"github.com/agencia/backend/internal/domain/commission"
	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/loyalty"
	"github.com/agencia/backend/internal/domain/notification"
	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MonthlyRecalculator triggers the monthly commission rollup for a seller
// period after its underlying records changed.
type MonthlyRecalculator interface {
	Recalculate(ctx context.Context, sellerID uuid.UUID, month, year int) error
}

// CancellationService runs the cancellation lifecycle: request, approval
// and the best-effort reversal of loyalty, promotion and commission side
// effects. The reversal executes inside one transaction but its sub-steps
// are individually fallible; failures are accumulated into the report
// instead of aborting the remaining steps.
type CancellationService struct {
	saleRepo       sales.SaleRepository
	requestRepo    sales.CancellationRequestRepository
	commissionRepo commission.SaleCommissionRepository
	grantRepo      loyalty.PromotionGrantRepository
	loyaltySvc     loyalty.Service
	monthly        MonthlyRecalculator
	uow            shared.UnitOfWork
	notifier       notification.Notifier
	logger         *zap.Logger
}

// NewCancellationService creates a new CancellationService
func NewCancellationService(
	saleRepo sales.SaleRepository,
	requestRepo sales.CancellationRequestRepository,
	commissionRepo commission.SaleCommissionRepository,
	grantRepo loyalty.PromotionGrantRepository,
	loyaltySvc loyalty.Service,
	monthly MonthlyRecalculator,
	uow shared.UnitOfWork,
	notifier notification.Notifier,
	logger *zap.Logger,
) *CancellationService {
	return &CancellationService{
		saleRepo:       saleRepo,
		requestRepo:    requestRepo,
		commissionRepo: commissionRepo,
		grantRepo:      grantRepo,
		loyaltySvc:     loyaltySvc,
		monthly:        monthly,
		uow:            uow,
		notifier:       notifier,
		logger:         logger,
	}
}

// ReversalResult is the structured report of a cancellation reversal.
// Success is true only when every sub-step completed; partial failures
// leave their messages in Errors while the remaining steps still ran.
type ReversalResult struct {
	SaleID               uuid.UUID `json:"sale_id"`
	PointsReverted       int64     `json:"points_reverted"`
	PointsReturned       int64     `json:"points_returned"`
	PromotionsReversed   int       `json:"promotions_reversed"`
	CommissionsCancelled int       `json:"commissions_cancelled"`
	Success              bool      `json:"success"`
	Errors               []string  `json:"errors,omitempty"`
}

// RequestCancellation opens a cancellation request for an active sale.
// At most one active request may exist per sale.
func (s *CancellationService) RequestCancellation(ctx context.Context, actor identity.ActorContext, saleID uuid.UUID, reason string) (*sales.CancellationRequest, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}

	var request *sales.CancellationRequest
	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.FindByID(txCtx, saleID)
		if err != nil {
			return err
		}
		if !sale.IsActive() {
			return shared.NewInvalidTransition("cannot request cancellation of a cancelled sale")
		}

		existing, err := s.requestRepo.FindActiveBySale(txCtx, saleID)
		if err != nil {
			return err
		}
		if existing != nil {
			return shared.NewInvalidTransition("an active cancellation request already exists for this sale")
		}

		request, err = sales.NewCancellationRequest(saleID, reason, actor.UserID)
		if err != nil {
			return err
		}
		if err := s.requestRepo.Save(txCtx, request); err != nil {
			return fmt.Errorf("failed to save cancellation request: %w", err)
		}

		s.notifier.Notify(txCtx, sale.SellerID, notification.KindCancellationRequest,
			fmt.Sprintf("Cancellation requested for sale %s", saleID), &saleID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cancellation requested",
		zap.String("sale_id", saleID.String()),
		zap.String("requested_by", actor.UserID.String()))
	return request, nil
}

// ApproveCancellation approves a pending request
func (s *CancellationService) ApproveCancellation(ctx context.Context, actor identity.ActorContext, requestID uuid.UUID) (*sales.CancellationRequest, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if !actor.Role.CanApproveCancellations() {
		return nil, shared.ErrForbidden
	}

	var request *sales.CancellationRequest
	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		request, err = s.requestRepo.FindByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if err := request.Approve(actor.UserID); err != nil {
			return err
		}
		if err := s.requestRepo.Save(txCtx, request); err != nil {
			return fmt.Errorf("failed to save cancellation request: %w", err)
		}

		s.notifier.Notify(txCtx, request.RequestedBy, notification.KindCancellationApproved,
			fmt.Sprintf("Cancellation of sale %s approved", request.SaleID), &request.SaleID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// RejectCancellation rejects a pending request with a reason
func (s *CancellationService) RejectCancellation(ctx context.Context, actor identity.ActorContext, requestID uuid.UUID, reason string) (*sales.CancellationRequest, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if !actor.Role.CanApproveCancellations() {
		return nil, shared.ErrForbidden
	}

	var request *sales.CancellationRequest
	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		request, err = s.requestRepo.FindByID(txCtx, requestID)
		if err != nil {
			return err
		}
		if err := request.Reject(actor.UserID, reason); err != nil {
			return err
		}
		if err := s.requestRepo.Save(txCtx, request); err != nil {
			return fmt.Errorf("failed to save cancellation request: %w", err)
		}

		s.notifier.Notify(txCtx, request.RequestedBy, notification.KindCancellationRejected,
			fmt.Sprintf("Cancellation of sale %s rejected: %s", request.SaleID, reason), &request.SaleID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return request, nil
}

// ExecuteReversal runs the approved cancellation: loyalty points, promotion
// bonuses and commission records are reversed best-effort, then the sale
// and its request transition to their terminal CANCELLED states. The whole
// operation commits or rolls back as one transaction; sub-step failures are
// reported, not fatal.
func (s *CancellationService) ExecuteReversal(ctx context.Context, actor identity.ActorContext, saleID uuid.UUID) (*ReversalResult, error) {
	if actor.IsZero() {
		return nil, shared.ErrUnauthorized
	}
	if !actor.Role.CanApproveCancellations() {
		return nil, shared.ErrForbidden
	}

	result := &ReversalResult{SaleID: saleID}
	err := s.uow.WithinTransaction(ctx, func(txCtx context.Context) error {
		sale, err := s.saleRepo.FindByID(txCtx, saleID)
		if err != nil {
			return err
		}
		if sale.IsCancelled() {
			return shared.NewInvalidTransition("sale is already cancelled")
		}
		request, err := s.requestRepo.FindActiveBySale(txCtx, saleID)
		if err != nil {
			return err
		}
		if request == nil || request.State != sales.CancellationApproved {
			return shared.NewInvalidTransition("reversal requires an approved cancellation request")
		}

		s.reverseLoyalty(txCtx, sale, result)
		s.reversePromotions(txCtx, sale, result)

		// The sale must be persisted as cancelled before the monthly
		// recompute runs, or the recompute still counts its volume
		// toward the tier and bonus.
		if err := sale.MarkCancelled(); err != nil {
			return err
		}
		if err := s.saleRepo.Save(txCtx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}

		s.cancelCommissions(txCtx, sale, result)

		if err := request.MarkCancelled(); err != nil {
			return err
		}
		if err := s.requestRepo.Save(txCtx, request); err != nil {
			return fmt.Errorf("failed to save cancellation request: %w", err)
		}

		s.notifier.Notify(txCtx, sale.SellerID, notification.KindSaleCancelled,
			fmt.Sprintf("Sale %s has been cancelled", saleID), &saleID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Success = len(result.Errors) == 0
	s.logger.Info("cancellation reversal executed",
		zap.String("sale_id", saleID.String()),
		zap.Int64("points_reverted", result.PointsReverted),
		zap.Int64("points_returned", result.PointsReturned),
		zap.Int("promotions_reversed", result.PromotionsReversed),
		zap.Int("commissions_cancelled", result.CommissionsCancelled),
		zap.Bool("success", result.Success))
	return result, nil
}

func (s *CancellationService) reverseLoyalty(ctx context.Context, sale *sales.Sale, result *ReversalResult) {
	reverted, err := s.loyaltySvc.ReverseAccrual(ctx, sale.ID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("loyalty accrual reversal failed: %v", err))
	} else {
		result.PointsReverted = reverted
	}

	returned, err := s.loyaltySvc.ReverseRedemption(ctx, sale.ID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("loyalty redemption reversal failed: %v", err))
	} else {
		result.PointsReturned = returned
	}
}

func (s *CancellationService) reversePromotions(ctx context.Context, sale *sales.Sale, result *ReversalResult) {
	grants, err := s.grantRepo.ListActiveBySale(ctx, sale.ID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to list promotion grants: %v", err))
		return
	}
	for i := range grants {
		grant := &grants[i]
		if err := s.loyaltySvc.ReverseBonus(ctx, grant.CustomerID, grant.Points, grant.SaleID, grant.PromotionID); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to reverse promotion %s: %v", grant.PromotionID, err))
			continue
		}
		if err := grant.Reverse(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to reverse promotion %s: %v", grant.PromotionID, err))
			continue
		}
		if err := s.grantRepo.Save(ctx, grant); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to save promotion grant %s: %v", grant.ID, err))
			continue
		}
		result.PromotionsReversed++
	}
}

func (s *CancellationService) cancelCommissions(ctx context.Context, sale *sales.Sale, result *ReversalResult) {
	records, err := s.commissionRepo.ListActiveBySale(ctx, sale.ID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to list commission records: %v", err))
		return
	}

	type period struct {
		sellerID uuid.UUID
		month    int
		year     int
	}
	affected := make(map[period]struct{})

	for i := range records {
		record := &records[i]
		if err := record.Cancel(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to cancel commission for sale %s: %v", record.SaleID, err))
			continue
		}
		if err := s.commissionRepo.Save(ctx, record); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to save commission record %s: %v", record.ID, err))
			continue
		}
		result.CommissionsCancelled++
		affected[period{record.SellerID, record.Month, record.Year}] = struct{}{}
	}

	for p := range affected {
		if err := s.monthly.Recalculate(ctx, p.sellerID, p.month, p.year); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to recalculate monthly commission %d/%d: %v", p.month, p.year, err))
		}
	}
}

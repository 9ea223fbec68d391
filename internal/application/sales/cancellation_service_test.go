package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/agencia/backend/internal/domain/commission"
	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/loyalty"
	domainsales "github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cancellationFixture struct {
	saleRepo       *MockSaleRepository
	requestRepo    *MockCancellationRequestRepository
	commissionRepo *MockSaleCommissionRepository
	grantRepo      *MockPromotionGrantRepository
	loyaltySvc     *MockLoyaltyService
	monthly        *MockMonthlyRecalculator
	notifier       *noopNotifier
	svc            *CancellationService
}

func newCancellationFixture() *cancellationFixture {
	f := &cancellationFixture{
		saleRepo:       new(MockSaleRepository),
		requestRepo:    new(MockCancellationRequestRepository),
		commissionRepo: new(MockSaleCommissionRepository),
		grantRepo:      new(MockPromotionGrantRepository),
		loyaltySvc:     new(MockLoyaltyService),
		monthly:        new(MockMonthlyRecalculator),
		notifier:       &noopNotifier{},
	}
	f.svc = NewCancellationService(
		f.saleRepo, f.requestRepo, f.commissionRepo, f.grantRepo,
		f.loyaltySvc, f.monthly, passthroughUoW{}, f.notifier, zap.NewNop(),
	)
	return f
}

func directorActor() identity.ActorContext {
	return identity.NewActorContext(uuid.New(), identity.RoleDirector, identity.CategoryOffice)
}

func approvedRequest(t *testing.T, saleID uuid.UUID) *domainsales.CancellationRequest {
	t.Helper()
	req, err := domainsales.NewCancellationRequest(saleID, "customer no-show", uuid.New())
	require.NoError(t, err)
	require.NoError(t, req.Approve(uuid.New()))
	return req
}

func activeCommission(t *testing.T, saleID uuid.UUID) commission.SaleCommission {
	t.Helper()
	rec, err := commission.NewSaleCommission(saleID, uuid.New(), 3, 2026, mustMXN(t, "10000.00"), decimal.NewFromInt(3), false)
	require.NoError(t, err)
	return *rec
}

func activeGrant(t *testing.T, saleID uuid.UUID) loyalty.PromotionGrant {
	t.Helper()
	grant, err := loyalty.NewPromotionGrant(saleID, uuid.New(), uuid.New(), 500)
	require.NoError(t, err)
	return *grant
}

func TestRequestCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("opens a pending request", func(t *testing.T) {
		f := newCancellationFixture()
		sale := domesticSale(t, domainsales.PaymentMethodCash, "10000.00", "1000.00")

		f.saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.requestRepo.On("FindActiveBySale", mock.Anything, sale.ID).Return(nil, nil)
		f.requestRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

		req, err := f.svc.RequestCancellation(ctx, sellerActor(), sale.ID, "customer no-show")
		require.NoError(t, err)
		assert.Equal(t, domainsales.CancellationPending, req.State)
	})

	t.Run("rejects a second active request", func(t *testing.T) {
		f := newCancellationFixture()
		sale := domesticSale(t, domainsales.PaymentMethodCash, "10000.00", "1000.00")
		existing, err := domainsales.NewCancellationRequest(sale.ID, "first", uuid.New())
		require.NoError(t, err)

		f.saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.requestRepo.On("FindActiveBySale", mock.Anything, sale.ID).Return(existing, nil)

		_, err = f.svc.RequestCancellation(ctx, sellerActor(), sale.ID, "second")
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestApproveCancellation(t *testing.T) {
	ctx := context.Background()

	t.Run("seller cannot approve", func(t *testing.T) {
		f := newCancellationFixture()
		_, err := f.svc.ApproveCancellation(ctx, sellerActor(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("director approves a pending request", func(t *testing.T) {
		f := newCancellationFixture()
		saleID := uuid.New()
		req, err := domainsales.NewCancellationRequest(saleID, "customer no-show", uuid.New())
		require.NoError(t, err)

		f.requestRepo.On("FindByID", mock.Anything, req.ID).Return(req, nil)
		f.requestRepo.On("Save", mock.Anything, req).Return(nil)

		approved, err := f.svc.ApproveCancellation(ctx, directorActor(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, domainsales.CancellationApproved, approved.State)
	})
}

func TestExecuteReversal(t *testing.T) {
	ctx := context.Background()

	t.Run("reverses promotions and commissions and reports counts", func(t *testing.T) {
		f := newCancellationFixture()
		sale := domesticSale(t, domainsales.PaymentMethodCash, "10000.00", "1000.00")
		req := approvedRequest(t, sale.ID)

		grants := []loyalty.PromotionGrant{activeGrant(t, sale.ID), activeGrant(t, sale.ID)}
		records := []commission.SaleCommission{activeCommission(t, sale.ID)}

		f.saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", mock.Anything, sale).Return(nil)
		f.requestRepo.On("FindActiveBySale", mock.Anything, sale.ID).Return(req, nil)
		f.requestRepo.On("Save", mock.Anything, req).Return(nil)
		f.loyaltySvc.On("ReverseAccrual", mock.Anything, sale.ID).Return(int64(120), nil)
		f.loyaltySvc.On("ReverseRedemption", mock.Anything, sale.ID).Return(int64(80), nil)
		f.loyaltySvc.On("ReverseBonus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.grantRepo.On("ListActiveBySale", mock.Anything, sale.ID).Return(grants, nil)
		f.grantRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.commissionRepo.On("ListActiveBySale", mock.Anything, sale.ID).Return(records, nil)
		f.commissionRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.monthly.On("Recalculate", mock.Anything, records[0].SellerID, 3, 2026).Return(nil)

		result, err := f.svc.ExecuteReversal(ctx, directorActor(), sale.ID)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Empty(t, result.Errors)
		assert.Equal(t, int64(120), result.PointsReverted)
		assert.Equal(t, int64(80), result.PointsReturned)
		assert.Equal(t, 2, result.PromotionsReversed)
		assert.Equal(t, 1, result.CommissionsCancelled)
		assert.Equal(t, domainsales.LifecycleCancelled, sale.Lifecycle)
		assert.Equal(t, domainsales.CancellationCancelled, req.State)
		f.monthly.AssertCalled(t, "Recalculate", mock.Anything, records[0].SellerID, 3, 2026)
	})

	t.Run("sub-step failure is reported but the rest still runs", func(t *testing.T) {
		f := newCancellationFixture()
		sale := domesticSale(t, domainsales.PaymentMethodCash, "10000.00", "1000.00")
		req := approvedRequest(t, sale.ID)

		f.saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", mock.Anything, sale).Return(nil)
		f.requestRepo.On("FindActiveBySale", mock.Anything, sale.ID).Return(req, nil)
		f.requestRepo.On("Save", mock.Anything, req).Return(nil)
		f.loyaltySvc.On("ReverseAccrual", mock.Anything, sale.ID).Return(int64(0), errors.New("loyalty ledger offline"))
		f.loyaltySvc.On("ReverseRedemption", mock.Anything, sale.ID).Return(int64(50), nil)
		f.grantRepo.On("ListActiveBySale", mock.Anything, sale.ID).Return([]loyalty.PromotionGrant{}, nil)
		f.commissionRepo.On("ListActiveBySale", mock.Anything, sale.ID).Return([]commission.SaleCommission{}, nil)

		result, err := f.svc.ExecuteReversal(ctx, directorActor(), sale.ID)
		require.NoError(t, err)
		assert.False(t, result.Success)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "loyalty ledger offline")
		assert.Equal(t, int64(50), result.PointsReturned)
		assert.Equal(t, domainsales.LifecycleCancelled, sale.Lifecycle)
	})

	t.Run("monthly recompute runs after the sale is saved as cancelled", func(t *testing.T) {
		f := newCancellationFixture()
		sale := domesticSale(t, domainsales.PaymentMethodCash, "900000.00", "900000.00")
		req := approvedRequest(t, sale.ID)
		records := []commission.SaleCommission{activeCommission(t, sale.ID)}

		var saleSaved bool
		f.saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.saleRepo.On("Save", mock.Anything, sale).Run(func(mock.Arguments) {
			saleSaved = true
		}).Return(nil)
		f.requestRepo.On("FindActiveBySale", mock.Anything, sale.ID).Return(req, nil)
		f.requestRepo.On("Save", mock.Anything, req).Return(nil)
		f.loyaltySvc.On("ReverseAccrual", mock.Anything, sale.ID).Return(int64(0), nil)
		f.loyaltySvc.On("ReverseRedemption", mock.Anything, sale.ID).Return(int64(0), nil)
		f.grantRepo.On("ListActiveBySale", mock.Anything, sale.ID).Return([]loyalty.PromotionGrant{}, nil)
		f.commissionRepo.On("ListActiveBySale", mock.Anything, sale.ID).Return(records, nil)
		f.commissionRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
		f.monthly.On("Recalculate", mock.Anything, records[0].SellerID, 3, 2026).Run(func(mock.Arguments) {
			assert.True(t, saleSaved, "recompute must run after the cancelled sale is persisted")
			assert.Equal(t, domainsales.LifecycleCancelled, sale.Lifecycle)
		}).Return(nil)

		result, err := f.svc.ExecuteReversal(ctx, directorActor(), sale.ID)
		require.NoError(t, err)
		assert.True(t, result.Success)
		f.monthly.AssertCalled(t, "Recalculate", mock.Anything, records[0].SellerID, 3, 2026)
	})

	t.Run("already cancelled sale is rejected with InvalidTransition", func(t *testing.T) {
		f := newCancellationFixture()
		sale := domesticSale(t, domainsales.PaymentMethodCash, "10000.00", "1000.00")
		require.NoError(t, sale.MarkCancelled())

		f.saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)

		_, err := f.svc.ExecuteReversal(ctx, directorActor(), sale.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})

	t.Run("requires an approved request", func(t *testing.T) {
		f := newCancellationFixture()
		sale := domesticSale(t, domainsales.PaymentMethodCash, "10000.00", "1000.00")
		pending, err := domainsales.NewCancellationRequest(sale.ID, "still pending", uuid.New())
		require.NoError(t, err)

		f.saleRepo.On("FindByID", mock.Anything, sale.ID).Return(sale, nil)
		f.requestRepo.On("FindActiveBySale", mock.Anything, sale.ID).Return(pending, nil)

		_, err = f.svc.ExecuteReversal(ctx, directorActor(), sale.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

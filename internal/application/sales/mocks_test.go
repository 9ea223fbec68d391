package sales

import (
	"context"
	"time"

	"github.com/agencia/backend/internal/domain/commission"
	"github.com/agencia/backend/internal/domain/loyalty"
	"github.com/agencia/backend/internal/domain/notification"
	domainsales "github.com/agencia/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// passthroughUoW runs the function directly without a real transaction
type passthroughUoW struct{}

func (passthroughUoW) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockSaleRepository is a mock implementation of sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainsales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, from, to time.Time) ([]domainsales.Sale, error) {
	args := m.Called(ctx, sellerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainsales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *domainsales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockPaymentEntryRepository is a mock implementation of sales.PaymentEntryRepository
type MockPaymentEntryRepository struct {
	mock.Mock
}

func (m *MockPaymentEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainsales.PaymentEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsales.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]domainsales.PaymentEntry, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainsales.PaymentEntry), args.Error(1)
}

func (m *MockPaymentEntryRepository) Save(ctx context.Context, entry *domainsales.PaymentEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockCancellationRequestRepository is a mock implementation of sales.CancellationRequestRepository
type MockCancellationRequestRepository struct {
	mock.Mock
}

func (m *MockCancellationRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domainsales.CancellationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsales.CancellationRequest), args.Error(1)
}

func (m *MockCancellationRequestRepository) FindActiveBySale(ctx context.Context, saleID uuid.UUID) (*domainsales.CancellationRequest, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainsales.CancellationRequest), args.Error(1)
}

func (m *MockCancellationRequestRepository) Save(ctx context.Context, request *domainsales.CancellationRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// MockSaleCommissionRepository is a mock implementation of commission.SaleCommissionRepository
type MockSaleCommissionRepository struct {
	mock.Mock
}

func (m *MockSaleCommissionRepository) FindBySaleAndPeriod(ctx context.Context, saleID uuid.UUID, month, year int) (*commission.SaleCommission, error) {
	args := m.Called(ctx, saleID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.SaleCommission), args.Error(1)
}

func (m *MockSaleCommissionRepository) ListBySellerAndPeriod(ctx context.Context, sellerID uuid.UUID, month, year int) ([]commission.SaleCommission, error) {
	args := m.Called(ctx, sellerID, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.SaleCommission), args.Error(1)
}

func (m *MockSaleCommissionRepository) ListActiveBySale(ctx context.Context, saleID uuid.UUID) ([]commission.SaleCommission, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commission.SaleCommission), args.Error(1)
}

func (m *MockSaleCommissionRepository) Save(ctx context.Context, record *commission.SaleCommission) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockPromotionGrantRepository is a mock implementation of loyalty.PromotionGrantRepository
type MockPromotionGrantRepository struct {
	mock.Mock
}

func (m *MockPromotionGrantRepository) ListActiveBySale(ctx context.Context, saleID uuid.UUID) ([]loyalty.PromotionGrant, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]loyalty.PromotionGrant), args.Error(1)
}

func (m *MockPromotionGrantRepository) Save(ctx context.Context, grant *loyalty.PromotionGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

// MockLoyaltyService is a mock implementation of loyalty.Service
type MockLoyaltyService struct {
	mock.Mock
}

func (m *MockLoyaltyService) ReverseAccrual(ctx context.Context, saleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoyaltyService) ReverseRedemption(ctx context.Context, saleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoyaltyService) ReverseBonus(ctx context.Context, customerID uuid.UUID, points int64, saleID, promotionID uuid.UUID) error {
	args := m.Called(ctx, customerID, points, saleID, promotionID)
	return args.Error(0)
}

// MockMonthlyRecalculator is a mock implementation of MonthlyRecalculator
type MockMonthlyRecalculator struct {
	mock.Mock
}

func (m *MockMonthlyRecalculator) Recalculate(ctx context.Context, sellerID uuid.UUID, month, year int) error {
	args := m.Called(ctx, sellerID, month, year)
	return args.Error(0)
}

// noopNotifier records notification kinds for assertions
type noopNotifier struct {
	kinds []notification.Kind
}

func (n *noopNotifier) Notify(_ context.Context, _ uuid.UUID, kind notification.Kind, _ string, _ *uuid.UUID) {
	n.kinds = append(n.kinds, kind)
}

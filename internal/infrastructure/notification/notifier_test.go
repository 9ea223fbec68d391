package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/agencia/backend/internal/domain/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]notification.Record, error) {
	args := m.Called(ctx, userID, unreadOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]notification.Record), args.Error(1)
}

func (m *mockRepository) Save(ctx context.Context, record *notification.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func TestRepositoryNotifier_Notify(t *testing.T) {
	t.Run("persists the record", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*notification.Record")).Return(nil)

		notifier := NewRepositoryNotifier(repo, zap.NewNop())
		userID := uuid.New()
		saleID := uuid.New()

		notifier.Notify(context.Background(), userID, notification.KindSaleFullySettled, "sale settled", &saleID)

		repo.AssertCalled(t, "Save", mock.Anything, mock.MatchedBy(func(r *notification.Record) bool {
			return r.UserID == userID && r.Kind == notification.KindSaleFullySettled && r.SaleID != nil
		}))
	})

	t.Run("swallows and logs persistence failures", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

		core, logs := observer.New(zap.ErrorLevel)
		notifier := NewRepositoryNotifier(repo, zap.New(core))

		notifier.Notify(context.Background(), uuid.New(), notification.KindPaymentConfirmed, "confirmed", nil)

		entries := logs.FilterMessage("failed to deliver notification").All()
		require.Len(t, entries, 1)
	})

	t.Run("drops records that fail validation", func(t *testing.T) {
		repo := new(mockRepository)

		core, logs := observer.New(zap.WarnLevel)
		notifier := NewRepositoryNotifier(repo, zap.New(core))

		notifier.Notify(context.Background(), uuid.New(), notification.KindSaleCancelled, "", nil)

		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.Len(t, logs.FilterMessage("dropping invalid notification").All(), 1)
	})
}

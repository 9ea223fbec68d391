package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/agencia/backend/internal/domain/notification"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTransactionDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.NotificationModel{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM notifications")
	})
	return db
}

func mustRecord(t *testing.T, userID uuid.UUID, message string) *notification.Record {
	record, err := notification.NewRecord(userID, notification.KindPaymentRegistered, message, nil)
	require.NoError(t, err)
	return record
}

func TestGormUnitOfWork_WithinTransaction(t *testing.T) {
	db := setupTransactionDB(t)
	uow := NewGormUnitOfWork(db)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	t.Run("commits all writes on success", func(t *testing.T) {
		userID := uuid.New()

		err := uow.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, mustRecord(t, userID, "first")); err != nil {
				return err
			}
			return repo.Save(txCtx, mustRecord(t, userID, "second"))
		})
		require.NoError(t, err)

		records, err := repo.ListByUser(ctx, userID, false)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("rolls back all writes on error", func(t *testing.T) {
		userID := uuid.New()
		boom := errors.New("boom")

		err := uow.WithinTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.Save(txCtx, mustRecord(t, userID, "doomed")); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		records, err := repo.ListByUser(ctx, userID, false)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("nested call joins the surrounding transaction", func(t *testing.T) {
		userID := uuid.New()
		boom := errors.New("boom")

		err := uow.WithinTransaction(ctx, func(outerCtx context.Context) error {
			if err := repo.Save(outerCtx, mustRecord(t, userID, "outer")); err != nil {
				return err
			}
			if err := uow.WithinTransaction(outerCtx, func(innerCtx context.Context) error {
				return repo.Save(innerCtx, mustRecord(t, userID, "inner"))
			}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		records, err := repo.ListByUser(ctx, userID, false)
		require.NoError(t, err)
		assert.Empty(t, records, "inner write must roll back with the outer transaction")
	})

	t.Run("writes outside a transaction persist immediately", func(t *testing.T) {
		userID := uuid.New()

		require.NoError(t, repo.Save(ctx, mustRecord(t, userID, "direct")))

		records, err := repo.ListByUser(ctx, userID, false)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

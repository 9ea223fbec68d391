package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agencia/backend/internal/domain/sales"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockSaleRepository creates a GormSaleRepository with a mocked SQL connection
func newMockSaleRepository(t *testing.T) (*GormSaleRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSaleRepository(gormDB), mock, mockDB
}

func storedSale(version int) *sales.Sale {
	now := time.Now()
	return &sales.Sale{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Version:    version,
		},
		Mode:          sales.CurrencyModeDomestic,
		Lifecycle:     sales.LifecycleActive,
		Confirmation:  sales.ConfirmationPending,
		SoldPrice:     decimal.NewFromInt(12000),
		OpeningAmount: decimal.NewFromInt(3000),
		OpeningMethod: sales.PaymentMethodTransfer,
		ExchangeRate:  decimal.Zero,
		SellerID:      uuid.New(),
		CustomerID:    uuid.New(),
	}
}

func TestGormSaleRepository_FindByID(t *testing.T) {
	t.Run("finds existing sale", func(t *testing.T) {
		repo, mock, mockDB := newMockSaleRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()
		sellerID := uuid.New()
		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{
			"id", "version", "mode", "lifecycle", "confirmation",
			"sold_price", "opening_amount", "opening_method",
			"seller_id", "customer_id",
		}).AddRow(
			saleID, 2, "DOMESTIC", "ACTIVE", "IN_CONFIRMATION",
			decimal.NewFromInt(12000), decimal.NewFromInt(3000), "TRANSFER",
			sellerID, customerID,
		)

		mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1`).
			WithArgs(saleID, 1).
			WillReturnRows(rows)

		sale, err := repo.FindByID(context.Background(), saleID)

		require.NoError(t, err)
		assert.Equal(t, saleID, sale.ID)
		assert.Equal(t, 2, sale.Version)
		assert.Equal(t, sales.LifecycleActive, sale.Lifecycle)
		assert.Equal(t, sellerID, sale.SellerID)
		assert.True(t, sale.SoldPrice.Equal(decimal.NewFromInt(12000)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing sale to ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockSaleRepository(t)
		defer mockDB.Close()

		saleID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "sales" WHERE id = \$1`).
			WithArgs(saleID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		sale, err := repo.FindByID(context.Background(), saleID)

		assert.Nil(t, sale)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSaleRepository_Save(t *testing.T) {
	t.Run("updates existing row when stored version is older", func(t *testing.T) {
		repo, mock, mockDB := newMockSaleRepository(t)
		defer mockDB.Close()

		sale := storedSale(3)

		mock.ExpectExec(`UPDATE "sales" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), sale)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("inserts when no row exists", func(t *testing.T) {
		repo, mock, mockDB := newMockSaleRepository(t)
		defer mockDB.Close()

		sale := storedSale(2)

		mock.ExpectExec(`UPDATE "sales" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "sales" WHERE id = \$1`).
			WithArgs(sale.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectExec(`INSERT INTO "sales"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Save(context.Background(), sale)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when the stored version is newer", func(t *testing.T) {
		repo, mock, mockDB := newMockSaleRepository(t)
		defer mockDB.Close()

		sale := storedSale(2)

		mock.ExpectExec(`UPDATE "sales" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "sales" WHERE id = \$1`).
			WithArgs(sale.ID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		err := repo.Save(context.Background(), sale)

		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormSaleRepository_FindBySellerAndPeriod(t *testing.T) {
	t.Run("lists sales within the half-open window", func(t *testing.T) {
		repo, mock, mockDB := newMockSaleRepository(t)
		defer mockDB.Close()

		sellerID := uuid.New()
		from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)

		rows := sqlmock.NewRows([]string{
			"id", "version", "mode", "lifecycle", "confirmation",
			"sold_price", "seller_id", "customer_id",
		}).
			AddRow(uuid.New(), 1, "DOMESTIC", "ACTIVE", "COMPLETED",
				decimal.NewFromInt(5000), sellerID, uuid.New()).
			AddRow(uuid.New(), 1, "DOMESTIC", "ACTIVE", "IN_CONFIRMATION",
				decimal.NewFromInt(8000), sellerID, uuid.New())

		mock.ExpectQuery(`SELECT \* FROM "sales" WHERE seller_id = \$1 AND created_at >= \$2 AND created_at < \$3`).
			WithArgs(sellerID, from, to).
			WillReturnRows(rows)

		result, err := repo.FindBySellerAndPeriod(context.Background(), sellerID, from, to)

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, sellerID, result[0].SellerID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package sales

import (
	"testing"

	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mxn(v string) valueobject.Money {
	m, err := valueobject.NewMoneyFromString(v, valueobject.MXN)
	if err != nil {
		panic(err)
	}
	return m
}

func usd(v string) valueobject.Money {
	m, err := valueobject.NewMoneyFromString(v, valueobject.USD)
	if err != nil {
		panic(err)
	}
	return m
}

func TestNewPaymentEntry(t *testing.T) {
	saleID := uuid.New()
	user := uuid.New()

	t.Run("cash confirms automatically with no actor", func(t *testing.T) {
		entry, err := NewPaymentEntry(saleID, mxn("1500.00"), PaymentMethodCash, user)
		require.NoError(t, err)
		assert.True(t, entry.Confirmed)
		assert.Nil(t, entry.ConfirmedBy)
		assert.NotNil(t, entry.ConfirmedAt)
	})

	t.Run("transfer starts unconfirmed", func(t *testing.T) {
		entry, err := NewPaymentEntry(saleID, mxn("2000.00"), PaymentMethodTransfer, user)
		require.NoError(t, err)
		assert.False(t, entry.Confirmed)
		assert.False(t, entry.VoucherUploaded)
	})

	t.Run("rejects opening-only methods", func(t *testing.T) {
		for _, method := range []PaymentMethod{PaymentMethodCredit, PaymentMethodDirectToVendor} {
			_, err := NewPaymentEntry(saleID, mxn("100.00"), method, user)
			require.Error(t, err)
			var domainErr *shared.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, err := NewPaymentEntry(saleID, mxn("0.00"), PaymentMethodCash, user)
		assert.Error(t, err)
		_, err = NewPaymentEntry(saleID, mxn("-10.00"), PaymentMethodCash, user)
		assert.Error(t, err)
	})

	t.Run("rejects unknown method", func(t *testing.T) {
		_, err := NewPaymentEntry(saleID, mxn("100.00"), PaymentMethod("BARTER"), user)
		assert.Error(t, err)
	})
}

func TestNewConvertedPaymentEntry(t *testing.T) {
	saleID := uuid.New()
	user := uuid.New()

	t.Run("converts once at entry time and freezes", func(t *testing.T) {
		rate := decimal.NewFromFloat(17.50)
		entry, err := NewConvertedPaymentEntry(saleID, usd("100.00"), rate, PaymentMethodTransfer, user)
		require.NoError(t, err)
		assert.Equal(t, valueobject.MXN, entry.Amount.Currency())
		assert.True(t, entry.Amount.Amount().Equal(decimal.NewFromInt(1750)))
		require.NotNil(t, entry.SourceAmountUSD)
		assert.True(t, entry.SourceAmountUSD.Equal(decimal.NewFromInt(100)))
		require.NotNil(t, entry.AppliedRate)
		assert.True(t, entry.AppliedRate.Equal(rate))
	})

	t.Run("rejects non-USD source", func(t *testing.T) {
		_, err := NewConvertedPaymentEntry(saleID, mxn("100.00"), decimal.NewFromInt(17), PaymentMethodTransfer, user)
		assert.Error(t, err)
	})

	t.Run("rejects zero rate", func(t *testing.T) {
		_, err := NewConvertedPaymentEntry(saleID, usd("100.00"), decimal.Zero, PaymentMethodTransfer, user)
		assert.Error(t, err)
	})
}

func TestPaymentEntryConfirm(t *testing.T) {
	saleID := uuid.New()
	user := uuid.New()
	accountant := uuid.New()

	t.Run("requires voucher for transfer", func(t *testing.T) {
		entry, err := NewPaymentEntry(saleID, mxn("2000.00"), PaymentMethodTransfer, user)
		require.NoError(t, err)

		err = entry.Confirm(accountant)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
		assert.False(t, entry.Confirmed)

		entry.AttachVoucher()
		require.NoError(t, entry.Confirm(accountant))
		assert.True(t, entry.Confirmed)
		assert.Equal(t, accountant, *entry.ConfirmedBy)
	})

	t.Run("re-confirmation is an idempotent no-op", func(t *testing.T) {
		entry, err := NewPaymentEntry(saleID, mxn("500.00"), PaymentMethodDeposit, user)
		require.NoError(t, err)
		entry.AttachVoucher()
		require.NoError(t, entry.Confirm(accountant))

		firstAt := *entry.ConfirmedAt
		firstBy := *entry.ConfirmedBy

		require.NoError(t, entry.Confirm(uuid.New()))
		assert.Equal(t, firstAt, *entry.ConfirmedAt)
		assert.Equal(t, firstBy, *entry.ConfirmedBy)
	})

	t.Run("rejects nil confirmer", func(t *testing.T) {
		entry, err := NewPaymentEntry(saleID, mxn("500.00"), PaymentMethodCard, user)
		require.NoError(t, err)
		entry.AttachVoucher()
		assert.Error(t, entry.Confirm(uuid.Nil))
	})
}

func TestPaymentMethodRules(t *testing.T) {
	assert.True(t, PaymentMethodCash.AutoConfirms())
	assert.False(t, PaymentMethodCash.RequiresVoucher())

	for _, m := range []PaymentMethod{PaymentMethodTransfer, PaymentMethodCard, PaymentMethodDeposit} {
		assert.True(t, m.RequiresVoucher(), m)
		assert.False(t, m.AutoConfirms(), m)
		assert.False(t, m.OpeningOnly(), m)
	}

	for _, m := range []PaymentMethod{PaymentMethodCredit, PaymentMethodDirectToVendor} {
		assert.True(t, m.OpeningOnly(), m)
		assert.False(t, m.RequiresVoucher(), m)
	}
}

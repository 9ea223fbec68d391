package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid amount and currency", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(100.50), MXN)
		require.NoError(t, err)
		assert.Equal(t, MXN, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(100.50)))
	})

	t.Run("returns error for empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromFloat(100), "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "currency cannot be empty")
	})
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid string", func(t *testing.T) {
		m, err := NewMoneyFromString("123.45", MXN)
		require.NoError(t, err)
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(123.45)))
	})

	t.Run("invalid string", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", MXN)
		assert.Error(t, err)
	})
}

func TestMoneyAdd(t *testing.T) {
	t.Run("adds amounts in the same currency", func(t *testing.T) {
		a := NewMoneyMXN(decimal.NewFromFloat(1234.56))
		b := NewMoneyMXN(decimal.NewFromFloat(789.12))
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(2023.68)))
	})

	t.Run("rejects mixed currencies", func(t *testing.T) {
		a := NewMoneyMXN(decimal.NewFromInt(100))
		b := NewMoneyUSD(decimal.NewFromInt(100))
		_, err := a.Add(b)
		assert.Error(t, err)
	})
}

func TestMoneySubtract(t *testing.T) {
	a := NewMoneyMXN(decimal.NewFromInt(1000))
	b := NewMoneyMXN(decimal.NewFromInt(300))
	diff, err := a.Subtract(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromInt(700)))
}

func TestMoneyNoDriftAcrossRepeatedOperations(t *testing.T) {
	// Summing 0.10 a thousand times must land exactly on 100.00.
	cent := NewMoneyMXN(decimal.NewFromFloat(0.10))
	total := ZeroMXN()
	for i := 0; i < 1000; i++ {
		total = total.MustAdd(cent)
	}
	assert.True(t, total.Amount().Equal(decimal.NewFromInt(100)), "got %s", total)
}

func TestMoneyClampAtZero(t *testing.T) {
	t.Run("negative clamps to zero", func(t *testing.T) {
		m := NewMoneyMXN(decimal.NewFromInt(-250))
		assert.True(t, m.ClampAtZero().IsZero())
		assert.Equal(t, MXN, m.ClampAtZero().Currency())
	})

	t.Run("positive unchanged", func(t *testing.T) {
		m := NewMoneyMXN(decimal.NewFromInt(250))
		assert.True(t, m.ClampAtZero().Equals(m))
	})
}

func TestMoneyConvertTo(t *testing.T) {
	t.Run("converts USD to MXN at the supplied rate", func(t *testing.T) {
		usd := NewMoneyUSD(decimal.NewFromInt(100))
		mxn, err := usd.ConvertTo(MXN, decimal.NewFromFloat(17.25))
		require.NoError(t, err)
		assert.Equal(t, MXN, mxn.Currency())
		assert.True(t, mxn.Amount().Equal(decimal.NewFromInt(1725)))
	})

	t.Run("same currency is a no-op", func(t *testing.T) {
		usd := NewMoneyUSD(decimal.NewFromFloat(99.99))
		out, err := usd.ConvertTo(USD, decimal.NewFromInt(17))
		require.NoError(t, err)
		assert.True(t, out.Equals(usd))
	})

	t.Run("rejects non-positive rate", func(t *testing.T) {
		usd := NewMoneyUSD(decimal.NewFromInt(100))
		_, err := usd.ConvertTo(MXN, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestMoneyCalculatePercentage(t *testing.T) {
	m := NewMoneyMXN(decimal.NewFromInt(250000))
	pct := m.CalculatePercentage(decimal.NewFromInt(3))
	assert.True(t, pct.Amount().Equal(decimal.NewFromInt(7500)))
}

func TestMoneyComparison(t *testing.T) {
	a := NewMoneyMXN(decimal.NewFromInt(100))
	b := NewMoneyMXN(decimal.NewFromInt(200))

	lt, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, lt)

	gte, err := b.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	_, err = a.LessThan(NewMoneyUSD(decimal.NewFromInt(1)))
	assert.Error(t, err)
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := NewMoneyUSD(decimal.NewFromFloat(1234.56))
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equals(m))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.50"))
	assert.Equal(t, MXN, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(42.50)))

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())
}

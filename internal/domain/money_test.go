package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyFromString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCents int64
	}{
		{name: "dollar sign and decimals", input: "$1.00", wantCents: 100},
		{name: "plain decimal", input: "4.50", wantCents: 450},
		{name: "negative fee", input: "-0.50", wantCents: -50},
		{name: "thousands separator", input: "$1,234.56", wantCents: 123456},
		{name: "empty string is zero", input: "", wantCents: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MoneyFromString(tt.input, CurrencyUSD)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCents, m.Cents)
			assert.Equal(t, CurrencyUSD, m.Currency)
		})
	}

	_, err := MoneyFromString("bogus", CurrencyUSD)
	assert.Error(t, err)
}

func TestMoneyFromFloat(t *testing.T) {
	assert.Equal(t, int64(125), MoneyFromFloat(1.25, CurrencyUSD).Cents)
	assert.Equal(t, int64(100), MoneyFromFloat(1.0, CurrencyUSD).Cents)
	// Half cents round away from zero, deterministically.
	assert.Equal(t, int64(13), MoneyFromFloat(0.125, CurrencyUSD).Cents)
	assert.Equal(t, int64(-13), MoneyFromFloat(-0.125, CurrencyUSD).Cents)
}

func TestMoneyFromAny(t *testing.T) {
	m, err := MoneyFromAny(nil, CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, NewMoney(0, CurrencyUSD), m)

	m, err = MoneyFromAny("$1.00", CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, int64(100), m.Cents)

	m, err = MoneyFromAny(1.25, CurrencyUSD)
	require.NoError(t, err)
	assert.Equal(t, int64(125), m.Cents)

	_, err = MoneyFromAny(struct{}{}, CurrencyUSD)
	assert.Error(t, err)
}

func TestMoneyArithmetic(t *testing.T) {
	a := NewMoney(400, CurrencyUSD)
	fee := NewMoney(-50, CurrencyUSD)

	net, err := a.Add(fee)
	require.NoError(t, err)
	assert.Equal(t, int64(350), net.Cents)

	diff, err := a.Subtract(fee)
	require.NoError(t, err)
	assert.Equal(t, int64(450), diff.Cents)

	assert.Equal(t, int64(50), fee.Negate().Cents)
	assert.Equal(t, int64(50), fee.Abs().Cents)
	assert.True(t, fee.IsNegative())
	assert.False(t, a.IsNegative())
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := NewMoney(100, CurrencyUSD)
	eur := NewMoney(100, Currency("EUR"))

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Subtract(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Cmp(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoneyComparison(t *testing.T) {
	small := NewMoney(99, CurrencyUSD)
	min := NewMoney(100, CurrencyUSD)

	assert.True(t, small.LessThan(min))
	assert.False(t, min.LessThan(small))
	assert.True(t, min.GreaterThan(small))
	assert.True(t, min.Equal(NewMoney(100, CurrencyUSD)))
	assert.False(t, min.Equal(NewMoney(100, Currency("EUR"))))
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "$4.00", NewMoney(400, CurrencyUSD).String())
	assert.Equal(t, "$-0.50", NewMoney(-50, CurrencyUSD).String())
	assert.Equal(t, "$0.00", NewMoney(0, CurrencyUSD).String())
	assert.Equal(t, "$100.00", NewMoney(10000, CurrencyUSD).String())
	assert.Equal(t, "4.00", NewMoney(400, CurrencyUSD).Format())
	assert.Equal(t, "-0.50", NewMoney(-50, CurrencyUSD).Format())
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paypalPolicy(t *testing.T) TransferPolicy {
	t.Helper()
	d, err := DescriptorFor(KindPaypal)
	require.NoError(t, err)
	return d.Policy
}

func TestPaypalPolicyBounds(t *testing.T) {
	policy := paypalPolicy(t)

	assert.Equal(t, NewMoney(100, CurrencyUSD), policy.MinTransferAmount())
	assert.Equal(t, NewMoney(10000, CurrencyUSD), policy.MaxTransferAmount())
	assert.Equal(t, NewMoney(-50, CurrencyUSD), policy.TransactionFee(NewMoney(400, CurrencyUSD)))
}

func TestAvailableTransferAmount(t *testing.T) {
	policy := paypalPolicy(t)

	// Balance below the cap passes through unchanged.
	assert.Equal(t, NewMoney(500, CurrencyUSD),
		policy.AvailableTransferAmount(NewMoney(500, CurrencyUSD)))

	// Balance above the cap is clamped to the maximum.
	assert.Equal(t, NewMoney(10000, CurrencyUSD),
		policy.AvailableTransferAmount(NewMoney(10500, CurrencyUSD)))
}

func TestDefaultTransferAmount(t *testing.T) {
	policy := paypalPolicy(t)

	// With 5.00 available the suggestion leaves room for the fee: 4.50.
	assert.Equal(t, NewMoney(450, CurrencyUSD),
		policy.DefaultTransferAmount(NewMoney(500, CurrencyUSD)))

	// With 105.00 available the suggestion is capped at max minus fee: 99.50.
	assert.Equal(t, NewMoney(9950, CurrencyUSD),
		policy.DefaultTransferAmount(NewMoney(10500, CurrencyUSD)))

	// Never suggests a negative amount.
	assert.Equal(t, NewMoney(0, CurrencyUSD),
		policy.DefaultTransferAmount(NewMoney(20, CurrencyUSD)))
}

func TestNetAndGrossTransferAmounts(t *testing.T) {
	policy := paypalPolicy(t)
	amount := NewMoney(500, CurrencyUSD)

	assert.Equal(t, NewMoney(450, CurrencyUSD), policy.NetTransferAmount(amount))
	assert.Equal(t, NewMoney(500, CurrencyUSD), policy.GrossTransferAmount(amount))
}

func TestRequiredAccountBalance(t *testing.T) {
	policy := paypalPolicy(t)

	// Covering a 1.30 transfer requires 1.80 on the ledger.
	assert.Equal(t, NewMoney(180, CurrencyUSD),
		policy.RequiredAccountBalance(NewMoney(130, CurrencyUSD)))
}

func TestFlatFeeIgnoresAmount(t *testing.T) {
	fee := FlatFee(-50, CurrencyUSD)

	assert.Equal(t, NewMoney(-50, CurrencyUSD), fee(NewMoney(100, CurrencyUSD)))
	assert.Equal(t, NewMoney(-50, CurrencyUSD), fee(NewMoney(10000, CurrencyUSD)))
}

package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(t *testing.T) *DepositAccount {
	t.Helper()
	account, err := NewDepositAccount(KindPaypal, uuid.New(), "Homer Simpson", "adam@smith.tst")
	require.NoError(t, err)
	return account
}

func TestNewDepositAccount(t *testing.T) {
	account := newTestAccount(t)

	assert.Equal(t, StateCreated, account.State)
	assert.Equal(t, KindPaypal, account.Kind)
	assert.Nil(t, account.TransferAmount)
	assert.Nil(t, account.ActivatedAt)

	_, err := NewDepositAccount(Kind("carrier-pigeon"), uuid.New(), "Homer Simpson", "x")
	assert.Error(t, err)
}

func TestDepositAccountLifecycle(t *testing.T) {
	account := newTestAccount(t)

	require.NoError(t, account.Register())
	assert.Equal(t, StatePending, account.State)
	assert.Nil(t, account.ActivatedAt)

	require.NoError(t, account.Activate())
	assert.Equal(t, StateActive, account.State)
	require.NotNil(t, account.ActivatedAt)

	require.NoError(t, account.Suspend())
	assert.Equal(t, StateSuspended, account.State)

	require.NoError(t, account.Unsuspend())
	assert.Equal(t, StateActive, account.State)
}

func TestDepositAccountInvalidTransitions(t *testing.T) {
	account := newTestAccount(t)

	// Cannot activate or suspend before registration.
	assert.ErrorIs(t, account.Activate(), ErrInvalidStateTransition)
	assert.ErrorIs(t, account.Suspend(), ErrInvalidStateTransition)
	assert.ErrorIs(t, account.Unsuspend(), ErrInvalidStateTransition)
	assert.Equal(t, StateCreated, account.State)

	require.NoError(t, account.Register())
	assert.ErrorIs(t, account.Register(), ErrInvalidStateTransition)
	assert.ErrorIs(t, account.Suspend(), ErrInvalidStateTransition)

	require.NoError(t, account.Activate())
	assert.ErrorIs(t, account.Activate(), ErrInvalidStateTransition)
	assert.ErrorIs(t, account.Unsuspend(), ErrInvalidStateTransition)
}

func TestDescriptorByName(t *testing.T) {
	byKind, err := DescriptorByName("paypal")
	require.NoError(t, err)
	assert.Equal(t, KindPaypal, byKind.Kind)

	byType, err := DescriptorByName("PaypalDepositAccount")
	require.NoError(t, err)
	assert.Equal(t, byKind, byType)
	assert.Equal(t, "PaypalDepositAccount", byType.TypeName)

	_, err = DescriptorByName("CarrierPigeonDepositAccount")
	assert.Error(t, err)
}

func TestValidDestination(t *testing.T) {
	d, err := DescriptorFor(KindPaypal)
	require.NoError(t, err)

	assert.True(t, d.ValidDestination("adam@smith.tst"))
	assert.False(t, d.ValidDestination("bogus"))
	assert.False(t, d.ValidDestination(""))
}

func TestContentAttributes(t *testing.T) {
	account := newTestAccount(t)
	amount := NewMoney(400, CurrencyUSD)
	account.SetTransferAmount(&amount)

	attrs := account.ContentAttributes()
	assert.Equal(t, amount, attrs["transfer_amount"])
	assert.Equal(t, "adam@smith.tst", attrs["paypal_account"])
}

func TestSetTransferAmountClears(t *testing.T) {
	account := newTestAccount(t)
	amount := NewMoney(100, CurrencyUSD)

	account.SetTransferAmount(&amount)
	require.NotNil(t, account.TransferAmount)
	assert.Equal(t, int64(100), account.TransferAmount.Cents)

	account.SetTransferAmount(nil)
	assert.Nil(t, account.TransferAmount)
	_, present := account.ContentAttributes()["transfer_amount"]
	assert.False(t, present)
}

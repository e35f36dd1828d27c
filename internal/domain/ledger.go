package domain

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInsufficientAvailableBalance is returned when a hold would push the
// available balance below zero.
var ErrInsufficientAvailableBalance = errors.New("insufficient available balance")

// Ledger is the piggy-bank balance account of a person or organization.
// The available balance is the committed balance minus any pending holds;
// it never goes negative after a committed operation.
type Ledger struct {
	OwnerID     uuid.UUID `json:"owner_id"`
	Balance     Money     `json:"balance"`
	PendingHold Money     `json:"pending_hold"`
}

// NewLedger creates an empty ledger for owner in the given currency.
func NewLedger(ownerID uuid.UUID, currency Currency) *Ledger {
	return &Ledger{
		OwnerID:     ownerID,
		Balance:     NewMoney(0, currency),
		PendingHold: NewMoney(0, currency),
	}
}

// AvailableBalance returns balance minus pending holds.
func (l *Ledger) AvailableBalance() Money {
	available, err := l.Balance.Subtract(l.PendingHold)
	if err != nil {
		// Balance and holds always share a currency; a mismatch here is a
		// construction bug, so fail closed.
		return NewMoney(0, l.Balance.Currency)
	}
	return available
}

// Deposit adds amount to the committed balance.
func (l *Ledger) Deposit(amount Money) error {
	next, err := l.Balance.Add(amount)
	if err != nil {
		return err
	}
	l.Balance = next
	return nil
}

// Hold places a pending hold on amount, reserving it against the available
// balance without committing the withdrawal yet.
func (l *Ledger) Hold(amount Money) error {
	if amount.GreaterThan(l.AvailableBalance()) {
		return ErrInsufficientAvailableBalance
	}
	next, err := l.PendingHold.Add(amount)
	if err != nil {
		return err
	}
	l.PendingHold = next
	return nil
}

// Release removes a pending hold, restoring the available balance.
func (l *Ledger) Release(amount Money) error {
	next, err := l.PendingHold.Subtract(amount)
	if err != nil {
		return err
	}
	l.PendingHold = next
	return nil
}

// Settle converts a pending hold into a committed withdrawal.
func (l *Ledger) Settle(amount Money) error {
	hold, err := l.PendingHold.Subtract(amount)
	if err != nil {
		return err
	}
	balance, err := l.Balance.Subtract(amount)
	if err != nil {
		return err
	}
	l.PendingHold = hold
	l.Balance = balance
	return nil
}

/**
 * @description
 * This file defines the DepositAccount entity and its lifecycle state machine.
 * An account moves created -> pending -> active and can toggle between active
 * and suspended. Transitions are table-driven: each (state, event) pair maps to
 * the next state, and anything outside the table is rejected with
 * ErrInvalidStateTransition, which indicates a programmer error rather than a
 * user-recoverable condition.
 *
 * @dependencies
 * - errors, fmt, time: Standard Go libraries.
 * - github.com/google/uuid: For account and owner identifiers.
 */

package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State is a lifecycle state of a deposit account.
type State string

const (
	StateCreated   State = "created"
	StatePending   State = "pending"
	StateActive    State = "active"
	StateSuspended State = "suspended"
)

// LifecycleEvent is a transition trigger on a deposit account.
type LifecycleEvent string

const (
	EventRegister  LifecycleEvent = "register"
	EventActivate  LifecycleEvent = "activate"
	EventSuspend   LifecycleEvent = "suspend"
	EventUnsuspend LifecycleEvent = "unsuspend"
)

// ErrInvalidStateTransition is returned when an event is not valid for the
// account's current state.
var ErrInvalidStateTransition = errors.New("invalid state transition")

var lifecycleTransitions = map[State]map[LifecycleEvent]State{
	StateCreated:   {EventRegister: StatePending},
	StatePending:   {EventActivate: StateActive},
	StateActive:    {EventSuspend: StateSuspended},
	StateSuspended: {EventUnsuspend: StateActive},
}

// DepositAccount is an external payout destination owned by a person. The
// transfer amount is nil until the owner has requested a transfer.
type DepositAccount struct {
	ID             uuid.UUID  `json:"id"`
	Kind           Kind       `json:"kind"`
	OwnerID        uuid.UUID  `json:"owner_id"`
	OwnerName      string     `json:"owner_name"`
	Destination    string     `json:"destination"`
	TransferAmount *Money     `json:"transfer_amount,omitempty"`
	State          State      `json:"state"`
	ActivatedAt    *time.Time `json:"activated_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewDepositAccount creates an account of the given kind in the created state.
func NewDepositAccount(kind Kind, ownerID uuid.UUID, ownerName, destination string) (*DepositAccount, error) {
	if _, err := DescriptorFor(kind); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &DepositAccount{
		ID:          uuid.New(),
		Kind:        kind,
		OwnerID:     ownerID,
		OwnerName:   ownerName,
		Destination: destination,
		State:       StateCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Descriptor returns the kind descriptor backing this account.
func (a *DepositAccount) Descriptor() *KindDescriptor {
	d, err := DescriptorFor(a.Kind)
	if err != nil {
		// Kind is validated at construction; reaching this is a bug.
		panic(err)
	}
	return d
}

// Policy returns the transfer policy of the account's kind.
func (a *DepositAccount) Policy() TransferPolicy {
	return a.Descriptor().Policy
}

// Apply runs one lifecycle event through the transition table.
func (a *DepositAccount) Apply(event LifecycleEvent) error {
	next, ok := lifecycleTransitions[a.State][event]
	if !ok {
		return fmt.Errorf("%w: cannot %s from %s", ErrInvalidStateTransition, event, a.State)
	}
	a.State = next
	a.UpdatedAt = time.Now().UTC()
	if event == EventActivate {
		t := a.UpdatedAt
		a.ActivatedAt = &t
	}
	return nil
}

// Register moves the account from created to pending.
func (a *DepositAccount) Register() error { return a.Apply(EventRegister) }

// Activate moves the account from pending to active and records the time.
func (a *DepositAccount) Activate() error { return a.Apply(EventActivate) }

// Suspend moves the account from active to suspended.
func (a *DepositAccount) Suspend() error { return a.Apply(EventSuspend) }

// Unsuspend moves the account back from suspended to active.
func (a *DepositAccount) Unsuspend() error { return a.Apply(EventUnsuspend) }

// SetTransferAmount records the requested transfer amount. Passing nil clears
// any previous request.
func (a *DepositAccount) SetTransferAmount(amount *Money) {
	a.TransferAmount = amount
	a.UpdatedAt = time.Now().UTC()
}

// ContentAttributes exposes the user-supplied attributes of the account, keyed
// by field name.
func (a *DepositAccount) ContentAttributes() map[string]any {
	attrs := map[string]any{
		a.Descriptor().DestinationField: a.Destination,
	}
	if a.TransferAmount != nil {
		attrs["transfer_amount"] = *a.TransferAmount
	}
	return attrs
}

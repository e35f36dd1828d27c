/**
 * @description
 * This file provides an in-memory implementation of the `Repository` interface.
 * It backs the test suite and the embedded/development mode of the service. A
 * single mutex guards all state, which gives each reserve/commit/rollback the
 * exclusive-mutation section the transfer engine requires on a payer ledger.
 *
 * @dependencies
 * - context, sync, time: Standard Go libraries.
 * - github.com/google/uuid: For identifiers.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/luleka/deposit-service/internal/domain"
)

// MemoryRepository is a concrete implementation of Repository backed by maps.
type MemoryRepository struct {
	mu           sync.Mutex
	accounts     map[uuid.UUID]*domain.DepositAccount
	ledgers      map[uuid.UUID]*domain.Ledger
	reservations map[uuid.UUID]*Reservation
	transfers    map[uuid.UUID]*domain.Transfer
	currency     domain.Currency
}

// NewMemoryRepository creates an empty in-memory repository. Ledgers are
// created lazily in the given currency on first use.
func NewMemoryRepository(currency domain.Currency) *MemoryRepository {
	if currency == "" {
		currency = domain.CurrencyUSD
	}
	return &MemoryRepository{
		accounts:     make(map[uuid.UUID]*domain.DepositAccount),
		ledgers:      make(map[uuid.UUID]*domain.Ledger),
		reservations: make(map[uuid.UUID]*Reservation),
		transfers:    make(map[uuid.UUID]*domain.Transfer),
		currency:     currency,
	}
}

func (r *MemoryRepository) ledgerLocked(ownerID uuid.UUID) *domain.Ledger {
	l, ok := r.ledgers[ownerID]
	if !ok {
		l = domain.NewLedger(ownerID, r.currency)
		r.ledgers[ownerID] = l
	}
	return l
}

// CreateDepositAccount stores a new account.
func (r *MemoryRepository) CreateDepositAccount(ctx context.Context, account *domain.DepositAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

// FindDepositAccountByID returns a copy of the stored account.
func (r *MemoryRepository) FindDepositAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.DepositAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

// UpdateDepositAccountState persists the account's state machine fields.
func (r *MemoryRepository) UpdateDepositAccountState(ctx context.Context, account *domain.DepositAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[account.ID]
	if !ok {
		return ErrAccountNotFound
	}
	stored.State = account.State
	stored.ActivatedAt = account.ActivatedAt
	stored.UpdatedAt = account.UpdatedAt
	return nil
}

// UpdateTransferAmount persists the requested transfer amount.
func (r *MemoryRepository) UpdateTransferAmount(ctx context.Context, accountID uuid.UUID, amount *domain.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	stored.TransferAmount = amount
	stored.UpdatedAt = time.Now().UTC()
	return nil
}

// GetLedger returns a copy of the owner's ledger, creating it if necessary.
func (r *MemoryRepository) GetLedger(ctx context.Context, ownerID uuid.UUID) (*domain.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *r.ledgerLocked(ownerID)
	return &copied, nil
}

// GetAvailableBalance returns the owner's balance minus pending holds.
func (r *MemoryRepository) GetAvailableBalance(ctx context.Context, ownerID uuid.UUID) (domain.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledgerLocked(ownerID).AvailableBalance(), nil
}

// Deposit adds amount to the owner's committed balance.
func (r *MemoryRepository) Deposit(ctx context.Context, ownerID uuid.UUID, amount domain.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ledgerLocked(ownerID).Deposit(amount)
}

// Reserve places a pending hold on the owner's available balance.
func (r *MemoryRepository) Reserve(ctx context.Context, ownerID uuid.UUID, amount domain.Money) (*Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ledger := r.ledgerLocked(ownerID)
	if err := ledger.Hold(amount); err != nil {
		return nil, ErrInsufficientFunds
	}
	reservation := &Reservation{ID: uuid.New(), OwnerID: ownerID, Amount: amount}
	r.reservations[reservation.ID] = reservation
	return reservation, nil
}

// CommitReservation settles a hold into a withdrawal.
func (r *MemoryRepository) CommitReservation(ctx context.Context, reservation *Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[reservation.ID]; !ok {
		return ErrReservationNotFound
	}
	if err := r.ledgerLocked(reservation.OwnerID).Settle(reservation.Amount); err != nil {
		return err
	}
	delete(r.reservations, reservation.ID)
	return nil
}

// RollbackReservation releases a hold, restoring the pre-transfer balance.
func (r *MemoryRepository) RollbackReservation(ctx context.Context, reservation *Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reservations[reservation.ID]; !ok {
		return ErrReservationNotFound
	}
	if err := r.ledgerLocked(reservation.OwnerID).Release(reservation.Amount); err != nil {
		return err
	}
	delete(r.reservations, reservation.ID)
	return nil
}

// CreateTransfer stores a transfer attempt record.
func (r *MemoryRepository) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *transfer
	r.transfers[transfer.ID] = &copied
	return nil
}

// MarkTransferCompleted records a settled transfer with its narrative.
func (r *MemoryRepository) MarkTransferCompleted(ctx context.Context, transferID uuid.UUID, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	transfer, ok := r.transfers[transferID]
	if !ok {
		return ErrTransferNotFound
	}
	transfer.Status = domain.TransferStatusCompleted
	transfer.Description = description
	transfer.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkTransferFailed records a failed transfer with its reason.
func (r *MemoryRepository) MarkTransferFailed(ctx context.Context, transferID uuid.UUID, failureReason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	transfer, ok := r.transfers[transferID]
	if !ok {
		return ErrTransferNotFound
	}
	transfer.Status = domain.TransferStatusFailed
	transfer.FailureReason = &failureReason
	transfer.UpdatedAt = time.Now().UTC()
	return nil
}

// RecordTransferDiscrepancy notes a reconciliation problem on a transfer
// without changing its status.
func (r *MemoryRepository) RecordTransferDiscrepancy(ctx context.Context, transferID uuid.UUID, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	transfer, ok := r.transfers[transferID]
	if !ok {
		return ErrTransferNotFound
	}
	transfer.Discrepancy = &note
	transfer.UpdatedAt = time.Now().UTC()
	return nil
}

// FindTransfersByOwnerID lists transfer attempts for an owner.
func (r *MemoryRepository) FindTransfersByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transfer
	for _, transfer := range r.transfers {
		if transfer.OwnerID == ownerID {
			out = append(out, *transfer)
		}
	}
	return out, nil
}

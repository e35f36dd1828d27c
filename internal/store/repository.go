/**
 * @description
 * This file defines the `Repository` interface, which specifies the contract for all
 * data access operations required by the deposit service. By defining an interface,
 * we decouple the transfer engine from the specific storage implementation
 * (PostgreSQL in production, in-memory for tests and embedded use), making the
 * code more modular and easier to test.
 *
 * Fund movement is expressed as reserve/commit/rollback on a ledger: a
 * reservation places a pending hold on the available balance, commit settles it
 * into a withdrawal, rollback releases it. A failed transfer therefore leaves
 * the ledger exactly as it was.
 *
 * @dependencies
 * - context, errors: Standard Go libraries.
 * - github.com/google/uuid: For identifiers.
 * - internal/domain: For the service's domain models.
 */

package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/luleka/deposit-service/internal/domain"
)

var (
	ErrAccountNotFound     = errors.New("deposit account not found")
	ErrLedgerNotFound      = errors.New("ledger not found")
	ErrTransferNotFound    = errors.New("transfer not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInsufficientFunds   = errors.New("insufficient funds")
)

// Reservation is a pending hold placed on a ledger's available balance. It is
// settled with CommitReservation or released with RollbackReservation.
type Reservation struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Amount  domain.Money
}

// Repository defines the set of methods for interacting with storage.
type Repository interface {
	// Deposit account methods
	CreateDepositAccount(ctx context.Context, account *domain.DepositAccount) error
	FindDepositAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.DepositAccount, error)
	UpdateDepositAccountState(ctx context.Context, account *domain.DepositAccount) error
	UpdateTransferAmount(ctx context.Context, accountID uuid.UUID, amount *domain.Money) error

	// Ledger methods
	GetLedger(ctx context.Context, ownerID uuid.UUID) (*domain.Ledger, error)
	GetAvailableBalance(ctx context.Context, ownerID uuid.UUID) (domain.Money, error)
	Deposit(ctx context.Context, ownerID uuid.UUID, amount domain.Money) error
	Reserve(ctx context.Context, ownerID uuid.UUID, amount domain.Money) (*Reservation, error)
	CommitReservation(ctx context.Context, reservation *Reservation) error
	RollbackReservation(ctx context.Context, reservation *Reservation) error

	// Transfer record methods
	CreateTransfer(ctx context.Context, transfer *domain.Transfer) error
	MarkTransferCompleted(ctx context.Context, transferID uuid.UUID, description string) error
	MarkTransferFailed(ctx context.Context, transferID uuid.UUID, failureReason string) error
	RecordTransferDiscrepancy(ctx context.Context, transferID uuid.UUID, note string) error
	FindTransfersByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.Transfer, error)
}

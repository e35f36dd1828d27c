/**
 * @description
 * This file provides the PostgreSQL implementation of the `Repository` interface.
 * It contains all the necessary SQL queries to interact with the database tables
 * for deposit accounts, ledgers, reservations and transfers.
 *
 * Reservations are persisted rows: Reserve inserts a reservation and raises the
 * ledger's hold inside one transaction with a FOR UPDATE row lock, so a
 * concurrent transfer can never observe a transiently-reduced balance. Commit
 * and rollback delete the row and settle or release the hold the same way.
 *
 * @dependencies
 * - context, time: Standard Go libraries.
 * - github.com/jackc/pgx/v5: The PostgreSQL driver for database operations.
 * - github.com/google/uuid: For identifiers.
 * - internal/domain: Contains the domain models used for data transfer.
 */

package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/luleka/deposit-service/internal/domain"
)

// PostgresRepository is a concrete implementation of the Repository interface for PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new instance of PostgresRepository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateDepositAccount inserts a new deposit account row.
func (r *PostgresRepository) CreateDepositAccount(ctx context.Context, account *domain.DepositAccount) error {
	var transferCents *int64
	if account.TransferAmount != nil {
		transferCents = &account.TransferAmount.Cents
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO deposit_accounts (id, kind, owner_id, owner_name, destination, transfer_amount_cents, currency, state, activated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		account.ID, account.Kind, account.OwnerID, account.OwnerName, account.Destination,
		transferCents, account.Policy().Currency, account.State, account.ActivatedAt,
		account.CreatedAt, account.UpdatedAt)
	return err
}

// FindDepositAccountByID loads one deposit account.
func (r *PostgresRepository) FindDepositAccountByID(ctx context.Context, accountID uuid.UUID) (*domain.DepositAccount, error) {
	var (
		account       domain.DepositAccount
		transferCents *int64
		currency      string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, kind, owner_id, owner_name, destination, transfer_amount_cents, currency, state, activated_at, created_at, updated_at
		FROM deposit_accounts WHERE id = $1`, accountID).Scan(
		&account.ID, &account.Kind, &account.OwnerID, &account.OwnerName, &account.Destination,
		&transferCents, &currency, &account.State, &account.ActivatedAt,
		&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	if transferCents != nil {
		amount := domain.NewMoney(*transferCents, domain.Currency(currency))
		account.TransferAmount = &amount
	}
	return &account, nil
}

// UpdateDepositAccountState persists lifecycle changes.
func (r *PostgresRepository) UpdateDepositAccountState(ctx context.Context, account *domain.DepositAccount) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE deposit_accounts SET state = $1, activated_at = $2, updated_at = $3 WHERE id = $4`,
		account.State, account.ActivatedAt, account.UpdatedAt, account.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// UpdateTransferAmount persists the requested transfer amount. A nil amount
// clears the request.
func (r *PostgresRepository) UpdateTransferAmount(ctx context.Context, accountID uuid.UUID, amount *domain.Money) error {
	var transferCents *int64
	if amount != nil {
		transferCents = &amount.Cents
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE deposit_accounts SET transfer_amount_cents = $1, updated_at = $2 WHERE id = $3`,
		transferCents, time.Now().UTC(), accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// GetLedger loads the owner's ledger row.
func (r *PostgresRepository) GetLedger(ctx context.Context, ownerID uuid.UUID) (*domain.Ledger, error) {
	var (
		balanceCents int64
		holdCents    int64
		currency     string
	)
	err := r.db.QueryRow(ctx,
		"SELECT balance_cents, hold_cents, currency FROM ledgers WHERE owner_id = $1", ownerID).
		Scan(&balanceCents, &holdCents, &currency)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}
	return &domain.Ledger{
		OwnerID:     ownerID,
		Balance:     domain.NewMoney(balanceCents, domain.Currency(currency)),
		PendingHold: domain.NewMoney(holdCents, domain.Currency(currency)),
	}, nil
}

// GetAvailableBalance returns balance minus pending holds for owner.
func (r *PostgresRepository) GetAvailableBalance(ctx context.Context, ownerID uuid.UUID) (domain.Money, error) {
	ledger, err := r.GetLedger(ctx, ownerID)
	if err != nil {
		return domain.Money{}, err
	}
	return ledger.AvailableBalance(), nil
}

// Deposit adds amount to the owner's committed balance, creating the ledger
// row on first use.
func (r *PostgresRepository) Deposit(ctx context.Context, ownerID uuid.UUID, amount domain.Money) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ledgers (owner_id, balance_cents, hold_cents, currency)
		VALUES ($1, $2, 0, $3)
		ON CONFLICT (owner_id) DO UPDATE SET balance_cents = ledgers.balance_cents + $2`,
		ownerID, amount.Cents, amount.Currency)
	return err
}

// Reserve places a pending hold on the owner's available balance.
func (r *PostgresRepository) Reserve(ctx context.Context, ownerID uuid.UUID, amount domain.Money) (*Reservation, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var balanceCents, holdCents int64
	// Use FOR UPDATE to lock the row, preventing race conditions.
	err = tx.QueryRow(ctx,
		"SELECT balance_cents, hold_cents FROM ledgers WHERE owner_id = $1 FOR UPDATE", ownerID).
		Scan(&balanceCents, &holdCents)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLedgerNotFound
		}
		return nil, err
	}

	if balanceCents-holdCents < amount.Cents {
		return nil, ErrInsufficientFunds
	}

	reservation := &Reservation{ID: uuid.New(), OwnerID: ownerID, Amount: amount}
	_, err = tx.Exec(ctx, `
		INSERT INTO reservations (id, owner_id, amount_cents, currency, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		reservation.ID, ownerID, amount.Cents, amount.Currency, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx,
		"UPDATE ledgers SET hold_cents = hold_cents + $1 WHERE owner_id = $2", amount.Cents, ownerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return reservation, nil
}

// CommitReservation settles a hold into a withdrawal.
func (r *PostgresRepository) CommitReservation(ctx context.Context, reservation *Reservation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM reservations WHERE id = $1", reservation.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE ledgers SET balance_cents = balance_cents - $1, hold_cents = hold_cents - $1
		WHERE owner_id = $2`, reservation.Amount.Cents, reservation.OwnerID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RollbackReservation releases a hold, restoring the pre-transfer balance.
func (r *PostgresRepository) RollbackReservation(ctx context.Context, reservation *Reservation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, "DELETE FROM reservations WHERE id = $1", reservation.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrReservationNotFound
	}

	_, err = tx.Exec(ctx,
		"UPDATE ledgers SET hold_cents = hold_cents - $1 WHERE owner_id = $2",
		reservation.Amount.Cents, reservation.OwnerID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreateTransfer inserts a transfer attempt record.
func (r *PostgresRepository) CreateTransfer(ctx context.Context, transfer *domain.Transfer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO transfers (id, account_id, owner_id, destination, status, amount_cents, fee_cents, currency, description, failure_reason, discrepancy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		transfer.ID, transfer.AccountID, transfer.OwnerID, transfer.Destination, transfer.Status,
		transfer.Amount.Cents, transfer.Fee.Cents, transfer.Amount.Currency,
		transfer.Description, transfer.FailureReason, transfer.Discrepancy, transfer.CreatedAt, transfer.UpdatedAt)
	return err
}

// MarkTransferCompleted records a settled transfer with its narrative.
func (r *PostgresRepository) MarkTransferCompleted(ctx context.Context, transferID uuid.UUID, description string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transfers SET status = $1, description = $2, updated_at = $3 WHERE id = $4`,
		domain.TransferStatusCompleted, description, time.Now().UTC(), transferID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransferNotFound
	}
	return nil
}

// MarkTransferFailed records a failed transfer with its reason.
func (r *PostgresRepository) MarkTransferFailed(ctx context.Context, transferID uuid.UUID, failureReason string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transfers SET status = $1, failure_reason = $2, updated_at = $3 WHERE id = $4`,
		domain.TransferStatusFailed, failureReason, time.Now().UTC(), transferID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransferNotFound
	}
	return nil
}

// RecordTransferDiscrepancy notes a reconciliation problem on a transfer
// without changing its status, e.g. a fee that could not be collected after
// the payer ledger had already settled.
func (r *PostgresRepository) RecordTransferDiscrepancy(ctx context.Context, transferID uuid.UUID, note string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE transfers SET discrepancy = $1, updated_at = $2 WHERE id = $3`,
		note, time.Now().UTC(), transferID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransferNotFound
	}
	return nil
}

// FindTransfersByOwnerID lists transfer attempts for an owner, newest first.
func (r *PostgresRepository) FindTransfersByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]domain.Transfer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, owner_id, destination, status, amount_cents, fee_cents, currency, description, failure_reason, discrepancy, created_at, updated_at
		FROM transfers WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var (
			t                    domain.Transfer
			amountCents, feeCents int64
			currency             string
		)
		if err := rows.Scan(&t.ID, &t.AccountID, &t.OwnerID, &t.Destination, &t.Status,
			&amountCents, &feeCents, &currency, &t.Description, &t.FailureReason,
			&t.Discrepancy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Amount = domain.NewMoney(amountCents, domain.Currency(currency))
		t.Fee = domain.NewMoney(feeCents, domain.Currency(currency))
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}

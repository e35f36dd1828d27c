package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/luleka/deposit-service/internal/domain"
)

func usd(cents int64) domain.Money {
	return domain.NewMoney(cents, domain.CurrencyUSD)
}

func seedLedger(t *testing.T, repo *MemoryRepository, cents int64) uuid.UUID {
	t.Helper()
	ownerID := uuid.New()
	if err := repo.Deposit(context.Background(), ownerID, usd(cents)); err != nil {
		t.Fatalf("failed to seed ledger: %v", err)
	}
	return ownerID
}

func assertLedger(t *testing.T, repo *MemoryRepository, ownerID uuid.UUID, balance, hold int64) {
	t.Helper()
	ledger, err := repo.GetLedger(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("failed to load ledger: %v", err)
	}
	if ledger.Balance.Cents != balance {
		t.Fatalf("expected balance %d, got %d", balance, ledger.Balance.Cents)
	}
	if ledger.PendingHold.Cents != hold {
		t.Fatalf("expected hold %d, got %d", hold, ledger.PendingHold.Cents)
	}
}

func TestReserveHoldsWithoutDebiting(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)
	ownerID := seedLedger(t, repo, 500)

	reservation, err := repo.Reserve(context.Background(), ownerID, usd(400))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if reservation.OwnerID != ownerID || reservation.Amount.Cents != 400 {
		t.Fatalf("unexpected reservation: %+v", reservation)
	}

	assertLedger(t, repo, ownerID, 500, 400)

	available, err := repo.GetAvailableBalance(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("GetAvailableBalance failed: %v", err)
	}
	if available.Cents != 100 {
		t.Fatalf("expected available 100, got %d", available.Cents)
	}
}

func TestReserveInsufficientFunds(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)
	ownerID := seedLedger(t, repo, 500)

	if _, err := repo.Reserve(context.Background(), ownerID, usd(501)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	assertLedger(t, repo, ownerID, 500, 0)
}

func TestReserveCountsExistingHolds(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)
	ownerID := seedLedger(t, repo, 500)

	if _, err := repo.Reserve(context.Background(), ownerID, usd(300)); err != nil {
		t.Fatalf("first Reserve failed: %v", err)
	}
	if _, err := repo.Reserve(context.Background(), ownerID, usd(300)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds on second reserve, got %v", err)
	}
	if _, err := repo.Reserve(context.Background(), ownerID, usd(200)); err != nil {
		t.Fatalf("reserve within remaining availability failed: %v", err)
	}
	assertLedger(t, repo, ownerID, 500, 500)
}

func TestCommitReservationDebitsBalance(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)
	ownerID := seedLedger(t, repo, 500)

	reservation, err := repo.Reserve(context.Background(), ownerID, usd(400))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := repo.CommitReservation(context.Background(), reservation); err != nil {
		t.Fatalf("CommitReservation failed: %v", err)
	}
	assertLedger(t, repo, ownerID, 100, 0)

	// A reservation settles exactly once.
	if err := repo.CommitReservation(context.Background(), reservation); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound on double commit, got %v", err)
	}
}

func TestRollbackReservationReleasesHold(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)
	ownerID := seedLedger(t, repo, 500)

	reservation, err := repo.Reserve(context.Background(), ownerID, usd(400))
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}
	if err := repo.RollbackReservation(context.Background(), reservation); err != nil {
		t.Fatalf("RollbackReservation failed: %v", err)
	}
	assertLedger(t, repo, ownerID, 500, 0)

	if err := repo.RollbackReservation(context.Background(), reservation); !errors.Is(err, ErrReservationNotFound) {
		t.Fatalf("expected ErrReservationNotFound on double rollback, got %v", err)
	}
}

func TestGetLedgerUnknownOwnerStartsEmpty(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)

	ledger, err := repo.GetLedger(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetLedger failed: %v", err)
	}
	if ledger.Balance.Cents != 0 || ledger.PendingHold.Cents != 0 {
		t.Fatalf("expected empty ledger, got %+v", ledger)
	}
}

func TestUpdateTransferAmount(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)
	account, err := domain.NewDepositAccount(domain.KindPaypal, uuid.New(), "Homer Simpson", "adam@smith.tst")
	if err != nil {
		t.Fatalf("failed to build account: %v", err)
	}
	if err := repo.CreateDepositAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateDepositAccount failed: %v", err)
	}

	amount := usd(400)
	if err := repo.UpdateTransferAmount(context.Background(), account.ID, &amount); err != nil {
		t.Fatalf("UpdateTransferAmount failed: %v", err)
	}
	stored, err := repo.FindDepositAccountByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("FindDepositAccountByID failed: %v", err)
	}
	if stored.TransferAmount == nil || stored.TransferAmount.Cents != 400 {
		t.Fatalf("expected stored transfer amount 400, got %+v", stored.TransferAmount)
	}

	if err := repo.UpdateTransferAmount(context.Background(), account.ID, nil); err != nil {
		t.Fatalf("clearing transfer amount failed: %v", err)
	}
	stored, err = repo.FindDepositAccountByID(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("FindDepositAccountByID failed: %v", err)
	}
	if stored.TransferAmount != nil {
		t.Fatalf("expected cleared transfer amount, got %+v", stored.TransferAmount)
	}

	if err := repo.UpdateTransferAmount(context.Background(), uuid.New(), &amount); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestTransferRecordLifecycle(t *testing.T) {
	repo := NewMemoryRepository(domain.CurrencyUSD)
	ownerID := uuid.New()

	record := &domain.Transfer{
		ID:          uuid.New(),
		AccountID:   uuid.New(),
		OwnerID:     ownerID,
		Destination: "adam@smith.tst",
		Status:      domain.TransferStatusPending,
		Amount:      usd(400),
		Fee:         usd(-50),
	}
	if err := repo.CreateTransfer(context.Background(), record); err != nil {
		t.Fatalf("CreateTransfer failed: %v", err)
	}
	if err := repo.MarkTransferCompleted(context.Background(), record.ID, "settled"); err != nil {
		t.Fatalf("MarkTransferCompleted failed: %v", err)
	}

	transfers, err := repo.FindTransfersByOwnerID(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("FindTransfersByOwnerID failed: %v", err)
	}
	if len(transfers) != 1 {
		t.Fatalf("expected one transfer, got %d", len(transfers))
	}
	if transfers[0].Status != domain.TransferStatusCompleted || transfers[0].Description != "settled" {
		t.Fatalf("unexpected transfer record: %+v", transfers[0])
	}

	if err := repo.MarkTransferFailed(context.Background(), uuid.New(), "boom"); !errors.Is(err, ErrTransferNotFound) {
		t.Fatalf("expected ErrTransferNotFound, got %v", err)
	}
}

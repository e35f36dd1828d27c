/**
 * @description
 * This file contains the core business logic for the deposit service. The `Service`
 * struct orchestrates deposit account lifecycle operations and the transfer
 * settlement engine, coordinating between the storage repository, the payment
 * gateway, and the message broker.
 *
 * Key features:
 * - Implements the transfer engine: validate -> reserve payer funds -> gateway
 *   call -> commit-or-rollback. Every failure path leaves both ledgers exactly
 *   as they were before the attempt.
 * - Credits the transaction fee to an explicitly injected fee-recipient ledger
 *   on settlement.
 * - Publishes transfer lifecycle events to RabbitMQ for asynchronous processing.
 *
 * @dependencies
 * - context, errors, fmt, log, time: Standard Go libraries.
 * - github.com/google/uuid: For UUID generation.
 * - internal/domain, internal/store: For domain models and data access.
 * - pkg/gateway, pkg/rabbitmq: For external service communication.
 */

package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/luleka/deposit-service/internal/domain"
	"github.com/luleka/deposit-service/internal/store"
	"github.com/luleka/deposit-service/pkg/gateway"
	"github.com/luleka/deposit-service/pkg/rabbitmq"
)

// DefaultGatewayTimeout bounds the external gateway call. A timeout is treated
// as a gateway failure and triggers rollback.
const DefaultGatewayTimeout = 30 * time.Second

// narrativeDateFormat renders dates the way settlement narratives expect,
// e.g. "30 Aug".
const narrativeDateFormat = "02 Jan"

// Service provides the core business logic for deposit accounts and transfers.
type Service struct {
	repo           store.Repository
	gateway        gateway.Gateway
	eventProducer  rabbitmq.Publisher
	feeRecipientID uuid.UUID
	institution    string
	gatewayTimeout time.Duration
	now            func() time.Time
}

// NewService creates a new deposit service instance. The fee recipient is the
// owner id of the ledger that collects transaction fees.
func NewService(repo store.Repository, gw gateway.Gateway, producer rabbitmq.Publisher, feeRecipientID uuid.UUID, institution string, gatewayTimeout time.Duration) *Service {
	if gatewayTimeout <= 0 {
		gatewayTimeout = DefaultGatewayTimeout
	}
	return &Service{
		repo:           repo,
		gateway:        gw,
		eventProducer:  producer,
		feeRecipientID: feeRecipientID,
		institution:    institution,
		gatewayTimeout: gatewayTimeout,
		now:            time.Now,
	}
}

// CreateAccount constructs and stores a deposit account. The type name may be
// a kind symbol ("paypal") or a concrete type name ("PaypalDepositAccount").
func (s *Service) CreateAccount(ctx context.Context, typeName string, ownerID uuid.UUID, ownerName, destination string) (*domain.DepositAccount, error) {
	descriptor, err := domain.DescriptorByName(typeName)
	if err != nil {
		return nil, err
	}
	account, err := domain.NewDepositAccount(descriptor.Kind, ownerID, ownerName, destination)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateDepositAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create deposit account: %w", err)
	}
	return account, nil
}

// FindAccount loads a stored deposit account.
func (s *Service) FindAccount(ctx context.Context, accountID uuid.UUID) (*domain.DepositAccount, error) {
	return s.repo.FindDepositAccountByID(ctx, accountID)
}

// ListTransfers returns an owner's transfer attempt history.
func (s *Service) ListTransfers(ctx context.Context, ownerID uuid.UUID) ([]domain.Transfer, error) {
	return s.repo.FindTransfersByOwnerID(ctx, ownerID)
}

// ApplyLifecycleEvent runs one state machine event on a stored account and
// persists the outcome.
func (s *Service) ApplyLifecycleEvent(ctx context.Context, accountID uuid.UUID, event domain.LifecycleEvent) (*domain.DepositAccount, error) {
	account, err := s.repo.FindDepositAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := account.Apply(event); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDepositAccountState(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to persist account state: %w", err)
	}
	return account, nil
}

// SetTransferAmount records the requested transfer amount on an account. A nil
// amount clears any pending request.
func (s *Service) SetTransferAmount(ctx context.Context, accountID uuid.UUID, amount *domain.Money) (*domain.DepositAccount, error) {
	account, err := s.repo.FindDepositAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	account.SetTransferAmount(amount)
	if err := s.repo.UpdateTransferAmount(ctx, accountID, amount); err != nil {
		return nil, fmt.Errorf("failed to persist transfer amount: %w", err)
	}
	return account, nil
}

// TransferDefaults reports the kind's bounds together with the owner's current
// available and suggested transfer amounts.
type TransferDefaults struct {
	MinTransferAmount       domain.Money `json:"min_transfer_amount"`
	MaxTransferAmount       domain.Money `json:"max_transfer_amount"`
	TransactionFee          domain.Money `json:"transaction_fee"`
	AvailableTransferAmount domain.Money `json:"available_transfer_amount"`
	DefaultTransferAmount   domain.Money `json:"default_transfer_amount"`
}

// GetTransferDefaults computes the transfer bounds for an account against its
// owner's ledger.
func (s *Service) GetTransferDefaults(ctx context.Context, accountID uuid.UUID) (*TransferDefaults, error) {
	account, err := s.repo.FindDepositAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	available, err := s.repo.GetAvailableBalance(ctx, account.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read available balance: %w", err)
	}
	policy := account.Policy()
	transferable := policy.AvailableTransferAmount(available)
	return &TransferDefaults{
		MinTransferAmount:       policy.MinTransferAmount(),
		MaxTransferAmount:       policy.MaxTransferAmount(),
		TransactionFee:          policy.TransactionFee(transferable),
		AvailableTransferAmount: transferable,
		DefaultTransferAmount:   policy.DefaultTransferAmount(available),
	}, nil
}

// Validate runs the transfer validator for a stored account against its
// owner's current available balance.
func (s *Service) Validate(ctx context.Context, accountID uuid.UUID) (domain.FieldErrors, error) {
	account, err := s.repo.FindDepositAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	available, err := s.repo.GetAvailableBalance(ctx, account.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read available balance: %w", err)
	}
	return ValidateTransfer(account, available), nil
}

// Transfer performs one settlement attempt for the account's requested
// transfer amount. All outcomes are reported through the TransferResult; the
// returned error is reserved for storage-level failures that prevented the
// attempt from running at all.
func (s *Service) Transfer(ctx context.Context, accountID uuid.UUID) (*domain.TransferResult, error) {
	account, err := s.repo.FindDepositAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	available, err := s.repo.GetAvailableBalance(ctx, account.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to read available balance: %w", err)
	}

	policy := account.Policy()
	if errs := ValidateTransfer(account, available); !errs.Valid() {
		return &domain.TransferResult{
			Success:     false,
			Action:      domain.ActionTransfer,
			Amount:      domain.NewMoney(0, policy.Currency),
			Fee:         domain.NewMoney(0, policy.Currency),
			Description: "transfer validation failed",
			Errors:      errs,
		}, nil
	}

	if account.TransferAmount == nil {
		errs := domain.FieldErrors{}
		errs.Add(FieldTransferAmount, "no transfer amount has been set")
		return &domain.TransferResult{
			Success:     false,
			Action:      domain.ActionTransfer,
			Amount:      domain.NewMoney(0, policy.Currency),
			Fee:         domain.NewMoney(0, policy.Currency),
			Description: "no transfer amount has been set",
			Errors:      errs,
		}, nil
	}

	gross := policy.GrossTransferAmount(*account.TransferAmount)
	fee := policy.TransactionFee(gross)
	net := policy.NetTransferAmount(gross)

	record := &domain.Transfer{
		ID:          uuid.New(),
		AccountID:   account.ID,
		OwnerID:     account.OwnerID,
		Destination: account.Destination,
		Status:      domain.TransferStatusPending,
		Amount:      gross,
		Fee:         fee,
		CreatedAt:   s.now().UTC(),
		UpdatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateTransfer(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create transfer record: %w", err)
	}

	// Reserve the gross amount on the payer ledger. The reservation is the
	// exclusive-mutation section of the attempt.
	reservation, err := s.repo.Reserve(ctx, account.OwnerID, gross)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return s.failTransfer(ctx, account, record, gross, fee,
				fmt.Sprintf("%s exceeds your available account balance", gross)), nil
		}
		return nil, fmt.Errorf("failed to reserve transfer amount: %w", err)
	}

	gwCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	gwResult, gwErr := s.gateway.Send(gwCtx, account.Destination, net)
	if gwErr == nil && gwResult == nil {
		gwErr = errors.New("gateway returned no result")
	}
	if gwErr != nil || !gwResult.Success {
		if rbErr := s.repo.RollbackReservation(ctx, reservation); rbErr != nil {
			log.Printf("level=error component=transfer_engine msg=\"CRITICAL: reservation rollback failed\" account_id=%s reservation_id=%s err=%v", account.ID, reservation.ID, rbErr)
		}
		description := ""
		if gwErr != nil {
			// Transport-level errors carry their raw message into the result.
			description = gwErr.Error()
		} else {
			description = gwResult.Description
		}
		return s.failTransfer(ctx, account, record, gross, fee, description), nil
	}

	if err := s.repo.CommitReservation(ctx, reservation); err != nil {
		// The gateway accepted the payout but the local settle failed; release
		// the hold so the ledger is not left inconsistent, and surface the
		// failure.
		if rbErr := s.repo.RollbackReservation(ctx, reservation); rbErr != nil && !errors.Is(rbErr, store.ErrReservationNotFound) {
			log.Printf("level=error component=transfer_engine msg=\"CRITICAL: rollback after commit failure also failed\" account_id=%s err=%v", account.ID, rbErr)
		}
		return s.failTransfer(ctx, account, record, gross, fee, fmt.Sprintf("failed to settle reservation: %v", err)), nil
	}

	if err := s.repo.Deposit(ctx, s.feeRecipientID, fee.Abs()); err != nil {
		// The payer has already settled; do not fail the transfer over the fee
		// ledger, but leave the uncollected fee on the record for
		// reconciliation.
		log.Printf("level=warn component=transfer_engine msg=\"fee deposit failed\" fee_recipient_id=%s err=%v", s.feeRecipientID, err)
		note := fmt.Sprintf("fee %s was not collected: %v", fee.Abs(), err)
		if recErr := s.repo.RecordTransferDiscrepancy(ctx, record.ID, note); recErr != nil {
			log.Printf("level=error component=transfer_engine msg=\"discrepancy record failed\" transfer_id=%s err=%v", record.ID, recErr)
		}
	}

	description := s.settlementNarrative(account, gross, fee, net)
	if err := s.repo.MarkTransferCompleted(ctx, record.ID, description); err != nil {
		log.Printf("level=warn component=transfer_engine msg=\"transfer record update failed\" transfer_id=%s err=%v", record.ID, err)
	}
	s.publishTransferEvent(ctx, account, gross, fee, domain.EventTypeTransferSettled, domain.TransferStatusCompleted, "")

	return &domain.TransferResult{
		Success:     true,
		Action:      domain.ActionTransfer,
		Amount:      gross,
		Fee:         fee,
		Description: description,
	}, nil
}

// failTransfer marks the persisted record failed, publishes the failure event
// and shapes the failed result.
func (s *Service) failTransfer(ctx context.Context, account *domain.DepositAccount, record *domain.Transfer, gross, fee domain.Money, description string) *domain.TransferResult {
	if err := s.repo.MarkTransferFailed(ctx, record.ID, description); err != nil {
		log.Printf("level=warn component=transfer_engine msg=\"transfer record update failed\" transfer_id=%s err=%v", record.ID, err)
	}
	s.publishTransferEvent(ctx, account, gross, fee, domain.EventTypeTransferFailed, domain.TransferStatusFailed, description)
	return &domain.TransferResult{
		Success:     false,
		Action:      domain.ActionTransfer,
		Amount:      gross,
		Fee:         fee,
		Description: description,
	}
}

// settlementNarrative renders the human-readable settlement description, e.g.
// "$3.50 was transferred from Homer Simpson at Luleka to Paypal account
// adam@smith.tst on 30 Aug. The total transfer amount was $4.00 and a
// transaction fee of $0.50 was charged."
func (s *Service) settlementNarrative(account *domain.DepositAccount, gross, fee, net domain.Money) string {
	return fmt.Sprintf("%s was transferred from %s at %s to %s account %s on %s. The total transfer amount was %s and a transaction fee of %s was charged.",
		net, account.OwnerName, s.institution, account.Descriptor().Label, account.Destination,
		s.now().Format(narrativeDateFormat), gross, fee.Abs())
}

func (s *Service) publishTransferEvent(ctx context.Context, account *domain.DepositAccount, gross, fee domain.Money, eventType, status, reason string) {
	if s.eventProducer == nil {
		return
	}
	event := domain.TransferStatusEvent{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		Status:      status,
		AccountID:   account.ID.String(),
		OwnerID:     account.OwnerID.String(),
		Destination: account.Destination,
		Amount:      gross.Cents,
		Fee:         fee.Cents,
		Currency:    string(gross.Currency),
		Reason:      reason,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.eventProducer.PublishTransferStatusEvent(ctx, event); err != nil {
		log.Printf("level=warn component=transfer_engine msg=\"event publish failed\" event_type=%s account_id=%s err=%v", eventType, account.ID, err)
	}
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferAction identifies the operation a result describes.
type TransferAction string

// ActionTransfer is the single settlement action this service performs.
const ActionTransfer TransferAction = "transfer"

// Transfer statuses persisted with each settlement attempt.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
)

// TransferResult is the immutable outcome of one transfer attempt.
type TransferResult struct {
	Success     bool           `json:"success"`
	Action      TransferAction `json:"action"`
	Amount      Money          `json:"amount"`
	Fee         Money          `json:"fee"`
	Description string         `json:"description"`
	Errors      FieldErrors    `json:"errors,omitempty"`
}

// Transfer is the persisted record of a settlement attempt. This maps directly
// to the `transfers` table.
type Transfer struct {
	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"account_id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Destination   string    `json:"destination"`
	Status        string    `json:"status"`
	Amount        Money     `json:"amount"`
	Fee           Money     `json:"fee"`
	Description   string    `json:"description"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	Discrepancy   *string   `json:"discrepancy,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

package domain

import "time"

// Event types for TransferStatusEvent.
const (
	EventTypeTransferSettled = "transfer.settled"
	EventTypeTransferFailed  = "transfer.failed"
)

// TransferStatusEvent is the message published after a transfer attempt
// settles or fails, consumed by the notification pipeline.
type TransferStatusEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	Status      string    `json:"status"`
	AccountID   string    `json:"account_id"`
	OwnerID     string    `json:"owner_id"`
	Destination string    `json:"destination"`
	Amount      int64     `json:"amount"`
	Fee         int64     `json:"fee"`
	Currency    string    `json:"currency"`
	Reason      string    `json:"reason"`
	OccurredAt  time.Time `json:"occurred_at"`
}

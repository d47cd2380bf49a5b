package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferStatus string

const (
	TransferStatusCompleted TransferStatus = "COMPLETED"
	TransferStatusFailed    TransferStatus = "FAILED"
)

// TransferRecord is immutable once committed. Rejected transfers never reach
// persistence, so there is no pending state.
type TransferRecord struct {
	ID         string
	SenderID   string
	ReceiverID string
	Amount     decimal.Decimal
	Status     TransferStatus
	CreatedAt  time.Time
}

package repo_interfaces

import (
	"context"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/shopspring/decimal"
)

// TransferRepository supplies the all-or-nothing boundary for a transfer:
// PerformTransfer locks both accounts in ascending account-number order,
// re-checks the sender balance under the lock, moves the funds and inserts
// the completed record in a single transaction. It returns
// domain.ErrInsufficientBalance when the guarded debit cannot proceed.
type TransferRepository interface {
	PerformTransfer(ctx context.Context, senderID string, receiverID string, amount decimal.Decimal) (domain.TransferRecord, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.TransferRecord, error)
}

package repo_interfaces

import (
	"context"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountRepository doubles as the ledger store: AdjustBalance and
// AdjustCredit apply a delta and persist it in one durable step. Neither
// validates sufficiency; that is the calling engine's job.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	GetByTaxID(ctx context.Context, taxID string) (domain.Account, error)
	AccountNumberExists(ctx context.Context, accountNumber string) (bool, error)
	TaxIDExists(ctx context.Context, taxID string) (bool, error)
	AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) error
	AdjustCredit(ctx context.Context, accountID string, delta decimal.Decimal) error
	GetManager(ctx context.Context, id string) (domain.Manager, error)
}

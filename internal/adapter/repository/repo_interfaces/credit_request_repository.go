package repo_interfaces

import (
	"context"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/shopspring/decimal"
)

// CreditRequestRepository owns the conditional transition for credit
// resolution. Resolve only succeeds while the stored status is still PENDING;
// when creditDelta is positive it is applied to the client's credit line in
// the same transaction, so the increment happens exactly once even under
// concurrent resolve calls. A request that already left PENDING yields
// domain.ErrInvalidTransition.
type CreditRequestRepository interface {
	Create(ctx context.Context, request domain.CreditRequest) (domain.CreditRequest, error)
	GetByID(ctx context.Context, id string) (domain.CreditRequest, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.CreditRequest, error)
	ListPending(ctx context.Context) ([]domain.CreditRequest, error)
	Resolve(ctx context.Context, requestID string, status domain.RequestStatus, managerResponse string, managerID *string, creditDelta decimal.Decimal) (domain.CreditRequest, error)
}

package repo_interfaces

import (
	"context"

	"github.com/atlasbank/core-banking/internal/domain"
)

// CardRepository covers the static product catalog and the issuance workflow.
// ResolveRequest follows the same conditional-transition contract as credit
// resolution; credentials are persisted alongside the APPROVED status in one
// write and only when non-nil. A duplicate generated card number surfaces as
// domain.ErrConcurrencyConflict so the engine can redraw and retry.
type CardRepository interface {
	GetProductByID(ctx context.Context, id string) (domain.CardProduct, error)
	ListProducts(ctx context.Context) ([]domain.CardProduct, error)
	CreateRequest(ctx context.Context, request domain.CardRequest) (domain.CardRequest, error)
	GetRequestByID(ctx context.Context, id string) (domain.CardRequest, error)
	ListRequestsByClient(ctx context.Context, clientID string) ([]domain.CardRequest, error)
	ListPendingRequests(ctx context.Context) ([]domain.CardRequest, error)
	HasApprovedRequest(ctx context.Context, clientID string, productID string) (bool, error)
	CardNumberExists(ctx context.Context, cardNumber string) (bool, error)
	ResolveRequest(ctx context.Context, requestID string, status domain.RequestStatus, managerResponse string, managerID *string, credentials *domain.CardCredentials) (domain.CardRequest, error)
}

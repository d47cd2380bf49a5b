package memory

import (
	"context"
	"sort"
	"time"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreditRequestRepository struct {
	store *Store
}

func NewCreditRequestRepository(store *Store) *CreditRequestRepository {
	return &CreditRequestRepository{store: store}
}

func (r *CreditRequestRepository) Create(_ context.Context, request domain.CreditRequest) (domain.CreditRequest, error) {
	if _, ok := r.store.getAccountRecord(request.ClientID); !ok {
		return domain.CreditRequest{}, domain.ErrRecordNotFound
	}

	request.ID = uuid.NewString()
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	r.store.mu.Lock()
	r.store.creditRequests[request.ID] = request
	r.store.mu.Unlock()

	return request, nil
}

func (r *CreditRequestRepository) GetByID(_ context.Context, id string) (domain.CreditRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	request, ok := r.store.creditRequests[id]
	if !ok {
		return domain.CreditRequest{}, domain.ErrRecordNotFound
	}
	return request, nil
}

func (r *CreditRequestRepository) ListByClient(_ context.Context, clientID string) ([]domain.CreditRequest, error) {
	return r.list(func(req domain.CreditRequest) bool { return req.ClientID == clientID })
}

func (r *CreditRequestRepository) ListPending(_ context.Context) ([]domain.CreditRequest, error) {
	return r.list(func(req domain.CreditRequest) bool { return req.Status == domain.RequestStatusPending })
}

// Resolve transitions the request under the store lock, so only one caller
// can ever observe PENDING and win the transition; the credit adjustment
// therefore happens at most once per request.
func (r *CreditRequestRepository) Resolve(_ context.Context, requestID string, status domain.RequestStatus, managerResponse string, managerID *string, creditDelta decimal.Decimal) (domain.CreditRequest, error) {
	r.store.mu.Lock()
	request, ok := r.store.creditRequests[requestID]
	if !ok {
		r.store.mu.Unlock()
		return domain.CreditRequest{}, domain.ErrRecordNotFound
	}
	if request.Status != domain.RequestStatusPending {
		r.store.mu.Unlock()
		return domain.CreditRequest{}, domain.ErrInvalidTransition
	}

	client, ok := r.store.accounts[request.ClientID]
	if !ok {
		r.store.mu.Unlock()
		return domain.CreditRequest{}, domain.ErrRecordNotFound
	}

	request.Status = status
	request.ManagerResponse = managerResponse
	if managerID != nil {
		request.ManagerID = managerID
	}
	request.UpdatedAt = time.Now().UTC()
	r.store.creditRequests[requestID] = request
	r.store.mu.Unlock()

	if creditDelta.IsPositive() {
		client.mu.Lock()
		client.account.CreditLine = client.account.CreditLine.Add(creditDelta)
		client.account.UpdatedAt = time.Now().UTC()
		client.mu.Unlock()
	}

	return request, nil
}

func (r *CreditRequestRepository) list(match func(domain.CreditRequest) bool) ([]domain.CreditRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var requests []domain.CreditRequest
	for _, request := range r.store.creditRequests {
		if match(request) {
			requests = append(requests, request)
		}
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
	return requests, nil
}

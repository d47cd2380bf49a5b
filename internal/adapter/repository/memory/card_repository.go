package memory

import (
	"context"
	"sort"
	"time"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/google/uuid"
)

type CardRepository struct {
	store *Store
}

func NewCardRepository(store *Store) *CardRepository {
	return &CardRepository{store: store}
}

func (r *CardRepository) SeedProduct(product domain.CardProduct) domain.CardProduct {
	product.ID = uuid.NewString()
	product.CreatedAt = time.Now().UTC()

	r.store.mu.Lock()
	r.store.cardProducts[product.ID] = product
	r.store.mu.Unlock()

	return product
}

func (r *CardRepository) GetProductByID(_ context.Context, id string) (domain.CardProduct, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	product, ok := r.store.cardProducts[id]
	if !ok {
		return domain.CardProduct{}, domain.ErrRecordNotFound
	}
	return product, nil
}

func (r *CardRepository) ListProducts(_ context.Context) ([]domain.CardProduct, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	products := make([]domain.CardProduct, 0, len(r.store.cardProducts))
	for _, product := range r.store.cardProducts {
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products, nil
}

func (r *CardRepository) CreateRequest(_ context.Context, request domain.CardRequest) (domain.CardRequest, error) {
	if _, ok := r.store.getAccountRecord(request.ClientID); !ok {
		return domain.CardRequest{}, domain.ErrRecordNotFound
	}

	request.ID = uuid.NewString()
	now := time.Now().UTC()
	request.CreatedAt = now
	request.UpdatedAt = now

	r.store.mu.Lock()
	r.store.cardRequests[request.ID] = request
	r.store.mu.Unlock()

	return request, nil
}

func (r *CardRepository) GetRequestByID(_ context.Context, id string) (domain.CardRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	request, ok := r.store.cardRequests[id]
	if !ok {
		return domain.CardRequest{}, domain.ErrRecordNotFound
	}
	return request, nil
}

func (r *CardRepository) ListRequestsByClient(_ context.Context, clientID string) ([]domain.CardRequest, error) {
	return r.listRequests(func(req domain.CardRequest) bool { return req.ClientID == clientID })
}

func (r *CardRepository) ListPendingRequests(_ context.Context) ([]domain.CardRequest, error) {
	return r.listRequests(func(req domain.CardRequest) bool { return req.Status == domain.RequestStatusPending })
}

func (r *CardRepository) HasApprovedRequest(_ context.Context, clientID string, productID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, request := range r.store.cardRequests {
		if request.ClientID == clientID && request.ProductID == productID && request.Status == domain.RequestStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (r *CardRepository) CardNumberExists(_ context.Context, cardNumber string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, request := range r.store.cardRequests {
		if request.Credentials != nil && request.Credentials.CardNumber == cardNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *CardRepository) ResolveRequest(_ context.Context, requestID string, status domain.RequestStatus, managerResponse string, managerID *string, credentials *domain.CardCredentials) (domain.CardRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	request, ok := r.store.cardRequests[requestID]
	if !ok {
		return domain.CardRequest{}, domain.ErrRecordNotFound
	}
	if request.Status != domain.RequestStatusPending {
		return domain.CardRequest{}, domain.ErrInvalidTransition
	}

	if credentials != nil {
		for id, other := range r.store.cardRequests {
			if id != requestID && other.Credentials != nil && other.Credentials.CardNumber == credentials.CardNumber {
				return domain.CardRequest{}, domain.ErrConcurrencyConflict
			}
		}
		value := *credentials
		request.Credentials = &value
	}

	request.Status = status
	request.ManagerResponse = managerResponse
	if managerID != nil {
		request.ManagerID = managerID
	}
	request.UpdatedAt = time.Now().UTC()
	r.store.cardRequests[requestID] = request

	return request, nil
}

func (r *CardRepository) listRequests(match func(domain.CardRequest) bool) ([]domain.CardRequest, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var requests []domain.CardRequest
	for _, request := range r.store.cardRequests {
		if match(request) {
			requests = append(requests, request)
		}
	}

	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.Before(requests[j].CreatedAt)
	})
	return requests, nil
}

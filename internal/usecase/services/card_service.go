package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atlasbank/core-banking/internal/adapter/events"
	"github.com/atlasbank/core-banking/internal/adapter/http/models"
	"github.com/atlasbank/core-banking/internal/adapter/repository/repo_interfaces"
	"github.com/atlasbank/core-banking/internal/commons"
	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/atlasbank/core-banking/internal/logger"
)

const cardValidityYears = 5
const maxIssuanceAttempts = 5

type CardService struct {
	cardRepo    repo_interfaces.CardRepository
	accountRepo repo_interfaces.AccountRepository
	idGen       *IdentifierGenerator
	publisher   events.Publisher
}

func NewCardService(
	cardRepo repo_interfaces.CardRepository,
	accountRepo repo_interfaces.AccountRepository,
	idGen *IdentifierGenerator,
	publisher events.Publisher,
) *CardService {
	return &CardService{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
		idGen:       idGen,
		publisher:   publisher,
	}
}

func (s *CardService) CreateRequest(ctx context.Context, req models.CreateCardRequestRequest) (commons.Response[models.CardRequestResponse], error) {
	logger.Info("card service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CardRequestResponse]("validation failed", err.Error()), err
	}

	client, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(req.ClientAccountNumber))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardRequestResponse]("Client account not found"), err
		}
		return commons.ErrorResponse[models.CardRequestResponse]("failed to create card request", "Unable to create card request right now"), err
	}

	product, err := s.cardRepo.GetProductByID(ctx, strings.TrimSpace(req.ProductID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardRequestResponse]("Card product not found"), err
		}
		return commons.ErrorResponse[models.CardRequestResponse]("failed to create card request", "Unable to create card request right now"), err
	}

	hasApproved, err := s.cardRepo.HasApprovedRequest(ctx, client.ID, product.ID)
	if err != nil {
		logger.Error("card service approved request check failed", err, logger.Fields{
			"clientId":  client.ID,
			"productId": product.ID,
		})
		return commons.ErrorResponse[models.CardRequestResponse]("failed to create card request", "Unable to create card request right now"), err
	}

	if err := domain.ValidateCardRequestCreation(client, product, hasApproved); err != nil {
		return commons.ErrorResponse[models.CardRequestResponse]("validation failed", err.Error()), err
	}

	request := domain.CardRequest{
		ClientID:  client.ID,
		ProductID: product.ID,
		ManagerID: client.ManagerID,
		Status:    domain.RequestStatusPending,
	}

	created, err := s.cardRepo.CreateRequest(ctx, request)
	if err != nil {
		logger.Error("card service create request repository failed", err, logger.Fields{
			"clientId": client.ID,
		})
		return commons.ErrorResponse[models.CardRequestResponse]("failed to create card request", "Unable to create card request right now"), err
	}

	logger.Info("card service create request success", logger.Fields{
		"requestId": created.ID,
		"clientId":  created.ClientID,
	})

	return commons.SuccessResponse("card request created", mapCardRequestToResponse(created)), nil
}

// Resolve drives the pending -> approved/denied transition. Credentials exist
// only after the first approval and are never regenerated; denial generates
// nothing.
func (s *CardService) Resolve(ctx context.Context, requestID string, req models.ResolveRequestRequest) (commons.Response[models.CardRequestResponse], error) {
	logger.Info("card service resolve request", logger.Fields{
		"requestId": requestID,
		"payload":   logger.SanitizePayload(req),
	})

	if strings.TrimSpace(requestID) == "" {
		return commons.ErrorResponse[models.CardRequestResponse]("validation failed", "requestId is required"), fmt.Errorf("requestId is required")
	}
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CardRequestResponse]("validation failed", err.Error()), err
	}
	decision := domain.RequestStatus(strings.ToUpper(strings.TrimSpace(req.Decision)))

	request, err := s.cardRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardRequestResponse]("Card request not found"), err
		}
		return commons.ErrorResponse[models.CardRequestResponse]("failed to resolve card request", "Unable to resolve card request right now"), err
	}

	if err := domain.ValidateResolution(request.Status, decision); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return commons.ErrorResponse[models.CardRequestResponse]("Request already resolved", err.Error()), err
		}
		return commons.ErrorResponse[models.CardRequestResponse]("validation failed", err.Error()), err
	}

	var managerID *string
	if trimmed := strings.TrimSpace(req.ManagerID); trimmed != "" {
		if _, err := s.accountRepo.GetManager(ctx, trimmed); err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return commons.ErrorResponse[models.CardRequestResponse]("Manager not found"), err
			}
			return commons.ErrorResponse[models.CardRequestResponse]("failed to resolve card request", "Unable to resolve card request right now"), err
		}
		managerID = &trimmed
	}
	managerResponse := strings.TrimSpace(req.ManagerResponse)

	var resolved domain.CardRequest
	if decision == domain.RequestStatusApproved {
		resolved, err = s.approveWithCredentials(ctx, requestID, managerResponse, managerID)
	} else {
		resolved, err = s.cardRepo.ResolveRequest(ctx, requestID, decision, managerResponse, managerID, nil)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return commons.ErrorResponse[models.CardRequestResponse]("Request already resolved", err.Error()), err
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CardRequestResponse]("Card request not found"), err
		}
		logger.Error("card service resolve failed", err, logger.Fields{
			"requestId": requestID,
		})
		return commons.ErrorResponse[models.CardRequestResponse]("failed to resolve card request", "Unable to resolve card request right now"), err
	}

	s.publish(ctx, events.RoutingKeyCardResolved, map[string]any{
		"requestId": resolved.ID,
		"clientId":  resolved.ClientID,
		"productId": resolved.ProductID,
		"status":    string(resolved.Status),
	})

	logger.Info("card service resolve success", logger.Fields{
		"requestId": resolved.ID,
		"status":    resolved.Status,
	})

	return commons.SuccessResponse("card request resolved", mapCardRequestToResponse(resolved)), nil
}

// approveWithCredentials generates the card credentials and persists them with
// the approved status in one write. A card-number collision detected by the
// uniqueness constraint rolls the transition back, so the request is still
// pending and the draw can be retried with a fresh number.
func (s *CardService) approveWithCredentials(ctx context.Context, requestID string, managerResponse string, managerID *string) (domain.CardRequest, error) {
	var lastErr error
	for attempt := 0; attempt < maxIssuanceAttempts; attempt++ {
		cardNumber, err := s.idGen.CardNumber(ctx, s.cardRepo.CardNumberExists)
		if err != nil {
			return domain.CardRequest{}, err
		}

		credentials := &domain.CardCredentials{
			CardNumber:   cardNumber,
			ExpiresAt:    time.Now().UTC().AddDate(cardValidityYears, 0, 0),
			SecurityCode: s.idGen.SecurityCode(),
			PIN:          s.idGen.PIN(),
		}

		resolved, err := s.cardRepo.ResolveRequest(ctx, requestID, domain.RequestStatusApproved, managerResponse, managerID, credentials)
		if err == nil {
			return resolved, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return domain.CardRequest{}, err
		}
		lastErr = err
	}
	return domain.CardRequest{}, lastErr
}

func (s *CardService) ListProducts(ctx context.Context) (commons.Response[[]models.CardProductResponse], error) {
	products, err := s.cardRepo.ListProducts(ctx)
	if err != nil {
		logger.Error("card service list products failed", err, nil)
		return commons.ErrorResponse[[]models.CardProductResponse]("failed to list card products", "Unable to list card products right now"), err
	}

	responses := make([]models.CardProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, models.CardProductResponse{
			ID:            product.ID,
			Name:          product.Name,
			Description:   product.Description,
			Category:      string(product.Category),
			MinCreditLine: product.MinCreditLine,
			MaxCreditLine: product.MaxCreditLine,
			DisplayColor:  product.DisplayColor,
		})
	}
	return commons.SuccessResponse("card products fetched successfully", responses), nil
}

func (s *CardService) ListRequestsByClient(ctx context.Context, accountNumber string) (commons.Response[[]models.CardRequestResponse], error) {
	client, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.CardRequestResponse]("Client account not found"), err
		}
		return commons.ErrorResponse[[]models.CardRequestResponse]("failed to list card requests", "Unable to list card requests right now"), err
	}

	requests, err := s.cardRepo.ListRequestsByClient(ctx, client.ID)
	if err != nil {
		return commons.ErrorResponse[[]models.CardRequestResponse]("failed to list card requests", "Unable to list card requests right now"), err
	}

	responses := make([]models.CardRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, mapCardRequestToResponse(request))
	}
	return commons.SuccessResponse("card requests fetched successfully", responses), nil
}

func (s *CardService) ListPendingRequests(ctx context.Context) (commons.Response[[]models.CardRequestResponse], error) {
	requests, err := s.cardRepo.ListPendingRequests(ctx)
	if err != nil {
		logger.Error("card service list pending failed", err, nil)
		return commons.ErrorResponse[[]models.CardRequestResponse]("failed to list card requests", "Unable to list card requests right now"), err
	}

	responses := make([]models.CardRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, mapCardRequestToResponse(request))
	}
	return commons.SuccessResponse("card requests fetched successfully", responses), nil
}

func (s *CardService) publish(ctx context.Context, routingKey string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		logger.Error("card service event publish failed", err, logger.Fields{
			"routingKey": routingKey,
		})
	}
}

func mapCardRequestToResponse(request domain.CardRequest) models.CardRequestResponse {
	response := models.CardRequestResponse{
		ID:              request.ID,
		ClientID:        request.ClientID,
		ProductID:       request.ProductID,
		ManagerID:       request.ManagerID,
		Status:          string(request.Status),
		ManagerResponse: request.ManagerResponse,
		CreatedAt:       request.CreatedAt.Format(time.RFC3339),
	}
	if request.Credentials != nil {
		response.Credentials = &models.CardCredentialsResponse{
			CardNumber:   request.Credentials.CardNumber,
			ExpiresAt:    request.Credentials.ExpiresAt.Format("2006-01-02"),
			SecurityCode: request.Credentials.SecurityCode,
			PIN:          request.Credentials.PIN,
		}
	}
	return response
}

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
	"github.com/shopspring/decimal"
)

type CreditService struct {
	creditRepo  repo_interfaces.CreditRequestRepository
	accountRepo repo_interfaces.AccountRepository
	publisher   events.Publisher
}

func NewCreditService(
	creditRepo repo_interfaces.CreditRequestRepository,
	accountRepo repo_interfaces.AccountRepository,
	publisher events.Publisher,
) *CreditService {
	return &CreditService{
		creditRepo:  creditRepo,
		accountRepo: accountRepo,
		publisher:   publisher,
	}
}

func (s *CreditService) CreateRequest(ctx context.Context, req models.CreateCreditRequestRequest) (commons.Response[models.CreditRequestResponse], error) {
	logger.Info("credit service create request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CreditRequestResponse]("validation failed", err.Error()), err
	}

	client, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(req.ClientAccountNumber))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CreditRequestResponse]("Client account not found"), err
		}
		return commons.ErrorResponse[models.CreditRequestResponse]("failed to create credit request", "Unable to create credit request right now"), err
	}

	if err := domain.ValidateCreditRequestAmount(req.Amount); err != nil {
		return commons.ErrorResponse[models.CreditRequestResponse]("validation failed", err.Error()), err
	}

	request := domain.CreditRequest{
		ClientID:  client.ID,
		ManagerID: client.ManagerID,
		Amount:    req.Amount,
		Reason:    strings.TrimSpace(req.Reason),
		Status:    domain.RequestStatusPending,
	}

	created, err := s.creditRepo.Create(ctx, request)
	if err != nil {
		logger.Error("credit service create request repository failed", err, logger.Fields{
			"clientId": client.ID,
		})
		return commons.ErrorResponse[models.CreditRequestResponse]("failed to create credit request", "Unable to create credit request right now"), err
	}

	logger.Info("credit service create request success", logger.Fields{
		"requestId": created.ID,
		"clientId":  created.ClientID,
	})

	return commons.SuccessResponse("credit request created", mapCreditRequestToResponse(created)), nil
}

// Resolve drives the pending -> approved/denied transition. The credit-line
// increase is bound to the first transition into approved; the repository's
// conditional update guarantees it can never apply twice.
func (s *CreditService) Resolve(ctx context.Context, requestID string, req models.ResolveRequestRequest) (commons.Response[models.CreditRequestResponse], error) {
	logger.Info("credit service resolve request", logger.Fields{
		"requestId": requestID,
		"payload":   logger.SanitizePayload(req),
	})

	if strings.TrimSpace(requestID) == "" {
		return commons.ErrorResponse[models.CreditRequestResponse]("validation failed", "requestId is required"), fmt.Errorf("requestId is required")
	}
	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.CreditRequestResponse]("validation failed", err.Error()), err
	}
	decision := domain.RequestStatus(strings.ToUpper(strings.TrimSpace(req.Decision)))

	request, err := s.creditRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CreditRequestResponse]("Credit request not found"), err
		}
		return commons.ErrorResponse[models.CreditRequestResponse]("failed to resolve credit request", "Unable to resolve credit request right now"), err
	}

	if err := domain.ValidateResolution(request.Status, decision); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return commons.ErrorResponse[models.CreditRequestResponse]("Request already resolved", err.Error()), err
		}
		return commons.ErrorResponse[models.CreditRequestResponse]("validation failed", err.Error()), err
	}

	creditDelta := decimal.Zero
	if decision == domain.RequestStatusApproved {
		creditDelta = request.Amount
	}

	var managerID *string
	if trimmed := strings.TrimSpace(req.ManagerID); trimmed != "" {
		if _, err := s.accountRepo.GetManager(ctx, trimmed); err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return commons.ErrorResponse[models.CreditRequestResponse]("Manager not found"), err
			}
			return commons.ErrorResponse[models.CreditRequestResponse]("failed to resolve credit request", "Unable to resolve credit request right now"), err
		}
		managerID = &trimmed
	}

	resolved, err := s.creditRepo.Resolve(ctx, requestID, decision, strings.TrimSpace(req.ManagerResponse), managerID, creditDelta)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return commons.ErrorResponse[models.CreditRequestResponse]("Request already resolved", err.Error()), err
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.CreditRequestResponse]("Credit request not found"), err
		}
		logger.Error("credit service resolve repository failed", err, logger.Fields{
			"requestId": requestID,
		})
		return commons.ErrorResponse[models.CreditRequestResponse]("failed to resolve credit request", "Unable to resolve credit request right now"), err
	}

	s.publish(ctx, events.RoutingKeyCreditResolved, map[string]any{
		"requestId": resolved.ID,
		"clientId":  resolved.ClientID,
		"status":    string(resolved.Status),
		"amount":    resolved.Amount.StringFixed(2),
	})

	logger.Info("credit service resolve success", logger.Fields{
		"requestId": resolved.ID,
		"status":    resolved.Status,
	})

	return commons.SuccessResponse("credit request resolved", mapCreditRequestToResponse(resolved)), nil
}

func (s *CreditService) ListPending(ctx context.Context) (commons.Response[[]models.CreditRequestResponse], error) {
	requests, err := s.creditRepo.ListPending(ctx)
	if err != nil {
		logger.Error("credit service list pending failed", err, nil)
		return commons.ErrorResponse[[]models.CreditRequestResponse]("failed to list credit requests", "Unable to list credit requests right now"), err
	}

	responses := make([]models.CreditRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, mapCreditRequestToResponse(request))
	}
	return commons.SuccessResponse("credit requests fetched successfully", responses), nil
}

func (s *CreditService) ListByClient(ctx context.Context, accountNumber string) (commons.Response[[]models.CreditRequestResponse], error) {
	client, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[[]models.CreditRequestResponse]("Client account not found"), err
		}
		return commons.ErrorResponse[[]models.CreditRequestResponse]("failed to list credit requests", "Unable to list credit requests right now"), err
	}

	requests, err := s.creditRepo.ListByClient(ctx, client.ID)
	if err != nil {
		return commons.ErrorResponse[[]models.CreditRequestResponse]("failed to list credit requests", "Unable to list credit requests right now"), err
	}

	responses := make([]models.CreditRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, mapCreditRequestToResponse(request))
	}
	return commons.SuccessResponse("credit requests fetched successfully", responses), nil
}

func (s *CreditService) publish(ctx context.Context, routingKey string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		logger.Error("credit service event publish failed", err, logger.Fields{
			"routingKey": routingKey,
		})
	}
}

func mapCreditRequestToResponse(request domain.CreditRequest) models.CreditRequestResponse {
	return models.CreditRequestResponse{
		ID:              request.ID,
		ClientID:        request.ClientID,
		ManagerID:       request.ManagerID,
		Amount:          request.Amount,
		Reason:          request.Reason,
		Status:          string(request.Status),
		ManagerResponse: request.ManagerResponse,
		CreatedAt:       request.CreatedAt.Format(time.RFC3339),
	}
}

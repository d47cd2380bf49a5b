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

type TransferService struct {
	transferRepo repo_interfaces.TransferRepository
	accountRepo  repo_interfaces.AccountRepository
	publisher    events.Publisher
}

func NewTransferService(
	transferRepo repo_interfaces.TransferRepository,
	accountRepo repo_interfaces.AccountRepository,
	publisher events.Publisher,
) *TransferService {
	return &TransferService{
		transferRepo: transferRepo,
		accountRepo:  accountRepo,
		publisher:    publisher,
	}
}

// Execute moves funds from the sender to the receiver as one atomic unit.
// Validation failures never reach persistence; there is no failed record for
// a rejected transfer.
func (s *TransferService) Execute(ctx context.Context, req models.TransferRequest) (commons.Response[models.TransferResponse], error) {
	logger.Info("transfer service execute request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	sender, err := s.accountRepo.GetByAccountNumber(ctx, strings.TrimSpace(req.SenderAccountNumber))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Sender account not found"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	receiver, err := s.accountRepo.GetByTaxID(ctx, strings.TrimSpace(req.ReceiverTaxID))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Receiver account not found"), err
		}
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	if sender.Status != domain.AccountStatusActive {
		err := fmt.Errorf("sender account is not active")
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}
	if receiver.Status != domain.AccountStatusActive {
		err := fmt.Errorf("receiver account is not active")
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	if err := domain.ValidateTransfer(sender, receiver, req.Amount); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return commons.ErrorResponse[models.TransferResponse]("Insufficient balance", err.Error()), err
		}
		return commons.ErrorResponse[models.TransferResponse]("validation failed", err.Error()), err
	}

	// The repository re-checks the balance under the account locks; the read
	// above is only for early, user-friendly rejection.
	record, err := s.transferRepo.PerformTransfer(ctx, sender.ID, receiver.ID, req.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return commons.ErrorResponse[models.TransferResponse]("Insufficient balance", err.Error()), err
		}
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.TransferResponse]("Sender account not found"), err
		}
		logger.Error("transfer service perform transfer failed", err, logger.Fields{
			"senderId":   sender.ID,
			"receiverId": receiver.ID,
		})
		return commons.ErrorResponse[models.TransferResponse]("failed to process transfer", "Unable to process transfer right now"), err
	}

	s.publish(ctx, events.RoutingKeyTransferCompleted, map[string]any{
		"transferId":            record.ID,
		"senderAccountNumber":   sender.AccountNumber,
		"receiverAccountNumber": receiver.AccountNumber,
		"amount":                record.Amount.StringFixed(2),
	})

	response := models.TransferResponse{
		ID:                    record.ID,
		SenderAccountNumber:   sender.AccountNumber,
		ReceiverAccountNumber: receiver.AccountNumber,
		Amount:                record.Amount,
		Status:                string(record.Status),
		CreatedAt:             record.CreatedAt.Format(time.RFC3339),
	}

	logger.Info("transfer service execute success", logger.Fields{
		"transferId": record.ID,
	})

	return commons.SuccessResponse("transfer completed", response), nil
}

// Statement lists an account's transfers in chronological order.
func (s *TransferService) Statement(ctx context.Context, accountNumber string) (commons.Response[models.StatementResponse], error) {
	logger.Info("transfer service statement request", logger.Fields{
		"accountNumber": accountNumber,
	})

	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return commons.ErrorResponse[models.StatementResponse]("validation failed", "accountNumber is required"), fmt.Errorf("accountNumber is required")
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.StatementResponse]("Account not found"), err
		}
		return commons.ErrorResponse[models.StatementResponse]("failed to get statement", "Unable to fetch statement right now"), err
	}

	records, err := s.transferRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		logger.Error("transfer service statement list failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return commons.ErrorResponse[models.StatementResponse]("failed to get statement", "Unable to fetch statement right now"), err
	}

	entries := make([]models.StatementEntry, 0, len(records))
	for _, record := range records {
		direction := "IN"
		if record.SenderID == account.ID {
			direction = "OUT"
		}
		entries = append(entries, models.StatementEntry{
			TransferID: record.ID,
			Direction:  direction,
			Amount:     record.Amount,
			Status:     string(record.Status),
			CreatedAt:  record.CreatedAt.Format(time.RFC3339),
		})
	}

	response := models.StatementResponse{
		AccountNumber: account.AccountNumber,
		Entries:       entries,
	}
	return commons.SuccessResponse("statement fetched successfully", response), nil
}

func (s *TransferService) publish(ctx context.Context, routingKey string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, routingKey, payload); err != nil {
		logger.Error("transfer service event publish failed", err, logger.Fields{
			"routingKey": routingKey,
		})
	}
}

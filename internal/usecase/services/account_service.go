package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atlasbank/core-banking/internal/adapter/http/models"
	"github.com/atlasbank/core-banking/internal/adapter/repository/repo_interfaces"
	"github.com/atlasbank/core-banking/internal/commons"
	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/atlasbank/core-banking/internal/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	accountRepo repo_interfaces.AccountRepository
	idGen       *IdentifierGenerator
}

func NewAccountService(accountRepo repo_interfaces.AccountRepository, idGen *IdentifierGenerator) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

func (s *AccountService) Register(ctx context.Context, req models.RegisterAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		logger.Error("account service register validation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	taxID := strings.TrimSpace(req.TaxID)
	taken, err := s.accountRepo.TaxIDExists(ctx, taxID)
	if err != nil {
		logger.Error("account service register tax id check failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("failed to register account", "Unable to register account right now"), err
	}
	if taken {
		err := fmt.Errorf("taxId is already registered")
		return commons.ErrorResponse[models.AccountResponse]("validation failed", err.Error()), err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(req.Password)), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("account service register hash password failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("failed to register account", "Unable to register account right now"), err
	}

	accountNumber, err := s.idGen.AccountNumber(ctx, s.accountRepo.AccountNumberExists)
	if err != nil {
		logger.Error("account service register account number generation failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("failed to register account", "Unable to register account right now"), err
	}

	var managerID *string
	if trimmed := strings.TrimSpace(req.ManagerID); trimmed != "" {
		if _, err := s.accountRepo.GetManager(ctx, trimmed); err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return commons.ErrorResponse[models.AccountResponse]("Manager not found"), err
			}
			logger.Error("account service register manager lookup failed", err, nil)
			return commons.ErrorResponse[models.AccountResponse]("failed to register account", "Unable to register account right now"), err
		}
		managerID = &trimmed
	}

	account := domain.Account{
		AccountNumber: accountNumber,
		TaxID:         taxID,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         strings.TrimSpace(req.Email),
		PasswordHash:  string(passwordHash),
		Balance:       decimal.Zero,
		CreditLine:    decimal.Zero,
		Status:        domain.AccountStatusActive,
		ManagerID:     managerID,
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		logger.Error("account service register repository failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to register account", "Unable to register account right now"), err
	}

	response := mapAccountToResponse(created)
	logger.Info("account service register success", logger.Fields{
		"accountId":     response.ID,
		"accountNumber": response.AccountNumber,
	})

	return commons.SuccessResponse("account registered successfully", response), nil
}

func (s *AccountService) GetByAccountNumber(ctx context.Context, accountNumber string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service get account request", logger.Fields{
		"accountNumber": accountNumber,
	})

	accountNumber = strings.TrimSpace(accountNumber)
	if accountNumber == "" {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", "accountNumber is required"), fmt.Errorf("accountNumber is required")
	}

	account, err := s.accountRepo.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service get account failed", err, logger.Fields{
			"accountNumber": accountNumber,
		})
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func (s *AccountService) GetByTaxID(ctx context.Context, taxID string) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service get account by tax id request", nil)

	taxID = strings.TrimSpace(taxID)
	if taxID == "" {
		return commons.ErrorResponse[models.AccountResponse]("validation failed", "taxId is required"), fmt.Errorf("taxId is required")
	}

	account, err := s.accountRepo.GetByTaxID(ctx, taxID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return commons.ErrorResponse[models.AccountResponse]("Account not found"), err
		}
		logger.Error("account service get account by tax id failed", err, nil)
		return commons.ErrorResponse[models.AccountResponse]("failed to get account", "Unable to fetch account right now"), err
	}

	return commons.SuccessResponse("account fetched successfully", mapAccountToResponse(account)), nil
}

func mapAccountToResponse(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		TaxID:         account.TaxID,
		FullName:      account.FullName,
		Email:         account.Email,
		Balance:       account.Balance,
		CreditLine:    account.CreditLine,
		Status:        string(account.Status),
		ManagerID:     account.ManagerID,
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
	}
}

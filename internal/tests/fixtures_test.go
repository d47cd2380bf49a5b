package services_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atlasbank/core-banking/internal/adapter/http/models"
	"github.com/atlasbank/core-banking/internal/adapter/repository/memory"
	"github.com/atlasbank/core-banking/internal/usecase/services"
)

type fixture struct {
	t *testing.T

	accountRepo  *memory.AccountRepository
	transferRepo *memory.TransferRepository
	creditRepo   *memory.CreditRequestRepository
	cardRepo     *memory.CardRepository

	accounts  *services.AccountService
	transfers *services.TransferService
	credits   *services.CreditService
	cards     *services.CardService

	nextTaxID int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	accountRepo := memory.NewAccountRepository(store)
	transferRepo := memory.NewTransferRepository(store)
	creditRepo := memory.NewCreditRequestRepository(store)
	cardRepo := memory.NewCardRepository(store)

	idGen := services.NewIdentifierGenerator(rand.NewSource(1))

	return &fixture{
		t:            t,
		accountRepo:  accountRepo,
		transferRepo: transferRepo,
		creditRepo:   creditRepo,
		cardRepo:     cardRepo,
		accounts:     services.NewAccountService(accountRepo, idGen),
		transfers:    services.NewTransferService(transferRepo, accountRepo, nil),
		credits:      services.NewCreditService(creditRepo, accountRepo, nil),
		cards:        services.NewCardService(cardRepo, accountRepo, idGen, nil),
	}
}

func (f *fixture) registerAccount(fullName string) models.AccountResponse {
	f.t.Helper()

	f.nextTaxID++
	taxID := fmt.Sprintf("%03d.%03d.%03d-%02d", f.nextTaxID, f.nextTaxID, f.nextTaxID, f.nextTaxID%100)

	response, err := f.accounts.Register(context.Background(), models.RegisterAccountRequest{
		TaxID:    taxID,
		FullName: fullName,
		Email:    fmt.Sprintf("%03d@example.com", f.nextTaxID),
		Password: "secret123",
	})
	if err != nil {
		f.t.Fatalf("register account %q: %v (%s)", fullName, err, response.Message)
	}
	return *response.Data
}

func (f *fixture) fund(accountID string, amount string) {
	f.t.Helper()

	if err := f.accountRepo.AdjustBalance(context.Background(), accountID, decimal.RequireFromString(amount)); err != nil {
		f.t.Fatalf("fund account %s: %v", accountID, err)
	}
}

func (f *fixture) balanceOf(accountNumber string) decimal.Decimal {
	f.t.Helper()

	account, err := f.accountRepo.GetByAccountNumber(context.Background(), accountNumber)
	if err != nil {
		f.t.Fatalf("get account %s: %v", accountNumber, err)
	}
	return account.Balance
}

func (f *fixture) creditLineOf(accountNumber string) decimal.Decimal {
	f.t.Helper()

	account, err := f.accountRepo.GetByAccountNumber(context.Background(), accountNumber)
	if err != nil {
		f.t.Fatalf("get account %s: %v", accountNumber, err)
	}
	return account.CreditLine
}

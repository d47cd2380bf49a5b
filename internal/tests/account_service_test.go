package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atlasbank/core-banking/internal/adapter/http/models"
)

func TestAccountServiceRegisterValidationError(t *testing.T) {
	f := newFixture(t)

	response, err := f.accounts.Register(context.Background(), models.RegisterAccountRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty register request")
	}
	if response.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", response.Message)
	}
}

func TestAccountServiceRegisterStartsWithZeroBalances(t *testing.T) {
	f := newFixture(t)

	account := f.registerAccount("Ana Souza")

	if len(account.AccountNumber) != 8 {
		t.Fatalf("expected 8-digit account number, got %q", account.AccountNumber)
	}
	if !account.Balance.Equal(decimal.Zero) {
		t.Fatalf("expected zero opening balance, got %s", account.Balance)
	}
	if !account.CreditLine.Equal(decimal.Zero) {
		t.Fatalf("expected zero opening credit line, got %s", account.CreditLine)
	}
	if account.Status != "ACTIVE" {
		t.Fatalf("expected ACTIVE status, got %q", account.Status)
	}
}

func TestAccountServiceRegisterRejectsDuplicateTaxID(t *testing.T) {
	f := newFixture(t)

	first := f.registerAccount("Ana Souza")

	response, err := f.accounts.Register(context.Background(), models.RegisterAccountRequest{
		TaxID:    first.TaxID,
		FullName: "Outra Pessoa",
		Email:    "outra@example.com",
		Password: "secret123",
	})
	if err == nil {
		t.Fatal("expected error for duplicate tax id")
	}
	if response.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", response.Message)
	}
}

func TestAccountServiceGetByAccountNumberNotFound(t *testing.T) {
	f := newFixture(t)

	response, err := f.accounts.GetByAccountNumber(context.Background(), "99999999")
	if err == nil {
		t.Fatal("expected error for unknown account number")
	}
	if response.Message != "Account not found" {
		t.Fatalf("expected not found message, got %q", response.Message)
	}
}

func TestAccountServiceGetByTaxID(t *testing.T) {
	f := newFixture(t)

	account := f.registerAccount("Ana Souza")

	response, err := f.accounts.GetByTaxID(context.Background(), account.TaxID)
	if err != nil {
		t.Fatalf("get by tax id: %v (%s)", err, response.Message)
	}
	if response.Data.AccountNumber != account.AccountNumber {
		t.Fatalf("expected account %s, got %s", account.AccountNumber, response.Data.AccountNumber)
	}

	missing, err := f.accounts.GetByTaxID(context.Background(), "999.999.999-99")
	if err == nil {
		t.Fatal("expected error for unknown tax id")
	}
	if missing.Message != "Account not found" {
		t.Fatalf("expected not found message, got %q", missing.Message)
	}
}

func TestAccountServiceRegisterGeneratesDistinctAccountNumbers(t *testing.T) {
	f := newFixture(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		account := f.registerAccount("Cliente")
		if seen[account.AccountNumber] {
			t.Fatalf("account number %s issued twice", account.AccountNumber)
		}
		seen[account.AccountNumber] = true
	}
}

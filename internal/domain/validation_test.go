package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func activeAccount(id string, balance string) Account {
	return Account{
		ID:      id,
		Balance: decimal.RequireFromString(balance),
		Status:  AccountStatusActive,
	}
}

func TestValidateTransferRejectsSameAccount(t *testing.T) {
	account := activeAccount("a1", "100.00")

	err := ValidateTransfer(account, account, decimal.RequireFromString("10.00"))
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestValidateTransferRejectsNonPositiveAmount(t *testing.T) {
	sender := activeAccount("a1", "100.00")
	receiver := activeAccount("a2", "0.00")

	for _, amount := range []string{"0.00", "-5.00"} {
		if err := ValidateTransfer(sender, receiver, decimal.RequireFromString(amount)); !IsValidationError(err) {
			t.Fatalf("expected validation error for amount %s, got %v", amount, err)
		}
	}
}

func TestValidateTransferInsufficientBalance(t *testing.T) {
	sender := activeAccount("a1", "100.00")
	receiver := activeAccount("a2", "0.00")

	err := ValidateTransfer(sender, receiver, decimal.RequireFromString("100.01"))
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestValidateTransferAllowsExactBalance(t *testing.T) {
	sender := activeAccount("a1", "100.00")
	receiver := activeAccount("a2", "0.00")

	if err := ValidateTransfer(sender, receiver, decimal.RequireFromString("100.00")); err != nil {
		t.Fatalf("expected exact-balance transfer to pass, got %v", err)
	}
}

func TestValidateResolutionTransitions(t *testing.T) {
	if err := ValidateResolution(RequestStatusPending, RequestStatusApproved); err != nil {
		t.Fatalf("expected pending to approved to pass, got %v", err)
	}
	if err := ValidateResolution(RequestStatusPending, RequestStatusDenied); err != nil {
		t.Fatalf("expected pending to denied to pass, got %v", err)
	}

	if err := ValidateResolution(RequestStatusApproved, RequestStatusDenied); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from approved, got %v", err)
	}
	if err := ValidateResolution(RequestStatusDenied, RequestStatusApproved); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from denied, got %v", err)
	}

	if err := ValidateResolution(RequestStatusPending, RequestStatusPending); !IsValidationError(err) {
		t.Fatalf("expected validation error for pending decision, got %v", err)
	}
}

func TestValidateCardRequestCreation(t *testing.T) {
	client := Account{CreditLine: decimal.RequireFromString("500.00")}
	product := CardProduct{MinCreditLine: decimal.RequireFromString("1000.00")}

	if err := ValidateCardRequestCreation(client, product, false); !IsValidationError(err) {
		t.Fatalf("expected validation error for low credit line, got %v", err)
	}

	product.MinCreditLine = decimal.RequireFromString("500.00")
	if err := ValidateCardRequestCreation(client, product, false); err != nil {
		t.Fatalf("expected matching credit line to pass, got %v", err)
	}

	if err := ValidateCardRequestCreation(client, product, true); !IsValidationError(err) {
		t.Fatalf("expected validation error for existing approved request, got %v", err)
	}
}

func TestValidateCreditRequestAmount(t *testing.T) {
	if err := ValidateCreditRequestAmount(decimal.Zero); !IsValidationError(err) {
		t.Fatalf("expected validation error for zero amount, got %v", err)
	}
	if err := ValidateCreditRequestAmount(decimal.RequireFromString("0.01")); err != nil {
		t.Fatalf("expected positive amount to pass, got %v", err)
	}
}

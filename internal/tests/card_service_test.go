package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atlasbank/core-banking/internal/adapter/http/models"
	"github.com/atlasbank/core-banking/internal/domain"
)

func (f *fixture) seedProduct(name string, category domain.CardCategory, minCreditLine string) domain.CardProduct {
	f.t.Helper()

	return f.cardRepo.SeedProduct(domain.CardProduct{
		Name:          name,
		Description:   name + " card",
		Category:      category,
		MinCreditLine: decimal.RequireFromString(minCreditLine),
		MaxCreditLine: decimal.RequireFromString(minCreditLine).Mul(decimal.NewFromInt(10)),
		DisplayColor:  "#1A73E8",
	})
}

func TestCardServiceCreateRequestValidationError(t *testing.T) {
	f := newFixture(t)

	response, err := f.cards.CreateRequest(context.Background(), models.CreateCardRequestRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty card request")
	}
	if response.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", response.Message)
	}
}

func TestCardServiceRejectsClientBelowMinimumCreditLine(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")
	product := f.seedProduct("Platinum", domain.CardCategoryCredit, "1000.00")

	response, err := f.cards.CreateRequest(context.Background(), models.CreateCardRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		ProductID:           product.ID,
	})
	if err == nil {
		t.Fatal("expected rejection for client below minimum credit line")
	}
	if response.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", response.Message)
	}
}

func TestCardServiceApprovalIssuesCredentialsExactlyOnce(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")
	product := f.seedProduct("Essential", domain.CardCategoryDebit, "0.00")

	created, err := f.cards.CreateRequest(context.Background(), models.CreateCardRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		ProductID:           product.ID,
	})
	if err != nil {
		t.Fatalf("create card request: %v (%s)", err, created.Message)
	}
	if created.Data.Credentials != nil {
		t.Fatal("expected no credentials on a pending request")
	}

	resolved, err := f.cards.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision:        "APPROVED",
		ManagerResponse: "approved",
	})
	if err != nil {
		t.Fatalf("resolve card request: %v (%s)", err, resolved.Message)
	}

	credentials := resolved.Data.Credentials
	if credentials == nil {
		t.Fatal("expected credentials on approval")
	}
	if len(credentials.CardNumber) != 16 {
		t.Fatalf("expected 16-digit card number, got %q", credentials.CardNumber)
	}
	if len(credentials.SecurityCode) != 3 {
		t.Fatalf("expected 3-digit security code, got %q", credentials.SecurityCode)
	}
	if len(credentials.PIN) != 4 {
		t.Fatalf("expected 4-digit pin, got %q", credentials.PIN)
	}
	expiresAt, err := time.Parse("2006-01-02", credentials.ExpiresAt)
	if err != nil {
		t.Fatalf("parse expiry %q: %v", credentials.ExpiresAt, err)
	}
	if years := expiresAt.Year() - time.Now().UTC().Year(); years != 5 {
		t.Fatalf("expected expiry five years out, got %d", years)
	}

	again, err := f.cards.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision: "APPROVED",
	})
	if err == nil {
		t.Fatal("expected error resolving an already resolved request")
	}
	if again.Message != "Request already resolved" {
		t.Fatalf("expected already resolved message, got %q", again.Message)
	}

	listed, err := f.cards.ListRequestsByClient(context.Background(), client.AccountNumber)
	if err != nil {
		t.Fatalf("list card requests: %v", err)
	}
	requests := *listed.Data
	if len(requests) != 1 || requests[0].Credentials == nil {
		t.Fatal("expected the single approved request to keep its credentials")
	}
	if requests[0].Credentials.CardNumber != credentials.CardNumber {
		t.Fatalf("credentials changed after re-resolution attempt: %q vs %q",
			requests[0].Credentials.CardNumber, credentials.CardNumber)
	}
}

func TestCardServiceDenialGeneratesNoCredentials(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")
	product := f.seedProduct("Essential", domain.CardCategoryDebit, "0.00")

	created, err := f.cards.CreateRequest(context.Background(), models.CreateCardRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		ProductID:           product.ID,
	})
	if err != nil {
		t.Fatalf("create card request: %v (%s)", err, created.Message)
	}

	resolved, err := f.cards.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision:        "DENIED",
		ManagerResponse: "profile does not qualify",
	})
	if err != nil {
		t.Fatalf("resolve card request: %v (%s)", err, resolved.Message)
	}
	if resolved.Data.Status != "DENIED" {
		t.Fatalf("expected DENIED status, got %q", resolved.Data.Status)
	}
	if resolved.Data.Credentials != nil {
		t.Fatal("expected no credentials on denial")
	}
}

func TestCardServiceBlocksSecondRequestAfterApprovalOnly(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")
	product := f.seedProduct("Essential", domain.CardCategoryDebit, "0.00")

	first, err := f.cards.CreateRequest(context.Background(), models.CreateCardRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		ProductID:           product.ID,
	})
	if err != nil {
		t.Fatalf("create card request: %v (%s)", err, first.Message)
	}

	if _, err := f.cards.Resolve(context.Background(), first.Data.ID, models.ResolveRequestRequest{
		Decision: "DENIED",
	}); err != nil {
		t.Fatalf("deny first request: %v", err)
	}

	// A denied request does not block a fresh attempt.
	second, err := f.cards.CreateRequest(context.Background(), models.CreateCardRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		ProductID:           product.ID,
	})
	if err != nil {
		t.Fatalf("create second card request: %v (%s)", err, second.Message)
	}

	if _, err := f.cards.Resolve(context.Background(), second.Data.ID, models.ResolveRequestRequest{
		Decision: "APPROVED",
	}); err != nil {
		t.Fatalf("approve second request: %v", err)
	}

	third, err := f.cards.CreateRequest(context.Background(), models.CreateCardRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		ProductID:           product.ID,
	})
	if err == nil {
		t.Fatal("expected rejection after an approved request for the same product")
	}
	if third.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", third.Message)
	}
}

func TestCardServiceListProducts(t *testing.T) {
	f := newFixture(t)

	f.seedProduct("Essential", domain.CardCategoryDebit, "0.00")
	f.seedProduct("Platinum", domain.CardCategoryCredit, "1000.00")

	response, err := f.cards.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	products := *response.Data
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Essential" || products[1].Name != "Platinum" {
		t.Fatalf("expected products sorted by name, got %q then %q",
			products[0].Name, products[1].Name)
	}
	if products[1].DisplayColor == "" {
		t.Fatal("expected display color on product listing")
	}
}

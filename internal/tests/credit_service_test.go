package services_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/atlasbank/core-banking/internal/adapter/http/models"
	"github.com/atlasbank/core-banking/internal/domain"
)

func TestCreditServiceCreateRequestValidationError(t *testing.T) {
	f := newFixture(t)

	response, err := f.credits.CreateRequest(context.Background(), models.CreateCreditRequestRequest{})
	if err == nil {
		t.Fatal("expected validation error for empty credit request")
	}
	if response.Message != "validation failed" {
		t.Fatalf("expected validation failed message, got %q", response.Message)
	}
}

func TestCreditServiceApprovalRaisesCreditLineExactlyOnce(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")

	created, err := f.credits.CreateRequest(context.Background(), models.CreateCreditRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		Amount:              decimal.RequireFromString("500.00"),
		Reason:              "home renovation",
	})
	if err != nil {
		t.Fatalf("create credit request: %v (%s)", err, created.Message)
	}
	if created.Data.Status != "PENDING" {
		t.Fatalf("expected PENDING status, got %q", created.Data.Status)
	}

	resolved, err := f.credits.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision:        "APPROVED",
		ManagerResponse: "approved per income review",
	})
	if err != nil {
		t.Fatalf("resolve credit request: %v (%s)", err, resolved.Message)
	}
	if resolved.Data.Status != "APPROVED" {
		t.Fatalf("expected APPROVED status, got %q", resolved.Data.Status)
	}
	if got := f.creditLineOf(client.AccountNumber); !got.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("expected credit line 500.00 after approval, got %s", got)
	}

	again, err := f.credits.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision: "APPROVED",
	})
	if err == nil {
		t.Fatal("expected error resolving an already resolved request")
	}
	if again.Message != "Request already resolved" {
		t.Fatalf("expected already resolved message, got %q", again.Message)
	}
	if got := f.creditLineOf(client.AccountNumber); !got.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("credit line applied twice: got %s", got)
	}
}

func TestCreditServiceDenialLeavesCreditLineUntouched(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")

	created, err := f.credits.CreateRequest(context.Background(), models.CreateCreditRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		Amount:              decimal.RequireFromString("900.00"),
		Reason:              "vehicle purchase",
	})
	if err != nil {
		t.Fatalf("create credit request: %v (%s)", err, created.Message)
	}

	resolved, err := f.credits.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision:        "DENIED",
		ManagerResponse: "income insufficient",
	})
	if err != nil {
		t.Fatalf("resolve credit request: %v (%s)", err, resolved.Message)
	}
	if resolved.Data.Status != "DENIED" {
		t.Fatalf("expected DENIED status, got %q", resolved.Data.Status)
	}
	if got := f.creditLineOf(client.AccountNumber); !got.Equal(decimal.Zero) {
		t.Fatalf("expected credit line untouched at zero, got %s", got)
	}
}

func TestCreditServiceConcurrentResolutionAppliesOnce(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")

	created, err := f.credits.CreateRequest(context.Background(), models.CreateCreditRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		Amount:              decimal.RequireFromString("250.00"),
		Reason:              "emergency fund",
	})
	if err != nil {
		t.Fatalf("create credit request: %v (%s)", err, created.Message)
	}

	var wins atomic.Int32
	var group errgroup.Group
	for i := 0; i < 8; i++ {
		group.Go(func() error {
			_, err := f.credits.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
				Decision: "APPROVED",
			})
			if err == nil {
				wins.Add(1)
			}
			return nil
		})
	}
	_ = group.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one winning resolution, got %d", wins.Load())
	}
	if got := f.creditLineOf(client.AccountNumber); !got.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("expected credit line 250.00, got %s", got)
	}
}

func TestCreditServiceResolveRecordsManager(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")
	manager := f.accountRepo.SeedManager(domain.Manager{
		FullName:         "Carla Mendes",
		RegistrationCode: "MGR-0001",
		Email:            "carla@example.com",
	})

	created, err := f.credits.CreateRequest(context.Background(), models.CreateCreditRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		Amount:              decimal.RequireFromString("300.00"),
		Reason:              "travel",
	})
	if err != nil {
		t.Fatalf("create credit request: %v (%s)", err, created.Message)
	}

	resolved, err := f.credits.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision:        "APPROVED",
		ManagerResponse: "ok",
		ManagerID:       manager.ID,
	})
	if err != nil {
		t.Fatalf("resolve credit request: %v (%s)", err, resolved.Message)
	}
	if resolved.Data.ManagerID == nil || *resolved.Data.ManagerID != manager.ID {
		t.Fatalf("expected resolution to record manager %s", manager.ID)
	}
}

func TestCreditServiceResolveRejectsUnknownManager(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")

	created, err := f.credits.CreateRequest(context.Background(), models.CreateCreditRequestRequest{
		ClientAccountNumber: client.AccountNumber,
		Amount:              decimal.RequireFromString("300.00"),
		Reason:              "travel",
	})
	if err != nil {
		t.Fatalf("create credit request: %v (%s)", err, created.Message)
	}

	response, err := f.credits.Resolve(context.Background(), created.Data.ID, models.ResolveRequestRequest{
		Decision:  "APPROVED",
		ManagerID: "no-such-manager",
	})
	if err == nil {
		t.Fatal("expected error for unknown manager")
	}
	if response.Message != "Manager not found" {
		t.Fatalf("expected manager not found message, got %q", response.Message)
	}
	if got := f.creditLineOf(client.AccountNumber); !got.Equal(decimal.Zero) {
		t.Fatalf("expected credit line untouched, got %s", got)
	}
}

func TestCreditServiceResolveUnknownRequest(t *testing.T) {
	f := newFixture(t)

	response, err := f.credits.Resolve(context.Background(), "missing-id", models.ResolveRequestRequest{
		Decision: "APPROVED",
	})
	if err == nil {
		t.Fatal("expected error for unknown credit request")
	}
	if response.Message != "Credit request not found" {
		t.Fatalf("expected not found message, got %q", response.Message)
	}
}

func TestCreditServiceListPendingAndByClient(t *testing.T) {
	f := newFixture(t)

	client := f.registerAccount("Ana Souza")
	other := f.registerAccount("Bruno Lima")

	for _, accountNumber := range []string{client.AccountNumber, other.AccountNumber} {
		response, err := f.credits.CreateRequest(context.Background(), models.CreateCreditRequestRequest{
			ClientAccountNumber: accountNumber,
			Amount:              decimal.RequireFromString("100.00"),
			Reason:              "working capital",
		})
		if err != nil {
			t.Fatalf("create credit request: %v (%s)", err, response.Message)
		}
	}

	pending, err := f.credits.ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if got := *pending.Data; len(got) != 2 {
		t.Fatalf("expected 2 pending requests, got %d", len(got))
	}

	byClient, err := f.credits.ListByClient(context.Background(), client.AccountNumber)
	if err != nil {
		t.Fatalf("list by client: %v", err)
	}
	clientRequests := *byClient.Data
	if len(clientRequests) != 1 {
		t.Fatalf("expected 1 request for client, got %d", len(clientRequests))
	}
	if clientRequests[0].ClientID != client.ID {
		t.Fatalf("expected request for client %s, got %s", client.ID, clientRequests[0].ClientID)
	}
}

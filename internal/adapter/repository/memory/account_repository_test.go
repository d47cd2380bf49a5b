package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/atlasbank/core-banking/internal/domain"
)

// Lookups by account number or tax id read the full account struct; ledger
// adjustments mutate Balance under the per-account mutex. Both sides must
// share that mutex, otherwise the race detector flags the scan.
func TestFindByConcurrentWithBalanceAdjustments(t *testing.T) {
	store := NewStore()
	accounts := NewAccountRepository(store)
	ctx := context.Background()

	account := seedAccount(t, accounts, "10000001", "0.00")
	other := seedAccount(t, accounts, "10000002", "0.00")

	const iterations = 2000
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			_ = accounts.AdjustBalance(ctx, account.ID, decimal.RequireFromString("0.01"))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if _, err := accounts.GetByAccountNumber(ctx, account.AccountNumber); err != nil {
				t.Errorf("get by account number: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			if _, err := accounts.GetByTaxID(ctx, other.TaxID); err != nil {
				t.Errorf("get by tax id: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	got, err := accounts.GetByID(ctx, account.ID)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if !got.Balance.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("expected balance 20.00 after %d adjustments, got %s", iterations, got.Balance)
	}
}

func TestFindByUnknownAccount(t *testing.T) {
	store := NewStore()
	accounts := NewAccountRepository(store)

	_, err := accounts.GetByAccountNumber(context.Background(), "99999999")
	if err != domain.ErrRecordNotFound {
		t.Fatalf("expected record not found, got %v", err)
	}
}

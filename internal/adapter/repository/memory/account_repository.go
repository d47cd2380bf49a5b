package memory

import (
	"context"
	"time"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{store: store}
}

func (r *AccountRepository) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.accounts {
		if existing.account.AccountNumber == account.AccountNumber || existing.account.TaxID == account.TaxID {
			return domain.Account{}, domain.ErrConcurrencyConflict
		}
	}

	account.ID = uuid.NewString()
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.store.accounts[account.ID] = &accountRecord{account: account}
	return account, nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (domain.Account, error) {
	record, ok := r.store.getAccountRecord(id)
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()
	return record.account, nil
}

func (r *AccountRepository) GetByAccountNumber(_ context.Context, accountNumber string) (domain.Account, error) {
	return r.findBy(func(a domain.Account) bool { return a.AccountNumber == accountNumber })
}

func (r *AccountRepository) GetByTaxID(_ context.Context, taxID string) (domain.Account, error) {
	return r.findBy(func(a domain.Account) bool { return a.TaxID == taxID })
}

func (r *AccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	_, err := r.GetByAccountNumber(ctx, accountNumber)
	if err == domain.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AccountRepository) TaxIDExists(ctx context.Context, taxID string) (bool, error) {
	_, err := r.GetByTaxID(ctx, taxID)
	if err == domain.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AccountRepository) AdjustBalance(_ context.Context, accountID string, delta decimal.Decimal) error {
	record, ok := r.store.getAccountRecord(accountID)
	if !ok {
		return domain.ErrRecordNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()
	record.account.Balance = record.account.Balance.Add(delta)
	record.account.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *AccountRepository) AdjustCredit(_ context.Context, accountID string, delta decimal.Decimal) error {
	record, ok := r.store.getAccountRecord(accountID)
	if !ok {
		return domain.ErrRecordNotFound
	}

	record.mu.Lock()
	defer record.mu.Unlock()
	record.account.CreditLine = record.account.CreditLine.Add(delta)
	record.account.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *AccountRepository) SeedManager(manager domain.Manager) domain.Manager {
	manager.ID = uuid.NewString()
	manager.CreatedAt = time.Now().UTC()

	r.store.mu.Lock()
	r.store.managers[manager.ID] = manager
	r.store.mu.Unlock()

	return manager
}

func (r *AccountRepository) GetManager(_ context.Context, id string) (domain.Manager, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	manager, ok := r.store.managers[id]
	if !ok {
		return domain.Manager{}, domain.ErrRecordNotFound
	}
	return manager, nil
}

// findBy snapshots the record set under the store lock, then evaluates the
// predicate under each record's own mutex: Balance and CreditLine are mutated
// under record.mu only, so the account must never be read without it.
func (r *AccountRepository) findBy(match func(domain.Account) bool) (domain.Account, error) {
	r.store.mu.Lock()
	records := make([]*accountRecord, 0, len(r.store.accounts))
	for _, record := range r.store.accounts {
		records = append(records, record)
	}
	r.store.mu.Unlock()

	for _, record := range records {
		record.mu.Lock()
		if match(record.account) {
			account := record.account
			record.mu.Unlock()
			return account, nil
		}
		record.mu.Unlock()
	}

	return domain.Account{}, domain.ErrRecordNotFound
}

package memory

import (
	"sort"
	"sync"

	"github.com/atlasbank/core-banking/internal/domain"
)

// Store backs the in-memory repositories used by tests and local runs. Each
// account carries its own mutex so ledger mutations are serialized per
// account, mirroring the row locks the Postgres implementations take. The
// store mutex guards map structure and the workflow entities.
type Store struct {
	mu             sync.Mutex
	accounts       map[string]*accountRecord
	managers       map[string]domain.Manager
	transfers      []domain.TransferRecord
	creditRequests map[string]domain.CreditRequest
	cardProducts   map[string]domain.CardProduct
	cardRequests   map[string]domain.CardRequest
}

type accountRecord struct {
	mu      sync.Mutex
	account domain.Account
}

func NewStore() *Store {
	return &Store{
		accounts:       make(map[string]*accountRecord),
		managers:       make(map[string]domain.Manager),
		creditRequests: make(map[string]domain.CreditRequest),
		cardProducts:   make(map[string]domain.CardProduct),
		cardRequests:   make(map[string]domain.CardRequest),
	}
}

func (s *Store) getAccountRecord(id string) (*accountRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.accounts[id]
	return record, ok
}

// lockAccounts acquires the per-account mutexes in ascending account-number
// order, the same fixed global order the Postgres transfer transaction uses.
func lockAccounts(records ...*accountRecord) func() {
	ordered := make([]*accountRecord, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].account.AccountNumber < ordered[j].account.AccountNumber
	})

	for _, record := range ordered {
		record.mu.Lock()
	}
	return func() {
		for i := len(ordered) - 1; i >= 0; i-- {
			ordered[i].mu.Unlock()
		}
	}
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransferRepository struct {
	store *Store
}

func NewTransferRepository(store *Store) *TransferRepository {
	return &TransferRepository{store: store}
}

// PerformTransfer holds both account locks (ascending account-number order)
// for the whole read-check-write, so the balance check can never act on a
// stale read.
func (r *TransferRepository) PerformTransfer(_ context.Context, senderID string, receiverID string, amount decimal.Decimal) (domain.TransferRecord, error) {
	if senderID == receiverID {
		return domain.TransferRecord{}, domain.NewValidationError("sender and receiver accounts cannot be the same")
	}

	sender, ok := r.store.getAccountRecord(senderID)
	if !ok {
		return domain.TransferRecord{}, domain.ErrRecordNotFound
	}
	receiver, ok := r.store.getAccountRecord(receiverID)
	if !ok {
		return domain.TransferRecord{}, domain.ErrRecordNotFound
	}

	unlock := lockAccounts(sender, receiver)

	if sender.account.Balance.LessThan(amount) {
		unlock()
		return domain.TransferRecord{}, domain.ErrInsufficientBalance
	}

	now := time.Now().UTC()
	sender.account.Balance = sender.account.Balance.Sub(amount)
	sender.account.UpdatedAt = now
	receiver.account.Balance = receiver.account.Balance.Add(amount)
	receiver.account.UpdatedAt = now
	unlock()

	record := domain.TransferRecord{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Status:     domain.TransferStatusCompleted,
		CreatedAt:  now,
	}

	r.store.mu.Lock()
	r.store.transfers = append(r.store.transfers, record)
	r.store.mu.Unlock()

	return record, nil
}

func (r *TransferRepository) ListByAccount(_ context.Context, accountID string) ([]domain.TransferRecord, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var records []domain.TransferRecord
	for _, record := range r.store.transfers {
		if record.SenderID == accountID || record.ReceiverID == accountID {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/atlasbank/core-banking/internal/logger"
	"github.com/shopspring/decimal"
)

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// PerformTransfer moves funds between two accounts and records the completed
// transfer in a single transaction. Both rows are locked in ascending
// account-number order so two opposite-direction transfers cannot deadlock,
// and the sender balance is checked under that lock.
func (r *TransferRepository) PerformTransfer(ctx context.Context, senderID string, receiverID string, amount decimal.Decimal) (domain.TransferRecord, error) {
	logger.Info("transfer repository perform transfer", logger.Fields{
		"senderId":   senderID,
		"receiverId": receiverID,
		"amount":     amount.StringFixed(2),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transfer repository begin tx failed", err, nil)
		return domain.TransferRecord{}, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lockQuery = `
SELECT id, balance
FROM accounts
WHERE id IN ($1, $2)
ORDER BY account_number
FOR UPDATE`

	rows, err := tx.QueryContext(ctx, lockQuery, senderID, receiverID)
	if err != nil {
		return domain.TransferRecord{}, fmt.Errorf("lock accounts: %w", err)
	}

	balances := make(map[string]string, 2)
	for rows.Next() {
		var id, balance string
		if err = rows.Scan(&id, &balance); err != nil {
			rows.Close()
			return domain.TransferRecord{}, fmt.Errorf("scan locked account: %w", err)
		}
		balances[id] = balance
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return domain.TransferRecord{}, fmt.Errorf("iterate locked accounts: %w", err)
	}

	senderBalance, ok := balances[senderID]
	if !ok {
		err = domain.ErrRecordNotFound
		return domain.TransferRecord{}, err
	}
	if _, ok = balances[receiverID]; !ok {
		err = domain.ErrRecordNotFound
		return domain.TransferRecord{}, err
	}

	available, err := decimal.NewFromString(senderBalance)
	if err != nil {
		return domain.TransferRecord{}, fmt.Errorf("parse sender balance: %w", err)
	}
	if available.LessThan(amount) {
		err = domain.ErrInsufficientBalance
		return domain.TransferRecord{}, err
	}

	const debitQuery = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE id = $1`
	if _, err = tx.ExecContext(ctx, debitQuery, senderID, amount.StringFixed(2)); err != nil {
		return domain.TransferRecord{}, fmt.Errorf("debit sender: %w", err)
	}

	const creditQuery = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1`
	if _, err = tx.ExecContext(ctx, creditQuery, receiverID, amount.StringFixed(2)); err != nil {
		return domain.TransferRecord{}, fmt.Errorf("credit receiver: %w", err)
	}

	const insertQuery = `
INSERT INTO transfers (sender_id, receiver_id, amount, status)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at`

	record := domain.TransferRecord{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
		Status:     domain.TransferStatusCompleted,
	}
	if err = tx.QueryRowContext(
		ctx,
		insertQuery,
		senderID,
		receiverID,
		amount.StringFixed(2),
		record.Status,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return domain.TransferRecord{}, fmt.Errorf("insert transfer record: %w", err)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("transfer repository commit tx failed", err, nil)
		return domain.TransferRecord{}, fmt.Errorf("commit transfer transaction: %w", err)
	}

	logger.Info("transfer repository perform transfer success", logger.Fields{
		"transferId": record.ID,
		"senderId":   senderID,
		"receiverId": receiverID,
	})

	return record, nil
}

func (r *TransferRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.TransferRecord, error) {
	const query = `
SELECT id, sender_id, receiver_id, amount, status, created_at
FROM transfers
WHERE sender_id = $1 OR receiver_id = $1
ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var records []domain.TransferRecord
	for rows.Next() {
		var (
			record domain.TransferRecord
			amount string
		)
		if err := rows.Scan(
			&record.ID,
			&record.SenderID,
			&record.ReceiverID,
			&amount,
			&record.Status,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transfer record: %w", err)
		}

		parsed, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("parse transfer amount: %w", err)
		}
		record.Amount = parsed
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer records: %w", err)
	}

	return records, nil
}

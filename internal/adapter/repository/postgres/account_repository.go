package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/atlasbank/core-banking/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, account_number, tax_id, full_name, email, password_hash, balance, credit_line, status, manager_id, created_at, updated_at`

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"accountNumber": account.AccountNumber,
		"taxId":         account.TaxID,
	})

	const query = `
INSERT INTO accounts (
	account_number,
	tax_id,
	full_name,
	email,
	password_hash,
	balance,
	credit_line,
	status,
	manager_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, created_at, updated_at`

	var (
		id        string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.AccountNumber,
		account.TaxID,
		account.FullName,
		account.Email,
		account.PasswordHash,
		account.Balance.StringFixed(2),
		account.CreditLine.StringFixed(2),
		account.Status,
		account.ManagerID,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		logger.Error("account repository create failed", err, logger.Fields{
			"accountNumber": account.AccountNumber,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	logger.Info("account repository create success", logger.Fields{
		"accountId":     account.ID,
		"accountNumber": account.AccountNumber,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.getOne(ctx, query, accountNumber)
}

func (r *AccountRepository) GetByTaxID(ctx context.Context, taxID string) (domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE tax_id = $1`
	return r.getOne(ctx, query, taxID)
}

func (r *AccountRepository) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("check account number: %w", err)
	}
	return exists, nil
}

func (r *AccountRepository) TaxIDExists(ctx context.Context, taxID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM accounts WHERE tax_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, taxID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check tax id: %w", err)
	}
	return exists, nil
}

// AdjustBalance applies delta in one durable statement. Sufficiency is the
// caller's responsibility; the balance CHECK constraint is the last line of
// defense against a missed validation.
func (r *AccountRepository) AdjustBalance(ctx context.Context, accountID string, delta decimal.Decimal) error {
	const query = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1`

	return r.adjust(ctx, query, accountID, delta, "balance")
}

func (r *AccountRepository) AdjustCredit(ctx context.Context, accountID string, delta decimal.Decimal) error {
	const query = `
UPDATE accounts
SET credit_line = credit_line + $2::numeric,
    updated_at = NOW()
WHERE id = $1`

	return r.adjust(ctx, query, accountID, delta, "credit_line")
}

func (r *AccountRepository) adjust(ctx context.Context, query string, accountID string, delta decimal.Decimal, field string) error {
	result, err := r.db.ExecContext(ctx, query, accountID, delta.StringFixed(2))
	if err != nil {
		logger.Error("account repository adjust failed", err, logger.Fields{
			"accountId": accountID,
			"field":     field,
		})
		return fmt.Errorf("adjust account %s: %w", field, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust account %s rows affected: %w", field, err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	logger.Info("account repository adjust success", logger.Fields{
		"accountId": accountID,
		"field":     field,
	})
	return nil
}

func (r *AccountRepository) GetManager(ctx context.Context, id string) (domain.Manager, error) {
	const query = `SELECT id, full_name, registration_code, email, created_at FROM managers WHERE id = $1`

	var manager domain.Manager
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&manager.ID,
		&manager.FullName,
		&manager.RegistrationCode,
		&manager.Email,
		&manager.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Manager{}, domain.ErrRecordNotFound
		}
		return domain.Manager{}, fmt.Errorf("get manager: %w", err)
	}
	return manager, nil
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg string) (domain.Account, error) {
	var (
		account    domain.Account
		balance    string
		creditLine string
		managerID  sql.NullString
	)

	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.AccountNumber,
		&account.TaxID,
		&account.FullName,
		&account.Email,
		&account.PasswordHash,
		&balance,
		&creditLine,
		&account.Status,
		&managerID,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return domain.Account{}, domain.ErrRecordNotFound
		}
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	parsedBalance, err := decimal.NewFromString(balance)
	if err != nil {
		return domain.Account{}, fmt.Errorf("parse account balance: %w", err)
	}
	parsedCredit, err := decimal.NewFromString(creditLine)
	if err != nil {
		return domain.Account{}, fmt.Errorf("parse account credit line: %w", err)
	}

	account.Balance = parsedBalance
	account.CreditLine = parsedCredit
	if managerID.Valid {
		value := managerID.String
		account.ManagerID = &value
	}

	return account, nil
}

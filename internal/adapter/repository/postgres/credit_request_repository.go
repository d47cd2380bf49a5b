package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/atlasbank/core-banking/internal/logger"
	"github.com/shopspring/decimal"
)

type CreditRequestRepository struct {
	db *sql.DB
}

func NewCreditRequestRepository(db *sql.DB) *CreditRequestRepository {
	return &CreditRequestRepository{db: db}
}

const creditRequestColumns = `id, client_id, manager_id, amount, reason, status, manager_response, created_at, updated_at`

func (r *CreditRequestRepository) Create(ctx context.Context, request domain.CreditRequest) (domain.CreditRequest, error) {
	logger.Info("credit request repository create", logger.Fields{
		"clientId": request.ClientID,
		"amount":   request.Amount.StringFixed(2),
	})

	const query = `
INSERT INTO credit_requests (client_id, manager_id, amount, reason, status, manager_response)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		request.ClientID,
		request.ManagerID,
		request.Amount.StringFixed(2),
		request.Reason,
		request.Status,
		request.ManagerResponse,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		logger.Error("credit request repository create failed", err, logger.Fields{
			"clientId": request.ClientID,
		})
		return domain.CreditRequest{}, fmt.Errorf("create credit request: %w", err)
	}

	return request, nil
}

func (r *CreditRequestRepository) GetByID(ctx context.Context, id string) (domain.CreditRequest, error) {
	const query = `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE id = $1`

	request, err := scanCreditRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.CreditRequest{}, domain.ErrRecordNotFound
		}
		return domain.CreditRequest{}, fmt.Errorf("get credit request: %w", err)
	}
	return request, nil
}

func (r *CreditRequestRepository) ListByClient(ctx context.Context, clientID string) ([]domain.CreditRequest, error) {
	const query = `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE client_id = $1 ORDER BY created_at`
	return r.list(ctx, query, clientID)
}

func (r *CreditRequestRepository) ListPending(ctx context.Context) ([]domain.CreditRequest, error) {
	const query = `SELECT ` + creditRequestColumns + ` FROM credit_requests WHERE status = 'PENDING' ORDER BY created_at`
	return r.list(ctx, query)
}

// Resolve performs the conditional PENDING -> terminal transition and, when
// creditDelta is positive, applies the credit-line increase in the same
// transaction. The WHERE status = 'PENDING' guard is what makes a duplicate
// approval a detected error instead of a double-applied side effect.
func (r *CreditRequestRepository) Resolve(ctx context.Context, requestID string, status domain.RequestStatus, managerResponse string, managerID *string, creditDelta decimal.Decimal) (domain.CreditRequest, error) {
	logger.Info("credit request repository resolve", logger.Fields{
		"requestId": requestID,
		"status":    status,
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.CreditRequest{}, fmt.Errorf("begin resolve transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const transitionQuery = `
UPDATE credit_requests
SET status = $2,
    manager_response = $3,
    manager_id = COALESCE($4, manager_id),
    updated_at = NOW()
WHERE id = $1
  AND status = 'PENDING'
RETURNING ` + creditRequestColumns

	request, err := scanCreditRequest(tx.QueryRowContext(ctx, transitionQuery, requestID, status, managerResponse, managerID))
	if err != nil {
		if err == sql.ErrNoRows {
			err = r.classifyMissedTransition(ctx, requestID)
			return domain.CreditRequest{}, err
		}
		return domain.CreditRequest{}, fmt.Errorf("resolve credit request: %w", err)
	}

	if creditDelta.IsPositive() {
		const creditQuery = `
UPDATE accounts
SET credit_line = credit_line + $2::numeric,
    updated_at = NOW()
WHERE id = $1`

		var result sql.Result
		result, err = tx.ExecContext(ctx, creditQuery, request.ClientID, creditDelta.StringFixed(2))
		if err != nil {
			return domain.CreditRequest{}, fmt.Errorf("apply credit line increase: %w", err)
		}
		var affected int64
		affected, err = result.RowsAffected()
		if err != nil {
			return domain.CreditRequest{}, fmt.Errorf("credit line rows affected: %w", err)
		}
		if affected == 0 {
			err = domain.ErrRecordNotFound
			return domain.CreditRequest{}, err
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.CreditRequest{}, fmt.Errorf("commit resolve transaction: %w", err)
	}

	logger.Info("credit request repository resolve success", logger.Fields{
		"requestId": request.ID,
		"status":    request.Status,
	})

	return request, nil
}

func (r *CreditRequestRepository) classifyMissedTransition(ctx context.Context, requestID string) error {
	const query = `SELECT status FROM credit_requests WHERE id = $1`

	var current domain.RequestStatus
	if err := r.db.QueryRowContext(ctx, query, requestID).Scan(&current); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("classify missed transition: %w", err)
	}
	return domain.ErrInvalidTransition
}

func (r *CreditRequestRepository) list(ctx context.Context, query string, args ...any) ([]domain.CreditRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list credit requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.CreditRequest
	for rows.Next() {
		request, err := scanCreditRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credit requests: %w", err)
	}

	return requests, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreditRequest(row rowScanner) (domain.CreditRequest, error) {
	var (
		request   domain.CreditRequest
		managerID sql.NullString
		amount    string
		response  sql.NullString
	)

	if err := row.Scan(
		&request.ID,
		&request.ClientID,
		&managerID,
		&amount,
		&request.Reason,
		&request.Status,
		&response,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return domain.CreditRequest{}, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.CreditRequest{}, fmt.Errorf("parse credit request amount: %w", err)
	}
	request.Amount = parsed

	if managerID.Valid {
		value := managerID.String
		request.ManagerID = &value
	}
	if response.Valid {
		request.ManagerResponse = response.String
	}

	return request, nil
}

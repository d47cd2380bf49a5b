package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atlasbank/core-banking/internal/domain"
	"github.com/atlasbank/core-banking/internal/logger"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type CardRepository struct {
	db *sql.DB
}

func NewCardRepository(db *sql.DB) *CardRepository {
	return &CardRepository{db: db}
}

const cardProductColumns = `id, name, description, category, min_credit_line, max_credit_line, display_color, created_at`
const cardRequestColumns = `id, client_id, product_id, manager_id, status, manager_response, card_number, expires_at, security_code, pin, created_at, updated_at`

func (r *CardRepository) GetProductByID(ctx context.Context, id string) (domain.CardProduct, error) {
	const query = `SELECT ` + cardProductColumns + ` FROM card_products WHERE id = $1`

	product, err := scanCardProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.CardProduct{}, domain.ErrRecordNotFound
		}
		return domain.CardProduct{}, fmt.Errorf("get card product: %w", err)
	}
	return product, nil
}

func (r *CardRepository) ListProducts(ctx context.Context) ([]domain.CardProduct, error) {
	const query = `SELECT ` + cardProductColumns + ` FROM card_products ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list card products: %w", err)
	}
	defer rows.Close()

	var products []domain.CardProduct
	for rows.Next() {
		product, err := scanCardProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card products: %w", err)
	}

	return products, nil
}

func (r *CardRepository) CreateRequest(ctx context.Context, request domain.CardRequest) (domain.CardRequest, error) {
	logger.Info("card repository create request", logger.Fields{
		"clientId":  request.ClientID,
		"productId": request.ProductID,
	})

	const query = `
INSERT INTO card_requests (client_id, product_id, manager_id, status, manager_response)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		request.ClientID,
		request.ProductID,
		request.ManagerID,
		request.Status,
		request.ManagerResponse,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
		logger.Error("card repository create request failed", err, logger.Fields{
			"clientId": request.ClientID,
		})
		return domain.CardRequest{}, fmt.Errorf("create card request: %w", err)
	}

	return request, nil
}

func (r *CardRepository) GetRequestByID(ctx context.Context, id string) (domain.CardRequest, error) {
	const query = `SELECT ` + cardRequestColumns + ` FROM card_requests WHERE id = $1`

	request, err := scanCardRequest(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.CardRequest{}, domain.ErrRecordNotFound
		}
		return domain.CardRequest{}, fmt.Errorf("get card request: %w", err)
	}
	return request, nil
}

func (r *CardRepository) ListRequestsByClient(ctx context.Context, clientID string) ([]domain.CardRequest, error) {
	const query = `SELECT ` + cardRequestColumns + ` FROM card_requests WHERE client_id = $1 ORDER BY created_at`
	return r.listRequests(ctx, query, clientID)
}

func (r *CardRepository) ListPendingRequests(ctx context.Context) ([]domain.CardRequest, error) {
	const query = `SELECT ` + cardRequestColumns + ` FROM card_requests WHERE status = 'PENDING' ORDER BY created_at`
	return r.listRequests(ctx, query)
}

func (r *CardRepository) HasApprovedRequest(ctx context.Context, clientID string, productID string) (bool, error) {
	const query = `
SELECT EXISTS (
	SELECT 1 FROM card_requests
	WHERE client_id = $1 AND product_id = $2 AND status = 'APPROVED'
)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, clientID, productID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check approved card request: %w", err)
	}
	return exists, nil
}

func (r *CardRepository) CardNumberExists(ctx context.Context, cardNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM card_requests WHERE card_number = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, cardNumber).Scan(&exists); err != nil {
		return false, fmt.Errorf("check card number: %w", err)
	}
	return exists, nil
}

// ResolveRequest transitions a pending request and persists the generated
// credentials in the same write. A duplicate card number (unique index) comes
// back as domain.ErrConcurrencyConflict so the caller can redraw and retry;
// the transition itself rolls back, leaving the request pending.
func (r *CardRepository) ResolveRequest(ctx context.Context, requestID string, status domain.RequestStatus, managerResponse string, managerID *string, credentials *domain.CardCredentials) (domain.CardRequest, error) {
	logger.Info("card repository resolve request", logger.Fields{
		"requestId":      requestID,
		"status":         status,
		"hasCredentials": credentials != nil,
	})

	const query = `
UPDATE card_requests
SET status = $2,
    manager_response = $3,
    manager_id = COALESCE($4, manager_id),
    card_number = COALESCE($5, card_number),
    expires_at = COALESCE($6, expires_at),
    security_code = COALESCE($7, security_code),
    pin = COALESCE($8, pin),
    updated_at = NOW()
WHERE id = $1
  AND status = 'PENDING'
RETURNING ` + cardRequestColumns

	var (
		cardNumber   *string
		expiresAt    *string
		securityCode *string
		pin          *string
	)
	if credentials != nil {
		cardNumber = &credentials.CardNumber
		formatted := credentials.ExpiresAt.Format("2006-01-02")
		expiresAt = &formatted
		securityCode = &credentials.SecurityCode
		pin = &credentials.PIN
	}

	request, err := scanCardRequest(r.db.QueryRowContext(
		ctx,
		query,
		requestID,
		status,
		managerResponse,
		managerID,
		cardNumber,
		expiresAt,
		securityCode,
		pin,
	))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.CardRequest{}, r.classifyMissedTransition(ctx, requestID)
		}
		if isUniqueViolation(err) {
			return domain.CardRequest{}, domain.ErrConcurrencyConflict
		}
		return domain.CardRequest{}, fmt.Errorf("resolve card request: %w", err)
	}

	logger.Info("card repository resolve request success", logger.Fields{
		"requestId": request.ID,
		"status":    request.Status,
	})

	return request, nil
}

func (r *CardRepository) classifyMissedTransition(ctx context.Context, requestID string) error {
	const query = `SELECT status FROM card_requests WHERE id = $1`

	var current domain.RequestStatus
	if err := r.db.QueryRowContext(ctx, query, requestID).Scan(&current); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("classify missed transition: %w", err)
	}
	return domain.ErrInvalidTransition
}

func (r *CardRepository) listRequests(ctx context.Context, query string, args ...any) ([]domain.CardRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list card requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.CardRequest
	for rows.Next() {
		request, err := scanCardRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card requests: %w", err)
	}

	return requests, nil
}

func scanCardProduct(row rowScanner) (domain.CardProduct, error) {
	var (
		product domain.CardProduct
		minLine string
		maxLine string
	)

	if err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&minLine,
		&maxLine,
		&product.DisplayColor,
		&product.CreatedAt,
	); err != nil {
		return domain.CardProduct{}, err
	}

	parsedMin, err := decimal.NewFromString(minLine)
	if err != nil {
		return domain.CardProduct{}, fmt.Errorf("parse min credit line: %w", err)
	}
	parsedMax, err := decimal.NewFromString(maxLine)
	if err != nil {
		return domain.CardProduct{}, fmt.Errorf("parse max credit line: %w", err)
	}

	product.MinCreditLine = parsedMin
	product.MaxCreditLine = parsedMax
	return product, nil
}

func scanCardRequest(row rowScanner) (domain.CardRequest, error) {
	var (
		request      domain.CardRequest
		managerID    sql.NullString
		response     sql.NullString
		cardNumber   sql.NullString
		expiresAt    sql.NullTime
		securityCode sql.NullString
		pin          sql.NullString
	)

	if err := row.Scan(
		&request.ID,
		&request.ClientID,
		&request.ProductID,
		&managerID,
		&request.Status,
		&response,
		&cardNumber,
		&expiresAt,
		&securityCode,
		&pin,
		&request.CreatedAt,
		&request.UpdatedAt,
	); err != nil {
		return domain.CardRequest{}, err
	}

	if managerID.Valid {
		value := managerID.String
		request.ManagerID = &value
	}
	if response.Valid {
		request.ManagerResponse = response.String
	}
	if cardNumber.Valid {
		request.Credentials = &domain.CardCredentials{
			CardNumber:   cardNumber.String,
			ExpiresAt:    expiresAt.Time,
			SecurityCode: securityCode.String,
			PIN:          pin.String,
		}
	}

	return request, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
	AccountStatusBlocked  AccountStatus = "BLOCKED"
)

// Account is the ledger root. Balance and CreditLine are owned by the ledger
// and must only change through repository adjustments driven by the engines.
type Account struct {
	ID            string
	AccountNumber string
	TaxID         string
	FullName      string
	Email         string
	PasswordHash  string
	Balance       decimal.Decimal
	CreditLine    decimal.Decimal
	Status        AccountStatus
	ManagerID     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Manager struct {
	ID               string
	FullName         string
	RegistrationCode string
	Email            string
	CreatedAt        time.Time
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CardCategory string

const (
	CardCategoryDebit  CardCategory = "DEBIT"
	CardCategoryCredit CardCategory = "CREDIT"
)

// CardProduct is a static catalog entry, read-only from the workflow side.
type CardProduct struct {
	ID            string
	Name          string
	Description   string
	Category      CardCategory
	MinCreditLine decimal.Decimal
	MaxCreditLine decimal.Decimal
	DisplayColor  string
	CreatedAt     time.Time
}

// CardCredentials are generated once, on the first approval of a request.
type CardCredentials struct {
	CardNumber   string
	ExpiresAt    time.Time
	SecurityCode string
	PIN          string
}

type CardRequest struct {
	ID              string
	ClientID        string
	ProductID       string
	ManagerID       *string
	Status          RequestStatus
	ManagerResponse string
	Credentials     *CardCredentials
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

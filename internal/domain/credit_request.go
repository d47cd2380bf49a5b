package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusDenied   RequestStatus = "DENIED"
)

func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusDenied
}

// CreditRequest is a workflow entity. The credit-line increment belongs to the
// first PENDING -> APPROVED transition and must never be re-applied.
type CreditRequest struct {
	ID              string
	ClientID        string
	ManagerID       *string
	Amount          decimal.Decimal
	Reason          string
	Status          RequestStatus
	ManagerResponse string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

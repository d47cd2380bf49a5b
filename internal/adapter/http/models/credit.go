package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateCreditRequestRequest struct {
	ClientAccountNumber string          `json:"clientAccountNumber"`
	Amount              decimal.Decimal `json:"amount"`
	Reason              string          `json:"reason"`
}

func (r CreateCreditRequestRequest) Validate() error {
	var errs []string

	if !isEightDigits(strings.TrimSpace(r.ClientAccountNumber)) {
		errs = append(errs, "clientAccountNumber must be exactly 8 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if strings.TrimSpace(r.Reason) == "" {
		errs = append(errs, "reason is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type ResolveRequestRequest struct {
	Decision        string `json:"decision"`
	ManagerResponse string `json:"managerResponse"`
	ManagerID       string `json:"managerId"`
}

func (r ResolveRequestRequest) Validate() error {
	decision := strings.ToUpper(strings.TrimSpace(r.Decision))
	if decision != "APPROVED" && decision != "DENIED" {
		return errors.New("decision must be APPROVED or DENIED")
	}
	return nil
}

type CreditRequestResponse struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"clientId"`
	ManagerID       *string         `json:"managerId,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Reason          string          `json:"reason"`
	Status          string          `json:"status"`
	ManagerResponse string          `json:"managerResponse,omitempty"`
	CreatedAt       string          `json:"createdAt"`
}

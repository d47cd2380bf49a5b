package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type RegisterAccountRequest struct {
	TaxID     string `json:"taxId"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ManagerID string `json:"managerId"`
}

func (r RegisterAccountRequest) Validate() error {
	var errs []string

	if !isTaxID(strings.TrimSpace(r.TaxID)) {
		errs = append(errs, "taxId must be in the format XXX.XXX.XXX-XX")
	}
	if strings.TrimSpace(r.FullName) == "" {
		errs = append(errs, "fullName is required")
	}
	email := strings.TrimSpace(r.Email)
	if email == "" || !strings.Contains(email, "@") {
		errs = append(errs, "email is required and must be valid")
	}
	if len(strings.TrimSpace(r.Password)) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type AccountResponse struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	TaxID         string          `json:"taxId"`
	FullName      string          `json:"fullName"`
	Email         string          `json:"email"`
	Balance       decimal.Decimal `json:"balance"`
	CreditLine    decimal.Decimal `json:"creditLine"`
	Status        string          `json:"status"`
	ManagerID     *string         `json:"managerId,omitempty"`
	CreatedAt     string          `json:"createdAt"`
}

package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type CreateCardRequestRequest struct {
	ClientAccountNumber string `json:"clientAccountNumber"`
	ProductID           string `json:"productId"`
}

func (r CreateCardRequestRequest) Validate() error {
	var errs []string

	if !isEightDigits(strings.TrimSpace(r.ClientAccountNumber)) {
		errs = append(errs, "clientAccountNumber must be exactly 8 digits")
	}
	if strings.TrimSpace(r.ProductID) == "" {
		errs = append(errs, "productId is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type CardProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	MinCreditLine decimal.Decimal `json:"minCreditLine"`
	MaxCreditLine decimal.Decimal `json:"maxCreditLine"`
	DisplayColor  string          `json:"displayColor"`
}

type CardCredentialsResponse struct {
	CardNumber   string `json:"cardNumber"`
	ExpiresAt    string `json:"expiresAt"`
	SecurityCode string `json:"securityCode"`
	PIN          string `json:"pin"`
}

type CardRequestResponse struct {
	ID              string                   `json:"id"`
	ClientID        string                   `json:"clientId"`
	ProductID       string                   `json:"productId"`
	ManagerID       *string                  `json:"managerId,omitempty"`
	Status          string                   `json:"status"`
	ManagerResponse string                   `json:"managerResponse,omitempty"`
	Credentials     *CardCredentialsResponse `json:"credentials,omitempty"`
	CreatedAt       string                   `json:"createdAt"`
}

package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	SenderAccountNumber string          `json:"senderAccountNumber"`
	ReceiverTaxID       string          `json:"receiverTaxId"`
	Amount              decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if !isEightDigits(strings.TrimSpace(r.SenderAccountNumber)) {
		errs = append(errs, "senderAccountNumber must be exactly 8 digits")
	}
	if !isTaxID(strings.TrimSpace(r.ReceiverTaxID)) {
		errs = append(errs, "receiverTaxId must be in the format XXX.XXX.XXX-XX")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferResponse struct {
	ID                    string          `json:"id"`
	SenderAccountNumber   string          `json:"senderAccountNumber"`
	ReceiverAccountNumber string          `json:"receiverAccountNumber"`
	Amount                decimal.Decimal `json:"amount"`
	Status                string          `json:"status"`
	CreatedAt             string          `json:"createdAt"`
}

type StatementEntry struct {
	TransferID string          `json:"transferId"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"createdAt"`
}

type StatementResponse struct {
	AccountNumber string           `json:"accountNumber"`
	Entries       []StatementEntry `json:"entries"`
}

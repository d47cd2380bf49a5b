package domain

import "github.com/shopspring/decimal"

// Pure transition predicates. No side effects; callers decide what to do with
// the returned reason.

func ValidateTransfer(sender Account, receiver Account, amount decimal.Decimal) error {
	if sender.ID == receiver.ID {
		return NewValidationError("sender and receiver accounts cannot be the same")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("transfer amount must be greater than zero")
	}
	if sender.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	return nil
}

func ValidateCreditRequestAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("requested amount must be greater than zero")
	}
	return nil
}

func ValidateCardRequestCreation(client Account, product CardProduct, hasApprovedForProduct bool) error {
	if hasApprovedForProduct {
		return NewValidationError("client already holds an approved request for this card product")
	}
	if product.MinCreditLine.GreaterThan(client.CreditLine) {
		return NewValidationError("client credit line is below the minimum required for this card product")
	}
	return nil
}

// ValidateResolution rejects resolving a request that already left PENDING.
// Approved and denied are terminal; re-resolving is an error, never a silent no-op.
func ValidateResolution(current RequestStatus, decision RequestStatus) error {
	if decision != RequestStatusApproved && decision != RequestStatusDenied {
		return NewValidationError("decision must be APPROVED or DENIED")
	}
	if current != RequestStatusPending {
		return ErrInvalidTransition
	}
	return nil
}

package domain

import "errors"

var ErrRecordNotFound = errors.New("record not found")
var ErrInsufficientBalance = errors.New("insufficient balance")
var ErrInvalidTransition = errors.New("request has already been resolved")
var ErrIdentifierExhausted = errors.New("identifier generation exceeded retry limit")
var ErrConcurrencyConflict = errors.New("concurrent update conflict")

// ValidationError carries a reason safe to surface verbatim to the end user.
// Validation failures are detected before any mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel for any disallowed status change.
var ErrInvalidTransition = errors.New("invalid payment state transition")

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeInvalidCurrency      = "INVALID_CURRENCY"
	ErrCodeCurrencyMismatch     = "CURRENCY_MISMATCH"
	ErrCodeInvalidIntent        = "INVALID_INTENT"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeCaptureExceeded      = "CAPTURE_EXCEEDS_AUTHORIZED"
	ErrCodeRefundExceeded       = "REFUND_EXCEEDS_CAPTURED"
	ErrCodeProcessorIDConflict  = "PROCESSOR_ID_CONFLICT"
)

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewInvalidAmountError(amount string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %s", amount),
	}
}

func NewInvalidCurrencyError(currency string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidCurrency,
		Message: fmt.Sprintf("invalid currency code %q", currency),
	}
}

func NewCurrencyMismatchError(want, got string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCurrencyMismatch,
		Message: fmt.Sprintf("currency mismatch: payment is %s, got %s", want, got),
	}
}

func NewInvalidIntentError(intent string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidIntent,
		Message: fmt.Sprintf("invalid payment intent %q", intent),
	}
}

func NewInvalidTransitionError(from, to PaymentStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

func NewInvalidStateError(current, operation string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("payment in status %s cannot be %s", current, operation),
	}
}

func NewCaptureExceededError(requested, captureable string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCaptureExceeded,
		Message: fmt.Sprintf("capture amount %s exceeds captureable remainder %s", requested, captureable),
	}
}

func NewRefundExceededError(requested, refundable string) *DomainError {
	return &DomainError{
		Code:    ErrCodeRefundExceeded,
		Message: fmt.Sprintf("refund amount %s exceeds refundable remainder %s", requested, refundable),
	}
}

func NewProcessorIDConflictError(role, existing, incoming string) *DomainError {
	return &DomainError{
		Code:    ErrCodeProcessorIDConflict,
		Message: fmt.Sprintf("%s already set to %s, refusing to overwrite with %s", role, existing, incoming),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

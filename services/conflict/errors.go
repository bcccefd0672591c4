package conflict

import (
	"errors"
	"fmt"
)

// ValidationError marks malformed or missing input. It is surfaced to the
// caller immediately and never treated as "no conflict".
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ProviderUnavailableError marks a failed commitment fetch. A provider
// failure must never be read as "no existing commitments" — that would
// silently approve conflicting bookings.
type ProviderUnavailableError struct {
	Err error
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("commitment provider unavailable: %v", e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error { return e.Err }

// IsProviderUnavailable reports whether err is (or wraps) a provider failure.
func IsProviderUnavailable(err error) bool {
	var pe *ProviderUnavailableError
	return errors.As(err, &pe)
}

// ErrOwnerBusy is returned when the per-owner write lock cannot be acquired;
// the caller should retry shortly.
var ErrOwnerBusy = errors.New("another booking operation is in progress for this owner")

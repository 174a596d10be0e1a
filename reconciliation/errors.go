package reconciliation

import (
	"errors"

	"github.com/mmdatafocus/dailycash_backend/utils"
)

var (
	ErrMissingSalesFields = errors.New("missing required sales fields")
	ErrNegativeAmount     = errors.New("amounts cannot be negative")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNoChanges          = errors.New("no changes detected")
)

// FieldError ties a validation failure to the form field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Err.Error() + ": " + e.Field
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// DeclinedError is returned when the operator did not confirm a warning.
type DeclinedError struct {
	Warning Warning
}

func (e *DeclinedError) Error() string {
	return "not confirmed: " + e.Warning.Message
}

// IsValidationError reports a hard-blocking local failure (no write was attempted).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingSalesFields) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNoChanges) ||
		errors.Is(err, utils.ErrorInvalidDate)
}

func IsDeclined(err error) (*DeclinedError, bool) {
	var d *DeclinedError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}

package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the business-rule taxonomy. Handlers map them to
// HTTP status codes with errors.Is; none of them is retried internally.
var (
	// ErrValidation is returned for malformed input, e.g. an end date
	// before the start date.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on a duplicate unique key.
	ErrConflict = errors.New("conflict")

	// ErrInsufficientBalance is returned when a request exceeds the
	// employee's remaining vacation days.
	ErrInsufficientBalance = errors.New("insufficient vacation days")

	// ErrInvalidState is returned on an illegal state transition or a
	// missing required association, e.g. a manager without a region.
	ErrInvalidState = errors.New("invalid state")

	// ErrAccessDenied is returned when region-scoped access is refused.
	ErrAccessDenied = errors.New("access denied")
)

// InsufficientBalanceError reports both sides of a failed balance
// check so the caller can reconstruct the precondition.
type InsufficientBalanceError struct {
	Employee  string
	Available int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient vacation days for %s: available %d, requested %d",
		e.Employee, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// NotFoundError names the missing entity kind and key.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

func statef(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidState}, args...)...)
}

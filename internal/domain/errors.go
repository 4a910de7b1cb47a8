package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkingHours matches every ValidationError via errors.Is
	ErrInvalidWorkingHours = errors.New("invalid working hours")

	// ErrInvalidTimezone is returned when an establishment timezone cannot be resolved
	ErrInvalidTimezone = errors.New("invalid establishment timezone")

	// ErrUnknownStatus is returned when parsing an unknown appointment status
	ErrUnknownStatus = errors.New("unknown appointment status")

	// ErrInvalidTransition matches every StatusTransitionError via errors.Is
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError describes the violated working-hours rule
type ValidationError struct {
	Field string // e.g. "monday.lunch_break_end_time"
	Rule  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidWorkingHours, e.Rule)
	}
	return fmt.Sprintf("%s: %s: %s", ErrInvalidWorkingHours, e.Field, e.Rule)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidWorkingHours
}

func newValidationError(field, rule string) *ValidationError {
	return &ValidationError{Field: field, Rule: rule}
}

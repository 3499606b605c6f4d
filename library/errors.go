package library

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned (wrapped with the key) when a title or email
	// lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrIllegalDateRange is returned when a return date precedes the borrow date.
	ErrIllegalDateRange = errors.New("return date is before borrow date")

	ErrUnknownKind      = errors.New("unknown item kind")
	ErrUnknownCategory  = errors.New("unknown patron category")
	ErrUnknownCondition = errors.New("unknown item condition")
)

// ValidationError reports a rejected factory or ledger input. Nothing is
// mutated when one is returned.
//
// Type names the entity being built ("Item", "Patron", "Loan"), Field the
// offending field when there is one. Err, when set, is one of the sentinel
// errors above so callers can use errors.Is.
type ValidationError struct {
	Type   string
	Field  string
	Reason string
	Value  any
	Err    error
}

func (e *ValidationError) Error() string {
	msg := "invalid " + e.Type
	if e.Field != "" {
		msg += "." + e.Field
	}
	msg += ": " + e.Reason
	if e.Value != nil {
		msg += fmt.Sprintf(" (%v)", e.Value)
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Err }

func notFound(what, key string) error {
	return fmt.Errorf("%s %q: %w", what, key, ErrNotFound)
}

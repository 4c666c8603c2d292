package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidCall is returned when the engine is advanced in violation of
// its calling contract. It is always wrapped together with the cause.
var ErrInvalidCall = errors.New("invalid call")

// ErrDialogueDone is the cause of ErrInvalidCall when the dialogue already ended.
var ErrDialogueDone = errors.New("dialogue already ended")

// ErrMissingInput is the cause of ErrInvalidCall when no input is given past the start.
var ErrMissingInput = errors.New("input is required after the opening turn")

// ErrEmptyTable is returned when a content table has no entries.
var ErrEmptyTable = errors.New("content table has no entries")

// ErrInvalidTable is matched by every AggregateError from Table.Validate.
var ErrInvalidTable = errors.New("invalid content table")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Is makes errors.Is(err, ErrInvalidTable) hold for any aggregate.
func (e *AggregateError) Is(target error) bool {
	return target == ErrInvalidTable
}

// Unwrap exposes the individual failures to errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

func indexKey(i int, field string) string {
	key := "entries[" + strconv.Itoa(i) + "]"
	if field != "" {
		key += "." + field
	}
	return key
}

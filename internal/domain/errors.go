package domain

import "fmt"

// ValidationError reports a single malformed or out-of-policy input field.
// It is an expected outcome, surfaced to the caller as 422, never logged
// as a server fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError means the referenced item does not exist or is soft-deleted.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item not found: %s", e.ID)
}

// StoreError wraps an infrastructure failure in the persistence layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

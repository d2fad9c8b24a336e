package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the store, the services and the HTTP layer.
// Match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrExpired           = errors.New("code expired")
	ErrTooManyAttempts   = errors.New("too many attempts")
	ErrInvalidCode       = errors.New("invalid code")
	ErrAlreadyUsed       = errors.New("code already used")
	ErrDependency        = errors.New("dependency failure")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("forbidden")

	// ErrConflict is returned by stores when a check-and-set write finds the
	// row in a different state than expected.
	ErrConflict = errors.New("conflict")
)

// DependencyError reports a failed call to an external collaborator.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() []error { return []error{ErrDependency, e.Err} }

// Dependency wraps err as a DependencyError. It returns nil for a nil err.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DependencyError{Op: op, Err: err}
}

// PartialAdjudicationError means a claim was approved but its item could not be
// moved to claimed. The item needs a reconcile run before the claim is consistent.
type PartialAdjudicationError struct {
	ClaimID string
	ItemID  string
	Err     error
}

func (e *PartialAdjudicationError) Error() string {
	return fmt.Sprintf("claim %s approved but item %s not updated: %v", e.ClaimID, e.ItemID, e.Err)
}

func (e *PartialAdjudicationError) Unwrap() []error { return []error{ErrDependency, e.Err} }

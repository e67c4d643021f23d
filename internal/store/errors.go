package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a second schedule row for the same card).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrCardScheduleNotFound indicates that no scheduling state exists for
	// the requested user/card combination.
	ErrCardScheduleNotFound = fmt.Errorf("%w: card schedule", ErrNotFound)

	// ErrStudySessionNotFound indicates that the requested study session
	// does not exist in the store.
	ErrStudySessionNotFound = fmt.Errorf("%w: study session", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrCardScheduleExists indicates that scheduling state already exists
	// for the given user/card combination.
	ErrCardScheduleExists = fmt.Errorf("%w: card schedule", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// Entity-specific "not found" errors

	// ErrWorkItemNotFound indicates that the requested work item does not
	// exist in the store. NextPending returns it when the queue is empty.
	ErrWorkItemNotFound = fmt.Errorf("%w: work item", ErrNotFound)

	// ErrOutcomeNotFound indicates that the requested outcome record does
	// not exist in the store.
	ErrOutcomeNotFound = fmt.Errorf("%w: outcome record", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrDuplicateItem indicates that a pending work item with the same
	// article URL already exists. Enqueueing the same article twice is
	// rejected so an article is classified at most once per delivery.
	ErrDuplicateItem = fmt.Errorf("%w: article URL", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

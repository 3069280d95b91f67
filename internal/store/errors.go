package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity or key does not exist
	// in the store. Entity-specific variants below wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrCardNotFound indicates that the requested card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrBlobNotFound indicates that the requested image blob does not exist.
	ErrBlobNotFound = fmt.Errorf("%w: blob", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// StorageError is returned when a persistence read or write fails (for
// example when the data directory is unwritable). Services treat write
// failures as soft: they log and continue with in-memory state.
type StorageError struct {
	Key       string // The storage key involved (e.g., "flashcards")
	Operation string // The operation that failed ("read", "write", "delete")
	Err       error  // Original error
}

// Error implements the error interface for StorageError.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s of %q failed: %v", e.Operation, e.Key, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError for the given key and operation.
func NewStorageError(key, operation string, err error) *StorageError {
	return &StorageError{Key: key, Operation: operation, Err: err}
}

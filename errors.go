package resman

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Acquire after the manager has been shut down.
var ErrClosed = errors.New("resource manager is closed")

// CreationError reports a factory failure during Acquire.
//
// No entry is stored when creation fails; the next Acquire for the
// same key retries the factory.
type CreationError struct {
	ResourceType string
	Err          error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("failed to create %s resource: %v", e.ResourceType, e.Err)
}

func (e *CreationError) Unwrap() error {
	return e.Err
}

// IsCreationError checks if an error is a resource creation error.
func IsCreationError(err error) bool {
	var target *CreationError
	return errors.As(err, &target)
}

// CleanupError reports a cleanup failure during eviction or shutdown.
//
// It never reaches an Acquire caller: eviction failures go to the
// Events observer, shutdown failures are additionally joined into
// Shutdown's return value. The entry is removed from the store
// regardless, so a failing external release cannot leak the slot.
type CleanupError struct {
	Key          string
	ResourceType string
	Err          error
}

func (e *CleanupError) Error() string {
	return fmt.Sprintf("failed to clean up %s resource for key %q: %v", e.ResourceType, e.Key, e.Err)
}

func (e *CleanupError) Unwrap() error {
	return e.Err
}

// IsCleanupError checks if an error is a resource cleanup error.
func IsCleanupError(err error) bool {
	var target *CleanupError
	return errors.As(err, &target)
}

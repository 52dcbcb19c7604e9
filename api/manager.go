package api

import (
	"context"

	"github.com/krisalay/resource-manager/types"
)

/*
Manager defines the PUBLIC API of the resource lifecycle manager.
This is a contract that guarantees certain behaviors without exposing
internals. The details (locking, creation dedup, the idle sweep, the
cleanup worker) are hidden behind this interface.
*/
type Manager interface {

	/*
		Acquire returns the resource stored under key, creating it
		if necessary.

		BEHAVIOR:
		---------
		1. If the key exists:
		   - The stored instance is returned as-is (identity stable)
		   - Its idle clock restarts
		   - A differing resourceType is a diagnostic, not an error

		2. If the key does NOT exist:
		   - factory builds the resource (outside any lock)
		   - The result is stored together with cleanup and a fresh
		     instance ID, then returned

		On factory failure nothing is stored and the error is
		returned wrapped with the resourceType; the next Acquire
		retries.
	*/
	Acquire(ctx context.Context, key, resourceType string, factory types.Factory, cleanup types.CleanupFunc) (any, error)

	/*
		Shutdown releases every stored resource and stops the
		background sweep.

		BEHAVIOR:
		---------
		- All cleanups run concurrently, all of them to completion
		- The store is left empty even when some cleanups fail
		- Failures come back joined in the returned error; callers
		  may ignore it
		- Safe to call more than once

		WHEN TO CALL:
		-------------
		- Application shutdown
		- Graceful termination
		- Tests cleanup
	*/
	Shutdown(ctx context.Context) error

	/*
		Len returns the number of currently stored resources.
	*/
	Len() int

	/*
		Keys returns the stored keys, unordered. Debug helper.
	*/
	Keys() []string

	/*
		Inspect returns a diagnostic snapshot of one entry without
		touching its idle clock.
	*/
	Inspect(key string) (types.Info, bool)
}

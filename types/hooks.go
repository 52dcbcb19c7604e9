package types

import "context"

// Factory is the contract between the manager and the outside world.
//
// It is called when the manager does not have a resource for a key.
// This is where the expensive work happens: dialing a connection,
// authenticating with a credential, building a client. The call may
// block; the manager never invokes it while holding its lock.
//
// A factory that fails leaves no trace in the manager. The next
// acquire for the same key simply calls it again.
type Factory func(ctx context.Context, key string) (any, error)

// CleanupFunc releases everything a resource holds: sockets, file
// handles, background goroutines.
//
// It is registered together with the resource it releases and is
// invoked at most once, either by the idle sweep or at shutdown.
// Like Factory, it may block and never runs under the manager's lock.
type CleanupFunc func(ctx context.Context, resource any) error

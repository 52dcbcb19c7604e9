package types

// This file defines how the manager reports what it is doing.

/*
Events is the observer interface for resource lifecycle events.
The manager calls these methods whenever something happens; what to do
with them (log, count, ignore) is entirely up to the implementation.

Every method runs on a hot path or inside a background worker, so
implementations must be fast and must not block.
*/
type Events interface {

	// Hit is called when an acquire finds an existing resource.
	Hit(key string)

	// Miss is called when an acquire has to build a new resource.
	Miss(key string)

	// TypeMismatch is called when an acquire reuses a resource that
	// was stored under a different type label. The reuse still
	// happens; this is a class-of-use diagnostic, not an error.
	TypeMismatch(key, stored, requested string)

	// Evict is called when the sweep or the capacity bound removes
	// a resource from the store.
	Evict(key, instanceID string)

	// CleanupError is called when a cleanup function fails during
	// eviction or shutdown. The entry is gone from the store either
	// way; this is the only place the failure surfaces.
	CleanupError(key string, err error)
}

/*
NoopEvents is a "do nothing" implementation of Events.

We don't want to force every user of the manager to wire an observer,
and we don't want nil checks on every event site, so the manager falls
back to this when none is configured.
*/
type NoopEvents struct{}

func (NoopEvents) Hit(string)                          {}
func (NoopEvents) Miss(string)                         {}
func (NoopEvents) TypeMismatch(string, string, string) {}
func (NoopEvents) Evict(string, string)                {}
func (NoopEvents) CleanupError(string, error)          {}

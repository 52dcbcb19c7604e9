package types

import "time"

/*
Entry is one managed resource as the manager tracks it.

The Resource itself is an opaque payload: the manager never calls into
it, it only hands it back to callers and, at the end of its life, to
the Cleanup function that was registered with it.

InstanceID exists purely for diagnostics and correlation. Two entries
for different keys (or the same key across an eviction) always carry
different instance IDs.
*/
type Entry struct {
	// Key is the identity under which the resource is cached,
	// typically a credential or an equivalent discriminator.
	Key string

	// ResourceType is an informational label describing what kind
	// of resource this is. It is never interpreted; mismatches on
	// reuse are reported, not rejected.
	ResourceType string

	// InstanceID is a unique identifier minted when the entry is
	// created. Diagnostics only.
	InstanceID string

	// Resource is the caller-defined value produced by the factory.
	Resource any

	CreatedAt time.Time

	// LastUsedAt is pushed forward on every successful acquire.
	// It is only ever mutated while the manager holds its write
	// lock, so the sweep observes a consistent value.
	LastUsedAt time.Time

	// Cleanup releases the resource. Registered at creation time,
	// invoked at most once, at eviction or shutdown.
	Cleanup CleanupFunc
}

// Info is a read-only snapshot of an Entry, safe to hand out for
// diagnostics without exposing the live entry.
type Info struct {
	Key          string
	ResourceType string
	InstanceID   string
	CreatedAt    time.Time
	LastUsedAt   time.Time
}

// Info returns a diagnostic snapshot of the entry.
func (e *Entry) Info() Info {
	return Info{
		Key:          e.Key,
		ResourceType: e.ResourceType,
		InstanceID:   e.InstanceID,
		CreatedAt:    e.CreatedAt,
		LastUsedAt:   e.LastUsedAt,
	}
}

// This file defines how the manager decides that a resource has gone idle.

package idle

import (
	"time"

	"github.com/krisalay/resource-manager/types"
)

/*
Strategy is the interface that all idleness rules must follow.
Instead of hard-coding the staleness check into the sweep, we define a
strategy so the rule can be swapped (or tightened in tests).

The sweep calls IsIdle twice per candidate: once while collecting its
snapshot, and once more under the write lock immediately before the
entry is removed. A resource that was touched between the two calls
must answer false the second time.
*/
type Strategy interface {

	// IsIdle reports whether the entry has been unused long enough
	// to be reclaimed.
	IsIdle(*types.Entry, time.Time) bool

	// Touch is called on every successful acquire of the entry,
	// whether it was just created or reused.
	Touch(*types.Entry, time.Time)
}

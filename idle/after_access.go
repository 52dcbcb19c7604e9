package idle

import (
	"time"

	"github.com/krisalay/resource-manager/types"
)

/*
AfterAccess is the default idleness rule: a resource is idle once it
has not been acquired for longer than Threshold.

Every acquire pushes the clock back to zero. As long as a resource
keeps getting used, it stays alive; if nobody touches it for a while,
the sweep reclaims it.

Note that the sweep itself also runs on an interval, so the true
worst-case lifetime of an unused resource is up to threshold plus one
sweep period. This is a best-effort cache, not a hard deadline.
*/
type AfterAccess struct {

	// Threshold is how long a resource may go unacquired before it
	// qualifies for eviction.
	Threshold time.Duration
}

// IsIdle reports whether the entry has sat unused past the threshold.
func (a *AfterAccess) IsIdle(ent *types.Entry, now time.Time) bool {
	return now.Sub(ent.LastUsedAt) > a.Threshold
}

// Touch records the acquire, restarting the idle clock.
func (a *AfterAccess) Touch(ent *types.Entry, now time.Time) {
	ent.LastUsedAt = now
}

package resman

import "time"

// This file implements the background sweep that reclaims idle resources.

// sweepLoop runs until Shutdown cancels it. The ticker does not keep
// the process alive on its own: it stops with the manager.
func (m *Manager) sweepLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep(time.Now())
		case <-m.ctx.Done():
			return
		}
	}
}

/*
sweep evicts every resource that has gone idle.

The pass works in two phases:

 1. Snapshot: under the read lock, collect the keys whose entries the
    idle strategy flags as stale. No cleanup happens here.

 2. Evict: for each candidate, take the write lock and RE-CHECK the
    staleness. An acquire may have touched the entry between the
    snapshot and now; such an entry stays. Still-stale entries are
    removed from the map while the lock is held, and their cleanup is
    handed to the async runner AFTER the lock is released.

No lock is ever held across a cleanup call, so acquires are never
blocked behind a slow release. A failing cleanup is reported through
the observer and nothing else: the entry is already out of the store,
and the remaining candidates proceed regardless.
*/
func (m *Manager) sweep(now time.Time) {
	m.mu.RLock()
	candidates := make([]string, 0)
	for key, ent := range m.entries {
		if m.strategy.IsIdle(ent, now) {
			candidates = append(candidates, key)
		}
	}
	m.mu.RUnlock()

	for _, key := range candidates {
		m.mu.Lock()
		ent, ok := m.entries[key]
		if !ok || !m.strategy.IsIdle(ent, now) {
			// Reused (or already gone) since the snapshot.
			m.mu.Unlock()
			continue
		}
		delete(m.entries, key)
		m.mu.Unlock()

		m.events.Evict(key, ent.InstanceID)
		m.runner.Release(ent)
	}
}

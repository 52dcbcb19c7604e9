// Package resman manages the lifecycle of expensive keyed resources:
// lazy creation through a caller-supplied factory, safe concurrent
// reuse, idle-based eviction, and deterministic shutdown.
package resman

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/krisalay/resource-manager/api"
	"github.com/krisalay/resource-manager/idle"
	"github.com/krisalay/resource-manager/types"
)

var _ api.Manager = (*Manager)(nil)

// DefaultCleanupInterval is used when Config.CleanupInterval is not positive.
const DefaultCleanupInterval = 30 * time.Minute

// defaultCleanupQueue bounds how many evicted entries can wait for
// their cleanup to run before the sweep has to wait for the worker.
const defaultCleanupQueue = 64

/*
Config controls the manager's sweep cadence and capacity.

Correctness-first defaults:
  - CleanupInterval <= 0 falls back to DefaultCleanupInterval (30m)
  - MaxResources <= 0 means "unbounded" (no capacity eviction)
  - a nil IdleStrategy means idle-after-access with the sweep interval
    as the threshold
  - nil Events means no observation (types.NoopEvents)

CleanupInterval deliberately plays two roles, inherited from the
system this manager grew out of: it is both the sweep's periodicity
and the default idle threshold. The worst-case lifetime of an unused
resource is therefore up to twice the interval.
*/
type Config struct {
	CleanupInterval  time.Duration
	MaxResources     int
	IdleStrategy     idle.Strategy
	Events           types.Events
	CleanupQueueSize int
}

/*
Manager is a process-scoped keyed store of managed resources.

This struct is the orchestrator that connects:
- the key → entry map (the only shared mutable state)
- the idleness strategy
- the background sweep
- the async cleanup runner
- the lifecycle event observer

Ownership model: Manager owns its internal goroutines. Call Shutdown
to stop them and release every stored resource.
*/
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*types.Entry

	// singleflight serializes first-time creation per key: if many
	// goroutines acquire the same missing key, only ONE of them runs
	// the factory. Others wait for its result.
	sf singleflight.Group

	strategy idle.Strategy
	events   types.Events
	interval time.Duration
	maxLive  int

	runner *cleanupRunner

	// Goroutine ownership.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// New constructs a manager and starts its background sweep.
//
// New never returns a nil Manager.
func New(cfg Config) *Manager {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}

	strategy := cfg.IdleStrategy
	if strategy == nil {
		strategy = &idle.AfterAccess{Threshold: interval}
	}

	events := cfg.Events
	if events == nil {
		events = types.NoopEvents{}
	}

	queue := cfg.CleanupQueueSize
	if queue <= 0 {
		queue = defaultCleanupQueue
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		entries:  make(map[string]*types.Entry),
		strategy: strategy,
		events:   events,
		interval: interval,
		maxLive:  cfg.MaxResources,
		runner:   newCleanupRunner(events, queue),
		ctx:      ctx,
		cancel:   cancel,
	}

	m.wg.Add(1)
	go m.sweepLoop()

	return m
}

/*
Acquire returns the resource cached under key, building it first if
necessary.

BEHAVIOR:
---------
1. If a resource exists for key:
   - Its idle clock is restarted
   - The SAME instance is returned (identity is stable for the
     entry's whole lifetime; there is no replace-in-place path)
   - A resourceType different from the stored one is reported through
     Events.TypeMismatch and otherwise ignored

2. If no resource exists for key:
   - factory(ctx, key) runs OUTSIDE the manager's lock, so acquires
     for other keys are never blocked behind a slow build
   - Concurrent first acquires for the same key are deduplicated:
     exactly one factory call runs, everyone gets its result
   - On success the resource is stored with a fresh instance ID and
     the given cleanup function
   - On failure nothing is stored and the error comes back wrapped in
     a *CreationError; the next Acquire for the key retries

The cleanup function is kept with the resource and invoked at most
once, by the idle sweep or by Shutdown. The manager imposes no
deadline on factory; wrap ctx if you need one.
*/
func (m *Manager) Acquire(ctx context.Context, key, resourceType string, factory types.Factory, cleanup types.CleanupFunc) (any, error) {
	if res, ok, err := m.reuse(key, resourceType); ok || err != nil {
		return res, err
	}

	m.events.Miss(key)

	res, err, _ := m.sf.Do(key, func() (any, error) {
		// Another flight may have stored the entry between our miss
		// and this closure running.
		if res, ok, err := m.reuse(key, resourceType); ok || err != nil {
			return res, err
		}
		return m.create(ctx, key, resourceType, factory, cleanup)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// reuse is the hit path: find the entry, restart its idle clock, and
// hand back the stored resource. The bool reports whether key was
// present.
func (m *Manager) reuse(key, resourceType string) (any, bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, false, ErrClosed
	}
	ent, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		return nil, false, nil
	}
	m.strategy.Touch(ent, time.Now())
	res := ent.Resource
	stored := ent.ResourceType
	m.mu.Unlock()

	if stored != resourceType {
		m.events.TypeMismatch(key, stored, resourceType)
	}
	m.events.Hit(key)
	return res, true, nil
}

// create runs the factory and stores the result. Runs inside the
// key's singleflight slot, never under the map lock.
func (m *Manager) create(ctx context.Context, key, resourceType string, factory types.Factory, cleanup types.CleanupFunc) (any, error) {
	res, err := factory(ctx, key)
	if err != nil {
		return nil, &CreationError{ResourceType: resourceType, Err: err}
	}

	now := time.Now()
	ent := &types.Entry{
		Key:          key,
		ResourceType: resourceType,
		InstanceID:   uuid.NewString(),
		Resource:     res,
		CreatedAt:    now,
		LastUsedAt:   now,
		Cleanup:      cleanup,
	}

	m.mu.Lock()
	if m.closed {
		// Shutdown won the race while the factory was in flight.
		// The store is already being torn down, so release the
		// fresh resource instead of leaking it.
		m.mu.Unlock()
		if cleanup != nil {
			if cerr := cleanup(ctx, res); cerr != nil {
				m.events.CleanupError(key, &CleanupError{Key: key, ResourceType: resourceType, Err: cerr})
			}
		}
		return nil, ErrClosed
	}
	var victim *types.Entry
	if m.maxLive > 0 && len(m.entries) >= m.maxLive {
		victim = m.evictOldestLocked()
	}
	m.entries[key] = ent
	m.mu.Unlock()

	if victim != nil {
		m.events.Evict(victim.Key, victim.InstanceID)
		m.runner.Release(victim)
	}
	return res, nil
}

// evictOldestLocked removes the least recently used entry to make
// room for a new one. Entries already carry their recency timestamp,
// so a linear scan replaces the bookkeeping a dedicated LRU structure
// would duplicate; capacity-bounded deployments are small.
func (m *Manager) evictOldestLocked() *types.Entry {
	var victim *types.Entry
	for _, ent := range m.entries {
		if victim == nil || ent.LastUsedAt.Before(victim.LastUsedAt) {
			victim = ent
		}
	}
	if victim != nil {
		delete(m.entries, victim.Key)
	}
	return victim
}

/*
Shutdown stops the sweep and releases every stored resource.

BEHAVIOR:
---------
- The sweep goroutine and the cleanup runner are stopped first, so no
  eviction races the teardown.
- Every entry's cleanup runs concurrently. One failing cleanup never
  stops the others: all of them run to completion.
- The store is cleared unconditionally, before any cleanup runs, so
  even a failing release cannot keep its slot alive.
- Failures are reported through Events.CleanupError and also returned,
  joined, for callers that want them. Ignoring the return value keeps
  the best-effort semantics.
- Shutdown is idempotent: the second and later calls are no-ops.
*/
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	snapshot := m.entries
	m.entries = make(map[string]*types.Entry)
	m.mu.Unlock()

	// Cancel outside the lock so shutdown doesn't block acquirers.
	m.cancel()
	m.wg.Wait()
	m.runner.Close()

	var (
		errMu sync.Mutex
		errs  []error
	)
	var g errgroup.Group
	for _, ent := range snapshot {
		ent := ent
		g.Go(func() error {
			if ent.Cleanup == nil {
				return nil
			}
			if err := ent.Cleanup(ctx, ent.Resource); err != nil {
				cerr := &CleanupError{Key: ent.Key, ResourceType: ent.ResourceType, Err: err}
				m.events.CleanupError(ent.Key, cerr)
				errMu.Lock()
				errs = append(errs, cerr)
				errMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Len returns the number of currently stored resources.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Keys returns the stored keys in no particular order.
//
// This is a debug helper; the snapshot may be stale by the time it
// is observed.
func (m *Manager) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.entries))
	for k := range m.entries {
		out = append(out, k)
	}
	return out
}

// Inspect returns a diagnostic snapshot of the entry stored under
// key. It does not count as a use: the idle clock is untouched.
func (m *Manager) Inspect(key string) (types.Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ent, ok := m.entries[key]
	if !ok {
		return types.Info{}, false
	}
	return ent.Info(), true
}

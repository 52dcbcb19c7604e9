package resman

import (
	"context"
	"sync"

	"github.com/krisalay/resource-manager/types"
)

// This file implements the asynchronous cleanup runner.

/*
cleanupRunner releases evicted resources off the eviction paths.

Evictions hand their entries to a buffered channel and move on; a
single background worker invokes the cleanup functions one at a time.
A slow or hanging release therefore delays other releases, but never
an Acquire and never the removal of entries from the store.

Unlike a droppable write-back queue, a cleanup must not be lost under
pressure. A lost cleanup leaks whatever handles the resource holds. So
when the buffer is full, Release blocks until the worker catches up.
*/
type cleanupRunner struct {
	events types.Events

	// mu guards closed. Sends hold the read side so Close cannot
	// close the channel out from under an in-flight Release.
	mu     sync.RWMutex
	closed bool

	// ch holds entries that are already out of the store and are
	// waiting for their cleanup to run.
	ch chan *types.Entry

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup
}

func newCleanupRunner(events types.Events, buffer int) *cleanupRunner {
	r := &cleanupRunner{
		events: events,
		ch:     make(chan *types.Entry, buffer),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Release queues the entry's cleanup. The entry must already have
// been removed from the store: once handed over, it runs exactly
// once. An eviction that loses the race against Close runs the
// cleanup inline instead.
func (r *cleanupRunner) Release(ent *types.Entry) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		r.run(ent)
		return
	}
	r.ch <- ent
	r.mu.RUnlock()
}

// worker drains the queue.
func (r *cleanupRunner) worker() {
	defer r.wg.Done()

	for ent := range r.ch {
		r.run(ent)
	}
}

// run invokes one cleanup. Failures go to the observer; the resource
// is gone from the manager's bookkeeping either way.
func (r *cleanupRunner) run(ent *types.Entry) {
	if ent.Cleanup == nil {
		return
	}
	if err := ent.Cleanup(context.Background(), ent.Resource); err != nil {
		r.events.CleanupError(ent.Key, &CleanupError{
			Key:          ent.Key,
			ResourceType: ent.ResourceType,
			Err:          err,
		})
	}
}

/*
Close shuts the runner down gracefully:

 1. Stop accepting releases (late ones run inline on their caller)
 2. Close the channel and wait for the worker to finish the queue

Without the drain, an eviction that raced the shutdown could leave its
resource's handles open forever. Close is safe to call twice.
*/
func (r *cleanupRunner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.ch)
	r.wg.Wait()
}

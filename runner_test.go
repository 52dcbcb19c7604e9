package resman

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krisalay/resource-manager/types"
)

func TestRunnerRunsQueuedCleanups(t *testing.T) {
	r := newCleanupRunner(types.NoopEvents{}, 8)

	var released atomic.Int64
	cleanup := func(ctx context.Context, resource any) error {
		released.Add(1)
		return nil
	}

	for i := 0; i < 5; i++ {
		r.Release(&types.Entry{Key: "k", Resource: i, Cleanup: cleanup})
	}

	require.Eventually(t, func() bool {
		return released.Load() == 5
	}, time.Second, 5*time.Millisecond)

	r.Close()
}

func TestRunnerCloseDrainsPendingCleanups(t *testing.T) {
	r := newCleanupRunner(types.NoopEvents{}, 8)

	var released atomic.Int64
	slow := func(ctx context.Context, resource any) error {
		time.Sleep(10 * time.Millisecond)
		released.Add(1)
		return nil
	}

	for i := 0; i < 4; i++ {
		r.Release(&types.Entry{Key: "k", Resource: i, Cleanup: slow})
	}

	// Close must not return until every queued cleanup has run.
	r.Close()
	assert.EqualValues(t, 4, released.Load())
}

func TestRunnerReportsFailuresAndKeepsGoing(t *testing.T) {
	ev := &captureEvents{}
	r := newCleanupRunner(ev, 8)

	var released atomic.Int64
	fine := func(ctx context.Context, resource any) error {
		released.Add(1)
		return nil
	}
	failing := func(ctx context.Context, resource any) error {
		return errors.New("release failed")
	}

	r.Release(&types.Entry{Key: "bad", ResourceType: "client", Cleanup: failing})
	r.Release(&types.Entry{Key: "good", Cleanup: fine})
	r.Release(&types.Entry{Key: "no-cleanup"}) // nil Cleanup is fine

	r.Close()

	assert.EqualValues(t, 1, released.Load())
	ev.mu.Lock()
	defer ev.mu.Unlock()
	require.Len(t, ev.cleanupErrs, 1)
	assert.True(t, IsCleanupError(ev.cleanupErrs[0]))
	assert.ErrorContains(t, ev.cleanupErrs[0], "bad")
}

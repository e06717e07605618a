// File: internal/concurrency/executor_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"sync"
	"testing"

	"github.com/momentics/hwtopo/api"
	"github.com/momentics/hwtopo/facade"
	"github.com/momentics/hwtopo/fake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engine(t *testing.T) (*facade.Engine, *fake.Controller) {
	t.Helper()
	ctrl := fake.NewController()
	e, err := facade.New(&facade.Config{Adapter: fake.NewAdapter(fake.HybridDesktop()), Controller: ctrl})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, ctrl
}

func TestExecutorRunsEveryTaskOnPinnedWorkers(t *testing.T) {
	e, ctrl := engine(t)
	lps, err := e.CoresOfType(api.CorePerformance)
	require.NoError(t, err)

	ex, err := NewExecutor(e, Config{
		LogicalProcessors: lps.List(),
		Priority:          api.PriorityAboveNormal,
		SetPriority:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, ex.NumWorkers())
	assert.ElementsMatch(t, [][]int{{0}, {1}, {2}, {3}}, ctrl.Affinities())
	assert.Len(t, ctrl.Priorities(), 4)

	var mu sync.Mutex
	seen := map[int]int{}
	const n = 200
	for i := 0; i < n; i++ {
		require.NoError(t, ex.Submit(func(lp int) {
			mu.Lock()
			seen[lp]++
			mu.Unlock()
		}))
	}
	ex.Close()

	total := 0
	for lp, c := range seen {
		assert.True(t, lps.Contains(lp), "lp %d", lp)
		total += c
	}
	assert.Equal(t, n, total)
	stats := ex.Stats()
	assert.Equal(t, int64(n), stats["completed_tasks"])
	assert.Zero(t, stats["pending_tasks"])
	assert.Equal(t, int64(4), stats["pinned_workers"])
	assert.Equal(t, int64(4), stats["prioritized_workers"])

	assert.ErrorIs(t, ex.Submit(func(int) {}), ErrExecutorClosed)
	ex.Close()
}

func TestExecutorRefusedPinKeepsWorking(t *testing.T) {
	e, ctrl := engine(t)
	ctrl.Fail(api.NewError(api.ErrCodePermissionDenied, "EPERM"))

	ex, err := NewExecutor(e, Config{LogicalProcessors: []int{4, 5}})
	require.NoError(t, err)
	done := make(chan int, 1)
	require.NoError(t, ex.Submit(func(lp int) { done <- lp }))
	assert.Contains(t, []int{4, 5}, <-done)
	ex.Close()
	assert.Zero(t, ex.Stats()["pinned_workers"])
}

func TestExecutorInvalidConfig(t *testing.T) {
	e, _ := engine(t)
	_, err := NewExecutor(e, Config{})
	assert.ErrorIs(t, err, api.ErrInvalidParameter)
	_, err = NewExecutor(e, Config{LogicalProcessors: []int{0}, SetPriority: true, Priority: 9})
	assert.ErrorIs(t, err, api.ErrInvalidParameter)
}

func TestExecutorPinOutsideSnapshot(t *testing.T) {
	e, ctrl := engine(t)
	ex, err := NewExecutor(e, Config{LogicalProcessors: []int{64}})
	require.NoError(t, err)
	defer ex.Close()
	assert.Zero(t, ex.Stats()["pinned_workers"])
	assert.Empty(t, ctrl.Affinities())
}

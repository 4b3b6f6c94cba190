package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tldsweep/tldsweep/internal/core"
)

func orderedTasks(n int, onStart func(i int)) []Task {
	tasks := make([]Task, n)
	for i := 0; i < n; i++ {
		tasks[i] = func() *core.CheckResult {
			if onStart != nil {
				onStart(i)
			}
			return &core.CheckResult{Name: "example", TLD: fmt.Sprintf("tld%d", i), Status: core.StatusAvailable}
		}
	}
	return tasks
}

func TestRunWindowsPreservesInputOrder(t *testing.T) {
	var mu sync.Mutex
	started := make([]int, 0, 7)

	results := RunWindows(nil, orderedTasks(7, func(i int) {
		mu.Lock()
		started = append(started, i)
		mu.Unlock()
	}), 3)

	require.Len(t, results, 7)
	require.Len(t, started, 7)
	for i, result := range results {
		require.Equal(t, fmt.Sprintf("tld%d", i), result.TLD)
	}
}

func TestRunWindowsBoundsConcurrency(t *testing.T) {
	const limit = 4
	var inFlight atomic.Int32
	var peak atomic.Int32

	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = func() *core.CheckResult {
			current := inFlight.Add(1)
			for {
				observed := peak.Load()
				if current <= observed || peak.CompareAndSwap(observed, current) {
					break
				}
			}
			defer inFlight.Add(-1)
			return &core.CheckResult{Status: core.StatusTaken}
		}
	}

	results := RunWindows(nil, tasks, limit)
	require.Len(t, results, 20)
	require.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestRunWindowsEmptyInput(t *testing.T) {
	results := RunWindows(nil, nil, 5)
	require.NotNil(t, results)
	require.Empty(t, results)
}

func TestRunWindowsLimitLargerThanInput(t *testing.T) {
	results := RunWindows(nil, orderedTasks(3, nil), 10)
	require.Len(t, results, 3)
}

func TestRunWindowsStopsBetweenWindowsOnCancel(t *testing.T) {
	token := NewCancelToken()

	var ran atomic.Int32
	tasks := make([]Task, 6)
	for i := range tasks {
		tasks[i] = func() *core.CheckResult {
			ran.Add(1)
			token.Cancel()
			return &core.CheckResult{Status: core.StatusTaken}
		}
	}

	results := RunWindows(token, tasks, 2)

	// The first window runs to completion; later windows never start.
	require.Len(t, results, 2)
	require.Equal(t, int32(2), ran.Load())
}

func TestRunWindowsCancelledBeforeStart(t *testing.T) {
	token := NewCancelToken()
	token.Cancel()

	results := RunWindows(token, orderedTasks(4, func(int) {
		t.Fatal("no task should start after cancellation")
	}), 2)
	require.Empty(t, results)
}

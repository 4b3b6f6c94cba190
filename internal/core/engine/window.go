package engine

import (
	"sync"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Task is a deferred check: invoking it starts the work and returns a
// terminal result. Tasks cannot fail; every internal failure must
// resolve to a failed CheckResult.
type Task func() *core.CheckResult

// RunWindows executes tasks in sequential windows of at most limit
// concurrent operations. Results come back in input order regardless of
// completion order: each task writes into its fixed arena slot and the
// window is flattened only once it has fully settled. The token is
// consulted before each window; cancellation returns the results
// accumulated so far.
func RunWindows(token *CancelToken, tasks []Task, limit int) []*core.CheckResult {
	results := make([]*core.CheckResult, 0, len(tasks))
	if len(tasks) == 0 {
		return results
	}
	if limit < 1 {
		limit = 1
	}

	for start := 0; start < len(tasks); start += limit {
		if token.Cancelled() {
			break
		}

		end := start + limit
		if end > len(tasks) {
			end = len(tasks)
		}

		window := tasks[start:end]
		arena := make([]*core.CheckResult, len(window))

		var wg sync.WaitGroup
		for i, task := range window {
			wg.Add(1)
			go func(slot int, run Task) {
				defer wg.Done()
				arena[slot] = run()
			}(i, task)
		}
		wg.Wait()

		results = append(results, arena...)
	}

	return results
}

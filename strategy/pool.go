package strategy

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Bounded executes the batch on a dedicated worker pool created for this call
// and sized min(taskCount, maxWorkers). Setting the cap at or above the task
// count yields wall time of roughly one task duration regardless of batch
// size; a smaller cap gives ceil(taskCount/cap) * taskDuration.
//
// The pool is owned exclusively by this invocation and is released on every
// exit path: the feed channel is closed once all tasks are enqueued, workers
// exit when it drains, and the join barrier waits for the last of them before
// returning, on success and failure alike. A single task failure does not
// cancel siblings; the first failure in batch order is surfaced as a
// *TaskError once every task has been awaited.
func (r *Runner) Bounded(ctx context.Context, batch []Runnable) ([]time.Duration, error) {
	n := len(batch)
	if n == 0 {
		return []time.Duration{}, nil
	}

	results := make([]time.Duration, n)
	errs := make([]error, n)

	workers := min(r.maxWorkers, n)
	taskChan := make(chan indexedTask, workers)

	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			r.liveWorkers.Add(1)
			defer r.liveWorkers.Add(-1)

			for it := range taskChan {
				if r.limiter != nil {
					if err := r.limiter.Wait(ctx); err != nil {
						errs[it.index] = err
						continue
					}
				}
				results[it.index], errs[it.index] = r.runTask(ctx, it.index, it.task)
			}
			return nil
		})
	}

	for i, task := range batch {
		taskChan <- indexedTask{index: i, task: task}
	}
	close(taskChan)

	// Join barrier doubles as the release point: workers record failures in
	// errs and always return nil, so Wait returns only once every dedicated
	// worker has exited.
	_ = g.Wait()

	return results, firstFailure(errs)
}

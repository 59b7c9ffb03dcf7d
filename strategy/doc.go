// Package strategy implements four ways of executing a batch of independent,
// blocking, uniform-duration tasks and is the core of the batchbench harness.
//
// The four strategies share a single signature: they take an ordered batch and
// return one result per task, in input order, regardless of completion order.
//
//   - Sequential: one task at a time on the calling goroutine. The baseline.
//   - Unbounded: every task is handed to the process-wide shared executor,
//     whose width is fixed at GOMAXPROCS. The caller has no control over
//     parallelism, so once the batch outgrows the executor the excess tasks
//     queue and run in later rounds.
//   - Bounded: a dedicated pool sized min(taskCount, maxWorkers) is created
//     for the call and released before it returns. The caller fully controls
//     parallelism width.
//   - DataParallel: tasks are drained from a shared queue by the shared
//     executor's workers AND by the calling goroutine, which joins in instead
//     of idling at the barrier.
//
// # Basic Usage
//
//	batch, _ := strategy.NewBatch(10, time.Second)
//	r, _ := strategy.NewRunner(strategy.WithMaxWorkers(1000))
//	results, err := r.Run(context.Background(), strategy.Bounded, batch)
//
// # Error Handling
//
// A task whose blocking wait is interrupted fails with ErrInterrupted. In the
// concurrent strategies a single task failure does not cancel its siblings:
// every dispatched task is awaited, and the first failure (in batch order) is
// then surfaced as a *TaskError carrying the original cause. The dedicated
// pool of the Bounded strategy is released on every exit path, including
// failure. Panics inside a task are recovered and converted to errors so a
// single bad task cannot leak pool workers.
//
// Preconditions are checked eagerly: a negative task duration or a
// non-positive worker cap is rejected with a validation error rather than
// silently replaced with a default.
package strategy

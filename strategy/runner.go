package strategy

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Kind selects one of the four execution strategies. There is no polymorphic
// extension point beyond these: a Kind is a tag over four functions with an
// identical signature.
type Kind int

const (
	// Sequential runs tasks one at a time on the calling goroutine.
	Sequential Kind = iota
	// Bounded runs tasks on a dedicated pool sized min(taskCount, maxWorkers),
	// created for the call and released before it returns.
	Bounded
	// Unbounded dispatches every task to the shared default executor, whose
	// fixed width the caller cannot control.
	Unbounded
	// DataParallel drains tasks through the shared executor's workers and the
	// calling goroutine together.
	DataParallel
)

// Kinds lists all strategies in the order the driver runs them.
var Kinds = []Kind{Sequential, Bounded, Unbounded, DataParallel}

func (k Kind) String() string {
	switch k {
	case Sequential:
		return "Sequential"
	case Bounded:
		return "Bounded"
	case Unbounded:
		return "Unbounded"
	case DataParallel:
		return "DataParallel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Label returns the console heading printed before the strategy runs.
func (k Kind) Label() string {
	switch k {
	case Sequential:
		return "Run in a sequential manner"
	case Bounded:
		return "Run on a dedicated bounded worker pool"
	case Unbounded:
		return "Run on the shared default executor"
	case DataParallel:
		return "Run data-parallel with the shared executor"
	default:
		return k.String()
	}
}

// Runner executes task batches with any of the four strategies. A Runner is
// stateless across runs apart from its configuration and is safe to reuse;
// strategies are expected to be invoked one at a time.
type Runner struct {
	maxWorkers     int
	exec           Executor
	limiter        *rate.Limiter
	onTaskStart    func(int)
	onTaskComplete func(int)

	// Number of dedicated pool workers currently alive. Zero whenever no
	// Bounded run is in flight.
	liveWorkers atomic.Int32
}

// NewRunner creates a Runner. A configured worker cap that is zero or
// negative is a precondition violation and is rejected.
func NewRunner(opts ...Option) (*Runner, error) {
	cfg := &config{
		maxWorkers: DefaultMaxWorkers,
		exec:       DefaultExecutor(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.maxWorkers <= 0 {
		return nil, fmt.Errorf("max workers must be positive, got %d", cfg.maxWorkers)
	}

	return &Runner{
		maxWorkers:     cfg.maxWorkers,
		exec:           cfg.exec,
		limiter:        cfg.limiter,
		onTaskStart:    cfg.onTaskStart,
		onTaskComplete: cfg.onTaskComplete,
	}, nil
}

// Run dispatches to the strategy selected by kind. All strategies return one
// result per task, in input order.
func (r *Runner) Run(ctx context.Context, kind Kind, batch []Runnable) ([]time.Duration, error) {
	switch kind {
	case Sequential:
		return r.Sequential(ctx, batch)
	case Bounded:
		return r.Bounded(ctx, batch)
	case Unbounded:
		return r.Unbounded(ctx, batch)
	case DataParallel:
		return r.DataParallel(ctx, batch)
	default:
		return nil, fmt.Errorf("unknown strategy kind %d", int(kind))
	}
}

// Sequential invokes each task one at a time, in order, on the calling
// goroutine. Total wall time is roughly the sum of all task durations. The
// first failure stops the run.
func (r *Runner) Sequential(ctx context.Context, batch []Runnable) ([]time.Duration, error) {
	results := make([]time.Duration, 0, len(batch))
	for i, task := range batch {
		d, err := r.runTask(ctx, i, task)
		if err != nil {
			return nil, &TaskError{Index: i, Err: err}
		}
		results = append(results, d)
	}
	return results, nil
}

// Unbounded dispatches every task to the shared executor and blocks at the
// join barrier until all have completed. The executor's width is fixed and
// independent of batch size, so once the batch outgrows it, excess tasks
// queue and run in later rounds: wall time grows roughly as
// ceil(taskCount/width) * taskDuration.
func (r *Runner) Unbounded(ctx context.Context, batch []Runnable) ([]time.Duration, error) {
	n := len(batch)
	if n == 0 {
		return []time.Duration{}, nil
	}

	results := make([]time.Duration, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	wg.Add(n)
	for i, task := range batch {
		i, task := i, task
		r.exec.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = r.runTask(ctx, i, task)
		})
	}
	wg.Wait()

	return results, firstFailure(errs)
}

// DataParallel shares a common work queue between the shared executor's
// workers and the calling goroutine, which drains alongside them instead of
// idling at the barrier. Effective parallelism is the executor width plus
// one, not the task count.
func (r *Runner) DataParallel(ctx context.Context, batch []Runnable) ([]time.Duration, error) {
	n := len(batch)
	if n == 0 {
		return []time.Duration{}, nil
	}

	results := make([]time.Duration, n)
	errs := make([]error, n)

	work := make(chan indexedTask, n)
	for i, task := range batch {
		work <- indexedTask{index: i, task: task}
	}
	close(work)

	drain := func() {
		for it := range work {
			results[it.index], errs[it.index] = r.runTask(ctx, it.index, it.task)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < r.exec.Parallelism(); i++ {
		wg.Add(1)
		r.exec.Submit(func() {
			defer wg.Done()
			drain()
		})
	}

	drain()
	wg.Wait()

	return results, firstFailure(errs)
}

type indexedTask struct {
	index int
	task  Runnable
}

// runTask executes one task with the configured hooks and panic recovery. A
// panicking task is converted to an error so it cannot take down the worker
// that ran it.
func (r *Runner) runTask(ctx context.Context, index int, task Runnable) (d time.Duration, err error) {
	if r.onTaskStart != nil {
		r.onTaskStart(index)
	}
	defer func() {
		if rec := recover(); rec != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("task panic: %v\nstack trace:\n%s", rec, buf[:n])
		}
		if r.onTaskComplete != nil {
			r.onTaskComplete(index)
		}
	}()

	return task.Calculate(ctx)
}

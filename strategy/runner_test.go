package strategy

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeExecutor is a shared-executor stand-in with a deterministic width,
// gating submitted closures through a semaphore instead of a worker loop.
type fakeExecutor struct {
	sem chan struct{}
}

func newFakeExecutor(width int) *fakeExecutor {
	return &fakeExecutor{sem: make(chan struct{}, width)}
}

func (f *fakeExecutor) Submit(fn func()) {
	go func() {
		f.sem <- struct{}{}
		defer func() { <-f.sem }()
		fn()
	}()
}

func (f *fakeExecutor) Parallelism() int { return cap(f.sem) }

// failTask fails immediately with a fixed cause.
type failTask struct {
	err error
}

func (f failTask) Calculate(context.Context) (time.Duration, error) {
	return 0, f.err
}

// panicTask panics instead of returning.
type panicTask struct{}

func (panicTask) Calculate(context.Context) (time.Duration, error) {
	panic("boom")
}

func mustRunner(t *testing.T, opts ...Option) *Runner {
	t.Helper()
	r, err := NewRunner(opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func variedBatch(t *testing.T, durations ...time.Duration) []Runnable {
	t.Helper()
	batch := make([]Runnable, len(durations))
	for i, d := range durations {
		task, err := NewTask(d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		batch[i] = task
	}
	return batch
}

func TestAllStrategies_OrderPreserved(t *testing.T) {
	durations := []time.Duration{
		8 * time.Millisecond,
		2 * time.Millisecond,
		6 * time.Millisecond,
		1 * time.Millisecond,
		4 * time.Millisecond,
	}
	batch := variedBatch(t, durations...)
	r := mustRunner(t, WithExecutor(newFakeExecutor(2)))

	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			results, err := r.Run(context.Background(), kind, batch)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != len(batch) {
				t.Fatalf("expected %d results, got %d", len(batch), len(results))
			}
			for i, d := range durations {
				if results[i] != d {
					t.Errorf("result %d: expected %v, got %v", i, d, results[i])
				}
			}
		})
	}
}

func TestAllStrategies_EmptyBatch(t *testing.T) {
	r := mustRunner(t)

	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			start := time.Now()
			results, err := r.Run(context.Background(), kind, []Runnable{})
			elapsed := time.Since(start)

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != 0 {
				t.Errorf("expected empty results, got %d", len(results))
			}
			if elapsed > 50*time.Millisecond {
				t.Errorf("empty batch took %v", elapsed)
			}
		})
	}
}

func TestAllStrategies_Idempotent(t *testing.T) {
	batch := variedBatch(t, 3*time.Millisecond, 1*time.Millisecond, 2*time.Millisecond)
	r := mustRunner(t, WithExecutor(newFakeExecutor(2)))

	for _, kind := range Kinds {
		t.Run(kind.String(), func(t *testing.T) {
			first, err := r.Run(context.Background(), kind, batch)
			if err != nil {
				t.Fatalf("first run: %v", err)
			}
			second, err := r.Run(context.Background(), kind, batch)
			if err != nil {
				t.Fatalf("second run: %v", err)
			}
			for i := range first {
				if first[i] != second[i] {
					t.Errorf("result %d differs between runs: %v vs %v", i, first[i], second[i])
				}
			}
		})
	}
}

func TestSequential_WallTimeIsSumOfDurations(t *testing.T) {
	batch, err := NewBatch(5, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := mustRunner(t)

	start := time.Now()
	if _, err := r.Sequential(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 100*time.Millisecond {
		t.Errorf("sequential run finished in %v, expected at least the sum of durations", elapsed)
	}
}

func TestUnbounded_QueuesBeyondExecutorWidth(t *testing.T) {
	// Four 50ms tasks on a width-2 executor must take two rounds.
	batch, err := NewBatch(4, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := mustRunner(t, WithExecutor(newFakeExecutor(2)))

	start := time.Now()
	if _, err := r.Unbounded(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed < 95*time.Millisecond {
		t.Errorf("width-2 executor ran 4 tasks in %v, expected two 50ms rounds", elapsed)
	}
}

func TestDataParallel_CallerJoinsTheWorkers(t *testing.T) {
	// With a width-1 executor the calling goroutine doubles the effective
	// parallelism, so six 30ms tasks finish well under the 180ms serial time.
	batch, err := NewBatch(6, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := mustRunner(t, WithExecutor(newFakeExecutor(1)))

	start := time.Now()
	if _, err := r.DataParallel(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	if elapsed >= 170*time.Millisecond {
		t.Errorf("data-parallel run took %v, caller did not participate", elapsed)
	}
}

func TestConcurrentStrategies_FailureWrappedAfterJoin(t *testing.T) {
	cause := errors.New("simulated failure")
	sleepy := variedBatch(t, 10*time.Millisecond, 10*time.Millisecond)
	batch := []Runnable{sleepy[0], sleepy[1], failTask{err: cause}, sleepy[0], sleepy[1]}

	for _, kind := range []Kind{Bounded, Unbounded, DataParallel} {
		t.Run(kind.String(), func(t *testing.T) {
			var completed atomic.Int32
			r := mustRunner(t,
				WithExecutor(newFakeExecutor(2)),
				WithOnTaskComplete(func(int) { completed.Add(1) }),
			)

			_, err := r.Run(context.Background(), kind, batch)

			var taskErr *TaskError
			if !errors.As(err, &taskErr) {
				t.Fatalf("expected *TaskError, got %v", err)
			}
			if taskErr.Index != 2 {
				t.Errorf("expected failing index 2, got %d", taskErr.Index)
			}
			if !errors.Is(err, cause) {
				t.Errorf("expected error to wrap the original cause, got %v", err)
			}
			if got := completed.Load(); got != int32(len(batch)) {
				t.Errorf("expected all %d siblings awaited, %d completed", len(batch), got)
			}
		})
	}
}

func TestSequential_StopsAtFirstFailure(t *testing.T) {
	cause := errors.New("simulated failure")
	var completed atomic.Int32
	r := mustRunner(t, WithOnTaskComplete(func(int) { completed.Add(1) }))

	ok := variedBatch(t, time.Millisecond)[0]
	batch := []Runnable{ok, failTask{err: cause}, ok, ok}

	_, err := r.Sequential(context.Background(), batch)

	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected *TaskError, got %v", err)
	}
	if taskErr.Index != 1 {
		t.Errorf("expected failing index 1, got %d", taskErr.Index)
	}
	if got := completed.Load(); got != 2 {
		t.Errorf("expected sequential run to stop after the failure, %d tasks ran", got)
	}
}

func TestRunner_PanicConvertedToError(t *testing.T) {
	r := mustRunner(t)
	batch := []Runnable{panicTask{}}

	_, err := r.Bounded(context.Background(), batch)
	var taskErr *TaskError
	if !errors.As(err, &taskErr) {
		t.Fatalf("expected *TaskError, got %v", err)
	}
	if r.liveWorkers.Load() != 0 {
		t.Errorf("pool workers leaked after panic: %d alive", r.liveWorkers.Load())
	}
}

func TestNewRunner_Validation(t *testing.T) {
	if _, err := NewRunner(WithMaxWorkers(0)); err == nil {
		t.Error("expected validation error for zero worker cap")
	}
	if _, err := NewRunner(WithMaxWorkers(-5)); err == nil {
		t.Error("expected validation error for negative worker cap")
	}
}

func TestRun_UnknownKind(t *testing.T) {
	r := mustRunner(t)
	if _, err := r.Run(context.Background(), Kind(42), []Runnable{}); err == nil {
		t.Fatal("expected error for unknown strategy kind")
	}
}

func TestKind_StringAndLabel(t *testing.T) {
	want := map[Kind]string{
		Sequential:   "Sequential",
		Bounded:      "Bounded",
		Unbounded:    "Unbounded",
		DataParallel: "DataParallel",
	}
	for kind, name := range want {
		if kind.String() != name {
			t.Errorf("expected %q, got %q", name, kind.String())
		}
		if kind.Label() == "" {
			t.Errorf("%s has no label", name)
		}
	}
}

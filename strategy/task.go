package strategy

import (
	"context"
	"fmt"
	"time"
)

// Runnable is the unit of work executed by a strategy. Calculate blocks until
// the work is done and returns the task's configured duration as its result.
type Runnable interface {
	Calculate(ctx context.Context) (time.Duration, error)
}

// Task is an immutable, stateless unit of simulated work. It stands in for a
// slow external call: Calculate blocks the calling goroutine for the
// configured duration, then returns that duration.
type Task struct {
	d time.Duration
}

// NewTask creates a task that blocks for d. A negative duration is a
// precondition violation and is rejected.
func NewTask(d time.Duration) (Task, error) {
	if d < 0 {
		return Task{}, fmt.Errorf("task duration must be non-negative, got %v", d)
	}
	return Task{d: d}, nil
}

// Duration returns the configured blocking duration.
func (t Task) Duration() time.Duration { return t.d }

// Calculate blocks for the task's duration and returns it. If ctx is
// cancelled before the wait completes, the wait is interrupted and the error
// wraps ErrInterrupted. Interruption is never swallowed or retried.
func (t Task) Calculate(ctx context.Context) (time.Duration, error) {
	timer := time.NewTimer(t.d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return t.d, nil
	case <-ctx.Done():
		return 0, fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
	}
}

// NewBatch builds an ordered batch of count tasks with identical duration d.
// The batch is read-only to every strategy and may be reused across runs.
func NewBatch(count int, d time.Duration) ([]Runnable, error) {
	if count < 0 {
		return nil, fmt.Errorf("task count must be non-negative, got %d", count)
	}

	task, err := NewTask(d)
	if err != nil {
		return nil, err
	}

	batch := make([]Runnable, count)
	for i := range batch {
		batch[i] = task
	}
	return batch, nil
}

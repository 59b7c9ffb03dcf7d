package strategy

import (
	"errors"
	"fmt"
)

// ErrInterrupted reports that a task's blocking wait was interrupted before
// it could complete. It is fatal to that task's invocation.
var ErrInterrupted = errors.New("blocking wait interrupted")

// TaskError reports the failure of a single task within a strategy run. The
// concurrent strategies surface it only after every sibling task has been
// awaited; siblings are never cancelled on its account.
type TaskError struct {
	Index int
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %d failed: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// firstFailure scans per-task errors in batch order and wraps the first one
// found. Batch order, not completion order, decides which failure surfaces.
func firstFailure(errs []error) error {
	for i, err := range errs {
		if err != nil {
			return &TaskError{Index: i, Err: err}
		}
	}
	return nil
}

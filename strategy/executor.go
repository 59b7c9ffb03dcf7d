package strategy

import (
	"runtime"
	"sync"
)

// Executor is the process-wide default worker pool used by the Unbounded and
// DataParallel strategies. Its width is fixed by the environment at first use
// and is independent of any batch size; callers must not assume they can
// resize or dedicate it. It is an injected capability so tests can substitute
// an executor with a deterministic width.
type Executor interface {
	// Submit enqueues fn for asynchronous execution on one of the executor's
	// workers. It may block while the executor's queue is full.
	Submit(fn func())

	// Parallelism returns the fixed number of workers.
	Parallelism() int
}

type sharedExecutor struct {
	queue chan func()
	width int
}

var (
	defaultOnce sync.Once
	defaultExec *sharedExecutor
)

// DefaultExecutor returns the shared executor, creating it on first use with
// one worker per logical CPU. It lives for the process lifetime and is never
// torn down.
func DefaultExecutor() Executor {
	defaultOnce.Do(func() {
		defaultExec = newSharedExecutor(runtime.GOMAXPROCS(0))
	})
	return defaultExec
}

func newSharedExecutor(width int) *sharedExecutor {
	ex := &sharedExecutor{
		queue: make(chan func(), width),
		width: width,
	}
	for i := 0; i < width; i++ {
		go ex.worker()
	}
	return ex
}

func (ex *sharedExecutor) worker() {
	for fn := range ex.queue {
		fn()
	}
}

func (ex *sharedExecutor) Submit(fn func()) { ex.queue <- fn }

func (ex *sharedExecutor) Parallelism() int { return ex.width }

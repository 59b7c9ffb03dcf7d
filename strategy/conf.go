package strategy

import (
	"golang.org/x/time/rate"
)

// DefaultMaxWorkers is the worker cap applied by the Bounded strategy when
// none is configured. The effective pool size is min(cap, taskCount), so a
// large default simply means "one worker per task" for ordinary batches.
const DefaultMaxWorkers = 1000

// Option is a functional option for configuring a Runner.
type Option func(*config)

type config struct {
	maxWorkers     int
	exec           Executor
	limiter        *rate.Limiter
	onTaskStart    func(index int)
	onTaskComplete func(index int)
}

// WithMaxWorkers sets the worker cap for the Bounded strategy. Values that
// are zero or negative are rejected by NewRunner.
func WithMaxWorkers(count int) Option {
	return func(cfg *config) {
		cfg.maxWorkers = count
	}
}

// WithExecutor injects the shared executor used by the Unbounded and
// DataParallel strategies. Defaults to DefaultExecutor().
func WithExecutor(ex Executor) Option {
	return func(cfg *config) {
		if ex != nil {
			cfg.exec = ex
		}
	}
}

// WithRateLimit throttles the Bounded strategy's workers to tasksPerSecond
// with the given burst, applied before each task starts. Useful when the
// simulated slow call stands in for a rate-capped API.
// If not specified, no rate limiting is applied.
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithOnTaskStart registers a hook invoked with the task's batch index just
// before the task runs, on the goroutine that runs it.
func WithOnTaskStart(fn func(index int)) Option {
	return func(cfg *config) {
		cfg.onTaskStart = fn
	}
}

// WithOnTaskComplete registers a hook invoked with the task's batch index
// after the task finishes, whether it succeeded or failed. Hooks must be
// safe for concurrent use.
func WithOnTaskComplete(fn func(index int)) Option {
	return func(cfg *config) {
		cfg.onTaskComplete = fn
	}
}

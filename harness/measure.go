// Package harness wraps strategy invocations with wall-clock measurement and
// renders the per-strategy reports and the final comparison table.
package harness

import (
	"time"
)

// Report describes one measured strategy run. It is derived, never persisted.
type Report struct {
	Label     string
	TaskCount int
	Elapsed   time.Duration
}

// ElapsedMilliseconds returns the elapsed wall time at the millisecond
// resolution the console output uses.
func (r Report) ElapsedMilliseconds() int64 {
	return r.Elapsed.Milliseconds()
}

// StrategyCall is a strategy invocation bound to its batch.
type StrategyCall func() ([]time.Duration, error)

// Measure captures a monotonic timestamp immediately before and after the
// call. On failure no report is emitted and the failure propagates unchanged.
func Measure(label string, call StrategyCall) ([]time.Duration, Report, error) {
	start := time.Now()
	results, err := call()
	elapsed := time.Since(start)

	if err != nil {
		return nil, Report{}, err
	}

	return results, Report{
		Label:     label,
		TaskCount: len(results),
		Elapsed:   elapsed,
	}, nil
}

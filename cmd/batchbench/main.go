// Command batchbench runs a batch of identical blocking tasks through four
// execution strategies and reports the wall-clock time of each, showing how
// worker pool sizing changes throughput for I/O-bound work.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/utkarsh5026/batchbench/harness"
	"github.com/utkarsh5026/batchbench/strategy"
)

func main() {
	taskCount := flag.Int("tasks", 10, "Number of tasks in the batch")
	seconds := flag.Int("seconds", 1, "Blocking duration of each task in seconds")
	maxWorkers := flag.Int("maxworkers", strategy.DefaultMaxWorkers, "Worker cap for the bounded strategy (effective size is min(cap, tasks))")
	isolated := flag.String("strategy", "", "Run a single strategy: Sequential, Bounded, Unbounded or DataParallel")
	flag.Parse()

	if err := run(*taskCount, *seconds, *maxWorkers, *isolated); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(taskCount, seconds, maxWorkers int, isolated string) error {
	batch, err := strategy.NewBatch(taskCount, time.Duration(seconds)*time.Second)
	if err != nil {
		return err
	}

	kinds, err := kindsToRun(isolated)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	runner, err := strategy.NewRunner(
		strategy.WithMaxWorkers(maxWorkers),
		strategy.WithOnTaskComplete(func(int) {
			if bar != nil {
				_ = bar.Add(1)
			}
		}),
	)
	if err != nil {
		return err
	}

	ctx := context.Background()
	reports := make([]harness.Report, 0, len(kinds))

	for i, kind := range kinds {
		if i > 0 {
			fmt.Println()
		}
		harness.PrintLabel(kind.Label())

		bar = makeProgressBar(kind, len(batch))
		_, report, err := harness.Measure(kind.Label(), func() ([]time.Duration, error) {
			return runner.Run(ctx, kind, batch)
		})
		_ = bar.Finish()
		bar = nil

		if err != nil {
			harness.PrintFailure(kind.Label(), err)
			return err
		}

		harness.PrintReport(report)
		reports = append(reports, report)
	}

	harness.PrintComparison(reports)
	return nil
}

// kindsToRun returns all four strategies in their fixed order, or a single
// strategy in isolated mode.
func kindsToRun(isolated string) ([]strategy.Kind, error) {
	if isolated == "" {
		return strategy.Kinds, nil
	}

	for _, kind := range strategy.Kinds {
		if kind.String() == isolated {
			return []strategy.Kind{kind}, nil
		}
	}
	return nil, fmt.Errorf("unknown strategy %q, available: %v", isolated, strategy.Kinds)
}

func makeProgressBar(kind strategy.Kind, taskCount int) *progressbar.ProgressBar {
	return progressbar.NewOptions(taskCount,
		progressbar.OptionSetDescription(fmt.Sprintf("Running: %s", kind)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

package harness

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	bold = color.New(color.Bold)
	red  = color.New(color.FgRed)
)

// PrintLabel prints the heading every strategy run starts with.
func PrintLabel(label string) {
	_, _ = bold.Printf("%s.\n", label)
	fmt.Println("Wait...")
}

// PrintReport prints the per-strategy result line.
func PrintReport(rep Report) {
	fmt.Printf("Processed %d tasks in %d milliseconds\n", rep.TaskCount, rep.ElapsedMilliseconds())
}

// PrintFailure prints a strategy failure before the process exits non-zero.
func PrintFailure(label string, err error) {
	_, _ = red.Printf("%s failed: %v\n", label, err)
}

// PrintComparison renders the final table ranking strategies by wall time.
func PrintComparison(reports []Report) {
	if len(reports) < 2 {
		return
	}

	ranked := make([]Report, len(reports))
	copy(ranked, reports)
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].Elapsed < ranked[j].Elapsed
	})

	fmt.Println()
	_, _ = bold.Println("Strategy comparison")

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Rank", "Strategy", "Elapsed", "Tasks/sec", "vs Fastest")

	fastest := ranked[0].Elapsed.Seconds()
	for i, r := range ranked {
		var comparison string
		if i == 0 {
			comparison = "baseline"
		} else {
			pct := ((r.Elapsed.Seconds() / fastest) - 1) * 100
			comparison = fmt.Sprintf("+%.1f%%", pct)
		}

		_ = table.Append([]string{
			rankIcon(i + 1),
			r.Label,
			r.Elapsed.Round(time.Millisecond).String(),
			tasksPerSecond(r),
			comparison,
		})
	}

	_ = table.Render()
}

func rankIcon(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

func tasksPerSecond(r Report) string {
	secs := r.Elapsed.Seconds()
	if secs <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f", float64(r.TaskCount)/secs)
}

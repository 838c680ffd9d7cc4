// Package cli drives a headless trialbench run: live progress on the
// terminal while trials are in flight, then a styled summary of the
// aggregate.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lmittmann/tint"

	"trialbench"
	"trialbench/internal/live"
	"trialbench/internal/probe"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 2)
)

// Start runs the probe trial with the given options and blocks until
// the run completes, printing a progress line while trials are in
// flight and a summary once they are done.
func Start(pcfg probe.Config, opts trialbench.RunOptions) error {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.Kitchen,
	}))

	printHeader(pcfg, opts)

	tracker := live.NewTracker()
	var completed int64
	opts.OnProgress = func(done, total int) {
		atomic.StoreInt64(&completed, int64(done))
	}

	h := trialbench.New(
		trialbench.WithLogger(logger),
		trialbench.WithLiveSink(tracker),
	)

	type runResult struct {
		agg *trialbench.AggregateResult
		err error
	}
	done := make(chan runResult, 1)
	go func() {
		agg, err := h.Run(context.Background(), probe.New(pcfg), opts)
		done <- runResult{agg, err}
	}()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	total := opts.Iterations
	for {
		select {
		case r := <-done:
			if r.err != nil {
				fmt.Println()
				return r.err
			}
			printProgress(tracker, total, int64(total))
			fmt.Println()
			printSummary(r.agg)
			return nil
		case <-ticker.C:
			printProgress(tracker, total, atomic.LoadInt64(&completed))
		}
	}
}

func printHeader(pcfg probe.Config, opts trialbench.RunOptions) {
	fmt.Println(titleStyle.Render("TRIALBENCH RUN"))
	fmt.Printf("Target      : %s\n", pcfg.URL)
	fmt.Printf("Iterations  : %d\n", opts.Iterations)
	fmt.Printf("Concurrency : %d\n", valueOrDefault(opts.Concurrency, trialbench.DefaultConcurrency))
	fmt.Printf("Retries     : %d\n", opts.Retries)
	fmt.Printf("Timeout     : %s\n", durationOrDefault(opts.Timeout, trialbench.DefaultTimeout))
	fmt.Println()
}

func printProgress(tracker *live.Tracker, total int, completed int64) {
	snap := tracker.Snapshot()
	pct := 1.0
	if total > 0 {
		pct = float64(completed) / float64(total)
	}
	fmt.Printf("\r%s %3.0f%% | %d/%d trials | attempts: %d | P50: %.1fms | P95: %.1fms | ok: %d | fail: %d   ",
		progressBar(pct, 20), pct*100,
		completed, total,
		snap.Attempts,
		snap.P50Ms, snap.P95Ms,
		snap.Passed, snap.Failed,
	)
}

func progressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func printSummary(agg *trialbench.AggregateResult) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("RESULTS") + "\n")
	b.WriteString(labelStyle.Render("Iterations") + fmt.Sprintf("%d\n", agg.Iterations))
	b.WriteString(labelStyle.Render("Successes") + okStyle.Render(fmt.Sprintf("%d", agg.Successes)) + "\n")
	b.WriteString(labelStyle.Render("Failures") + failStyle.Render(fmt.Sprintf("%d", agg.Failures)) + "\n")
	if agg.Iterations > 0 {
		acc := float64(agg.Successes) / float64(agg.Iterations) * 100
		b.WriteString(labelStyle.Render("Accuracy") + fmt.Sprintf("%.1f%%\n", acc))
		avg := float64(agg.ResourceUsageTotal) / float64(agg.Iterations)
		b.WriteString(labelStyle.Render("Avg resource") + fmt.Sprintf("%.1f\n", avg))
	}

	dims := make([]string, 0, len(agg.LatencyStats))
	for dim := range agg.LatencyStats {
		dims = append(dims, dim)
	}
	sort.Strings(dims)
	for _, dim := range dims {
		st := agg.LatencyStats[dim]
		b.WriteString("\n" + titleStyle.Render(strings.ToUpper(dim)+" (ms)") + "\n")
		b.WriteString(labelStyle.Render("Min") + fmt.Sprintf("%.2f\n", st.Min))
		b.WriteString(labelStyle.Render("P50") + fmt.Sprintf("%.2f\n", st.P50))
		b.WriteString(labelStyle.Render("P95") + fmt.Sprintf("%.2f\n", st.P95))
		b.WriteString(labelStyle.Render("Max") + fmt.Sprintf("%.2f\n", st.Max))
		b.WriteString(labelStyle.Render("Mean") + fmt.Sprintf("%.2f\n", st.Mean))
	}

	if errCounts := errorCounts(agg); len(errCounts) > 0 {
		b.WriteString("\n" + failStyle.Render("FAILURE SUMMARY") + "\n")
		msgs := make([]string, 0, len(errCounts))
		for msg := range errCounts {
			msgs = append(msgs, msg)
		}
		sort.Strings(msgs)
		for _, msg := range msgs {
			b.WriteString(fmt.Sprintf("%3d x %s\n", errCounts[msg], msg))
		}
	}

	fmt.Println(boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}

func errorCounts(agg *trialbench.AggregateResult) map[string]int {
	counts := make(map[string]int)
	for _, it := range agg.IterationDetails {
		if !it.Passed && it.Error != "" {
			counts[it.Error]++
		}
	}
	return counts
}

func valueOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func durationOrDefault(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}

package trialbench

import (
	"math"
	"sort"
	"time"
)

// Aggregate reduces a launch-ordered list of iteration results into
// pass/fail counts, per-dimension latency statistics, and resource
// totals. Samples are flattened in iteration order, then within-
// iteration measurement order, so the statistics are reproducible
// regardless of completion order.
func Aggregate(details []IterationResult) *AggregateResult {
	agg := &AggregateResult{
		Iterations:                len(details),
		PerIterationPassed:        make([]bool, 0, len(details)),
		IterationDetails:          details,
		ResourceUsagePerIteration: make([]int, 0, len(details)),
	}

	samples := make(map[string][]float64)
	for _, d := range details {
		if d.Passed {
			agg.Successes++
		}
		agg.PerIterationPassed = append(agg.PerIterationPassed, d.Passed)
		agg.ResourceUsageTotal += d.ResourceUsage.Total
		agg.ResourceUsagePerIteration = append(agg.ResourceUsagePerIteration, d.ResourceUsage.Total)
		for _, m := range d.Measurements {
			samples[m.Dimension] = append(samples[m.Dimension],
				float64(m.Latency)/float64(time.Millisecond))
		}
	}
	agg.Failures = agg.Iterations - agg.Successes

	agg.LatencyStats = make(map[string]PercentileStats, len(samples))
	for dim, vals := range samples {
		agg.LatencyStats[dim] = computeStats(vals)
	}
	return agg
}

func computeStats(vals []float64) PercentileStats {
	if len(vals) == 0 {
		return PercentileStats{}
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	return PercentileStats{
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  sum / float64(len(sorted)),
		P50:   percentile(sorted, 50),
		P95:   percentile(sorted, 95),
		Count: len(sorted),
	}
}

// percentile computes the p-th percentile of an ascending-sorted slice
// using linear interpolation between the two nearest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := math.Floor(rank)
	hi := math.Ceil(rank)
	if lo == hi {
		return sorted[int(rank)]
	}
	frac := rank - lo
	return sorted[int(lo)] + frac*(sorted[int(hi)]-sorted[int(lo)])
}

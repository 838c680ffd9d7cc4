package trialbench

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileSeedValues(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"odd count median", []float64{1, 2, 3, 4, 5}, 50, 3},
		{"even count median interpolates", []float64{1, 2, 3, 4}, 50, 2.5},
		{"p0 is min", []float64{10, 20, 30, 40, 50}, 0, 10},
		{"p100 is max", []float64{10, 20, 30, 40, 50}, 100, 50},
		{"fractional rank interpolates", []float64{100, 200}, 25, 125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, percentile(tt.sorted, tt.p), 1e-9)
		})
	}
}

func TestPercentileEmpty(t *testing.T) {
	assert.Zero(t, percentile(nil, 50))
}

func TestComputeStatsEmptyIsZero(t *testing.T) {
	assert.Equal(t, PercentileStats{}, computeStats(nil))
}

func TestComputeStats(t *testing.T) {
	st := computeStats([]float64{30, 10, 20, 50, 40})
	assert.Equal(t, 5, st.Count)
	assert.Equal(t, 10.0, st.Min)
	assert.Equal(t, 50.0, st.Max)
	assert.InDelta(t, 30.0, st.Mean, 1e-9)
	assert.InDelta(t, 30.0, st.P50, 1e-9)
	assert.InDelta(t, 48.0, st.P95, 1e-9)
}

func TestAggregateEmptyRun(t *testing.T) {
	agg := Aggregate(nil)
	assert.Zero(t, agg.Iterations)
	assert.Zero(t, agg.Successes)
	assert.Zero(t, agg.Failures)
	assert.Zero(t, agg.ResourceUsageTotal)
	assert.Empty(t, agg.LatencyStats)
	assert.Empty(t, agg.PerIterationPassed)
}

func TestAggregateCountsAndResources(t *testing.T) {
	details := []IterationResult{
		{Index: 0, Passed: true, ResourceUsage: ResourceUsage{Total: 100}},
		{Index: 1, Passed: false, ResourceUsage: ResourceUsage{Total: 40}, Error: "boom"},
		{Index: 2, Passed: true, ResourceUsage: ResourceUsage{Total: 60}},
	}

	agg := Aggregate(details)
	assert.Equal(t, 3, agg.Iterations)
	assert.Equal(t, 2, agg.Successes)
	assert.Equal(t, 1, agg.Failures)
	assert.Equal(t, []bool{true, false, true}, agg.PerIterationPassed)
	assert.Equal(t, 200, agg.ResourceUsageTotal)
	assert.Equal(t, []int{100, 40, 60}, agg.ResourceUsagePerIteration)
}

func TestAggregateFlattensMeasurementsPerDimension(t *testing.T) {
	ms := func(vals ...int) []Measurement {
		out := make([]Measurement, 0, len(vals))
		for _, v := range vals {
			out = append(out, Measurement{Dimension: "e2e", Latency: time.Duration(v) * time.Millisecond})
		}
		return out
	}

	details := []IterationResult{
		{Passed: true, Measurements: append(ms(30), Measurement{Dimension: "tool", Latency: 5 * time.Millisecond})},
		{Passed: true, Measurements: ms(10, 20)},
	}

	agg := Aggregate(details)
	require.Contains(t, agg.LatencyStats, "e2e")
	require.Contains(t, agg.LatencyStats, "tool")

	e2e := agg.LatencyStats["e2e"]
	assert.Equal(t, 3, e2e.Count)
	assert.Equal(t, 10.0, e2e.Min)
	assert.Equal(t, 30.0, e2e.Max)
	assert.InDelta(t, 20.0, e2e.Mean, 1e-9)

	tool := agg.LatencyStats["tool"]
	assert.Equal(t, 1, tool.Count)
	assert.Equal(t, 5.0, tool.Min)
	assert.Equal(t, 5.0, tool.P95)
}

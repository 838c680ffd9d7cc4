// Package live tracks in-flight run statistics for progress displays.
// Unlike the engine's final aggregate, which computes exact percentiles
// over the full sample set, this tracker trades exactness for constant
// memory via HDR histograms, so it can be polled while thousands of
// attempts are still streaming in.
package live

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"trialbench"
)

// Snapshot is a cheap copy of the tracker state for display.
type Snapshot struct {
	Attempts uint64
	Passed   uint64
	Failed   uint64

	P50Ms  float64
	P95Ms  float64
	P99Ms  float64
	MeanMs float64
	MaxMs  int64
}

// Tracker records per-attempt observations. It implements
// trialbench.LiveSink and is safe for concurrent use.
type Tracker struct {
	attempts uint64
	passed   uint64
	failed   uint64

	latency *safeHistogram
}

func NewTracker() *Tracker {
	return &Tracker{latency: newSafeHistogram()}
}

// Observe records one attempt's wall-clock latency and outcome.
func (t *Tracker) Observe(latency time.Duration, ok bool) {
	atomic.AddUint64(&t.attempts, 1)
	if ok {
		atomic.AddUint64(&t.passed, 1)
	} else {
		atomic.AddUint64(&t.failed, 1)
	}
	t.latency.recordValue(latency.Microseconds())
}

// Snapshot returns the current counters and latency quantiles.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Attempts: atomic.LoadUint64(&t.attempts),
		Passed:   atomic.LoadUint64(&t.passed),
		Failed:   atomic.LoadUint64(&t.failed),
		P50Ms:    float64(t.latency.valueAtQuantile(50)) / 1000.0,
		P95Ms:    float64(t.latency.valueAtQuantile(95)) / 1000.0,
		P99Ms:    float64(t.latency.valueAtQuantile(99)) / 1000.0,
		MeanMs:   t.latency.mean() / 1000.0,
		MaxMs:    t.latency.max() / 1000,
	}
}

var _ trialbench.LiveSink = (*Tracker)(nil)

// safeHistogram is a mutex-guarded hdrhistogram recording microseconds.
type safeHistogram struct {
	mu   sync.Mutex
	hist *hdrhistogram.Histogram
}

func newSafeHistogram() *safeHistogram {
	// 1us to 10min, 3 significant figures
	h := hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3)
	return &safeHistogram{hist: h}
}

func (h *safeHistogram) recordValue(v int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v < 1 {
		v = 1
	}
	_ = h.hist.RecordValue(v)
}

func (h *safeHistogram) valueAtQuantile(q float64) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.ValueAtQuantile(q)
}

func (h *safeHistogram) mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Mean()
}

func (h *safeHistogram) max() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Max()
}

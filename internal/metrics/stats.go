package metrics

import (
	"math"
	"time"
)

// Window accumulates error and timing between two progress reports.
type Window struct {
	examples int
	elapsed  time.Duration
	sqErr    float64
}

// Record adds one processed example to the window.
func (w *Window) Record(elapsed time.Duration, sqErr float64) {
	w.examples++
	w.elapsed += elapsed
	w.sqErr += sqErr
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{Examples: w.examples}
	if w.elapsed > 0 {
		snap.ExamplesPerSec = float64(w.examples) / w.elapsed.Seconds()
	}
	if w.examples > 0 {
		snap.MeanSqErr = w.sqErr / float64(w.examples)
	}

	w.examples = 0
	w.elapsed = 0
	w.sqErr = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	Examples       int
	ExamplesPerSec float64
	MeanSqErr      float64
}

// Deciles reports progress roughly every tenth of n items.
type Deciles struct {
	n    int
	step int
}

// NewDeciles prepares progress reporting over n items.
func NewDeciles(n int) Deciles {
	step := int(math.Round(float64(n) / 10))
	if step < 1 {
		step = 1
	}
	return Deciles{n: n, step: step}
}

// At reports whether item i (0-based, before processing it) is a
// reporting point, and the completed percentage.
func (d Deciles) At(i int) (percent int, ok bool) {
	if i == 0 || i%d.step != 0 {
		return 0, false
	}
	return int(math.Round(100 * float64(i) / float64(d.n))), true
}

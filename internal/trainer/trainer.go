// Package trainer runs the single online training epoch and the
// accuracy evaluation over prepared glyph examples.
package trainer

import (
	"time"

	"github.com/sirupsen/logrus"

	"glyphnet/internal/dataset"
	"glyphnet/internal/metrics"
	"glyphnet/internal/model"
)

// Result summarises one training epoch.
type Result struct {
	Examples         int
	MeanSquaredError float64
	Duration         time.Duration
}

// Train performs exactly one pass over examples in their original order,
// one example at a time. Progress is logged at every decile.
func Train(m model.Model, examples []dataset.Example, rate float64, log logrus.FieldLogger) Result {
	if log == nil {
		log = logrus.StandardLogger()
	}
	start := time.Now()
	progress := metrics.NewDeciles(len(examples))
	var window metrics.Window
	var total float64

	for i, ex := range examples {
		if pct, ok := progress.At(i); ok {
			snap := window.Snapshot()
			log.WithFields(logrus.Fields{
				"progress":         pct,
				"examples_per_sec": snap.ExamplesPerSec,
				"mse":              snap.MeanSqErr,
			}).Info("learning")
		}
		stepStart := time.Now()
		sqErr := m.Step(ex.Input, ex.Label, rate)
		window.Record(time.Since(stepStart), sqErr)
		total += sqErr
	}

	res := Result{Examples: len(examples), Duration: time.Since(start)}
	if len(examples) > 0 {
		res.MeanSquaredError = total / float64(len(examples))
	}
	return res
}

// SquaredError sums the squared output error of m over examples without
// training.
func SquaredError(m model.Model, examples []dataset.Example) float64 {
	var total float64
	for _, ex := range examples {
		out := m.Activate(ex.Input)
		for k, y := range out {
			d := ex.Label[k] - y
			total += d * d
		}
	}
	return total
}

package trainer

import (
	"github.com/sirupsen/logrus"

	"glyphnet/internal/dataset"
	"glyphnet/internal/metrics"
	"glyphnet/internal/model"
)

// Report is the outcome of an evaluation run.
type Report struct {
	Total    int
	Correct  int
	Accuracy float64 // percent
}

// Evaluate classifies every example and counts exact code point matches.
// Near misses score nothing.
func Evaluate(m model.Model, examples []dataset.Example, log logrus.FieldLogger) Report {
	if log == nil {
		log = logrus.StandardLogger()
	}
	progress := metrics.NewDeciles(len(examples))
	rep := Report{Total: len(examples)}
	for i, ex := range examples {
		if pct, ok := progress.At(i); ok {
			log.WithField("progress", pct).Info("testing")
		}
		if Predict(m, ex.Input) == dataset.CodePoint(ex.Label) {
			rep.Correct++
		}
	}
	if rep.Total > 0 {
		rep.Accuracy = 100 * float64(rep.Correct) / float64(rep.Total)
	}
	return rep
}

// Predict returns the character code the network assigns to input.
func Predict(m model.Model, input []float64) byte {
	return dataset.CodePoint(m.Activate(input))
}

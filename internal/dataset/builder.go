// Package dataset assembles labelled glyph examples from rendered
// captchas and splits them into training and testing sets.
package dataset

import (
	"fmt"
	"sync"

	"glyphnet/internal/glyph"
)

// Example is one glyph grid with its label. It is never modified after
// construction.
type Example struct {
	Input  []float64
	Label  []float64
	Char   byte
	Sample int
}

// NewExample builds the example for character c at sample index n.
func NewExample(g glyph.Grid, c byte, n int) Example {
	return Example{Input: g.Floats(), Label: Label(c), Char: c, Sample: n}
}

// Dataset is the finished train/test split.
type Dataset struct {
	Training []Example
	Testing  []Example
}

// Builder collects examples from samples that complete in any order.
// Samples with an index below the training size go to the training set,
// the rest to the testing set.
type Builder struct {
	trainingSet int

	mu       sync.Mutex
	bySample [][]Example
	done     []chan struct{}
}

// NewBuilder prepares a builder for samples indices [0, samples).
func NewBuilder(trainingSet, samples int) *Builder {
	done := make([]chan struct{}, samples)
	for i := range done {
		done[i] = make(chan struct{})
	}
	return &Builder{
		trainingSet: trainingSet,
		bySample:    make([][]Example, samples),
		done:        done,
	}
}

// Add records the glyphs of sample n. The i-th grid is labelled with the
// i-th character of text.
func (b *Builder) Add(n int, text string, grids []glyph.Grid) error {
	if n < 0 || n >= len(b.bySample) {
		return fmt.Errorf("sample %d out of range [0, %d)", n, len(b.bySample))
	}
	if len(text) < len(grids) {
		return fmt.Errorf("sample %d: text %q shorter than %d glyphs", n, text, len(grids))
	}
	examples := make([]Example, len(grids))
	for i, g := range grids {
		examples[i] = NewExample(g, text[i], n)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bySample[n] != nil {
		return fmt.Errorf("sample %d added twice", n)
	}
	b.bySample[n] = examples
	return nil
}

// MarkDone resolves the completion handle of sample n. It must be called
// at most once per index.
func (b *Builder) MarkDone(n int) {
	close(b.done[n])
}

// Ready is closed once the sample with the highest index is done. It
// tracks that specific index rather than a count of finished samples.
func (b *Builder) Ready() <-chan struct{} {
	if len(b.done) == 0 {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return b.done[len(b.done)-1]
}

// Finalize waits for every other sample handle and returns the split,
// ordered by sample index and then glyph position. Call it once, after
// Ready has fired.
func (b *Builder) Finalize() *Dataset {
	for _, d := range b.done {
		<-d
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	ds := &Dataset{}
	for n, examples := range b.bySample {
		if n < b.trainingSet {
			ds.Training = append(ds.Training, examples...)
		} else {
			ds.Testing = append(ds.Testing, examples...)
		}
	}
	return ds
}

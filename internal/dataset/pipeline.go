package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"glyphnet/internal/captcha"
	"glyphnet/internal/glyph"
)

// Pipeline renders, decodes, binarizes and centres one captcha per sample
// index and feeds the glyphs to a Builder.
type Pipeline struct {
	Generator   captcha.Generator
	Decoder     captcha.Decoder
	Params      captcha.Params
	Threshold   int
	TrainingSet int
	TestingSet  int
	NumWorkers  int
	ExamplesDir string
	Log         logrus.FieldLogger
}

// Run processes every sample and returns the dataset. The first
// generation or decode error cancels the remaining work and is returned.
func (p *Pipeline) Run(parent context.Context) (*Dataset, error) {
	samples := p.TrainingSet + p.TestingSet
	if samples <= 0 {
		return nil, errors.New("pipeline: no samples requested")
	}
	if p.Generator == nil || p.Decoder == nil {
		return nil, errors.New("pipeline: generator and decoder are required")
	}
	workers := p.NumWorkers
	if workers <= 0 {
		workers = 1
	}
	log := p.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	builder := NewBuilder(p.TrainingSet, samples)
	jobs := make(chan int, workers)
	errCh := make(chan error, workers)

	go produceJobs(ctx, jobs, samples)

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		runWorkers(workers, func() {
			for {
				select {
				case <-ctx.Done():
					return
				case n, ok := <-jobs:
					if !ok {
						return
					}
					if err := p.process(ctx, builder, n, log); err != nil {
						errCh <- err
						cancel()
						return
					}
				}
			}
		})
	}()

	log.WithFields(logrus.Fields{"samples": samples, "workers": workers}).Info("generating images")

	select {
	case <-builder.Ready():
		log.WithField("sample", samples-1).Debug("last sample processed")
	case err := <-errCh:
		return nil, err
	case <-workersDone:
	}
	<-workersDone

	select {
	case err := <-errCh:
		return nil, err
	default:
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	ds := builder.Finalize()
	log.WithFields(logrus.Fields{
		"training": len(ds.Training),
		"testing":  len(ds.Testing),
	}).Info("dataset ready")
	return ds, nil
}

// process runs the chain for sample n. The index is passed explicitly and
// also seeds the generator, so output does not depend on scheduling.
func (p *Pipeline) process(ctx context.Context, b *Builder, n int, log logrus.FieldLogger) error {
	params := p.Params
	params.Seed = p.Params.Seed + int64(n)

	text, encoded, err := p.Generator.Generate(ctx, params)
	if err != nil {
		return fmt.Errorf("generate sample %d: %w", n, err)
	}
	raw, err := p.Decoder.Decode(encoded)
	if err != nil {
		return fmt.Errorf("sample %d: %w", n, err)
	}
	if n == 0 && p.ExamplesDir != "" {
		if path, err := captcha.SaveExample(p.ExamplesDir, text, raw); err != nil {
			log.WithError(err).Warn("could not save example image")
		} else {
			log.WithField("path", path).Info("example image saved")
		}
	}

	grids := glyph.Binarize(raw, p.Params.Count, p.Params.Height, p.Threshold)
	for i := range grids {
		grids[i] = glyph.Center(grids[i])
	}
	if err := b.Add(n, text, grids); err != nil {
		return err
	}
	b.MarkDone(n)
	log.WithFields(logrus.Fields{"sample": n, "text": text}).Debug("sample processed")
	return nil
}

func produceJobs(ctx context.Context, jobs chan<- int, samples int) {
	defer close(jobs)
	for n := 0; n < samples; n++ {
		select {
		case <-ctx.Done():
			return
		case jobs <- n:
		}
	}
}

func runWorkers(n int, body func()) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body()
		}()
	}
	wg.Wait()
}

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauspost/cpuid/v2"
	log "github.com/sirupsen/logrus"

	"glyphnet/internal/captcha"
	"glyphnet/internal/config"
	"glyphnet/internal/dataset"
	"glyphnet/internal/model"
	"glyphnet/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "configs/demo.yaml", "Path to YAML or JSON config")
	text := flag.String("text", "", "Override the captcha alphabet")
	trainingSet := flag.Int("training-set", 0, "Number of training captchas")
	testingSet := flag.Int("testing-set", 0, "Number of testing captchas")
	hidden := flag.Int("hidden", 0, "Hidden layer width")
	rate := flag.Float64("learning-rate", 0, "Learning rate")
	numWorkers := flag.Int("num-workers", 0, "Number of rendering workers")
	seed := flag.Int64("seed", 0, "PRNG seed")
	modelPath := flag.String("model", "", "Where to write the trained network")
	testingShard := flag.String("testing-shard", "", "Where to write the testing set shard")
	logLevel := flag.String("log-level", "", "Log level")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		Text:         *text,
		TrainingSet:  *trainingSet,
		TestingSet:   *testingSet,
		Hidden:       *hidden,
		LearningRate: *rate,
		NumWorkers:   *numWorkers,
		Seed:         *seed,
		ModelPath:    *modelPath,
		TestingShard: *testingShard,
		LogLevel:     *logLevel,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	log.SetLevel(level)

	renderer, err := captcha.NewRenderer(cfg.Fonts)
	if err != nil {
		log.Fatalf("load fonts: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"cpu":     cpuid.CPU.BrandName,
		"workers": cfg.NumWorkers,
		"samples": cfg.Samples(),
	}).Info("generating dataset")

	pipeline := &dataset.Pipeline{
		Generator: renderer,
		Decoder:   captcha.ImageDecoder{},
		Params: captcha.Params{
			Count:    cfg.Length,
			Height:   cfg.ImageSize,
			Alphabet: cfg.Text,
			Fonts:    cfg.Fonts,
			Seed:     cfg.Seed,
		},
		Threshold:   cfg.Threshold,
		TrainingSet: cfg.TrainingSet,
		TestingSet:  cfg.TestingSet,
		NumWorkers:  cfg.NumWorkers,
		ExamplesDir: cfg.ExamplesDir,
		Log:         log.StandardLogger(),
	}
	ds, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatalf("dataset generation failed: %v", err)
	}

	net := model.NewPerceptron(cfg.Inputs(), cfg.Network.Hidden, dataset.LabelBits, cfg.Seed)
	log.WithFields(log.Fields{
		"input":         net.Inputs,
		"hidden":        net.Hidden,
		"output":        net.Outputs,
		"learning_rate": cfg.Network.LearningRate,
		"training_set":  len(ds.Training),
		"testing_set":   len(ds.Testing),
	}).Info("neural network specs")

	res := trainer.Train(net, ds.Training, cfg.Network.LearningRate, log.StandardLogger())
	log.WithFields(log.Fields{
		"mse":      res.MeanSquaredError,
		"duration": res.Duration,
	}).Info("learning done")

	if err := model.Save(cfg.ModelPath, net); err != nil {
		log.Fatalf("%v", err)
	}
	log.WithField("path", cfg.ModelPath).Info("network saved")

	if cfg.TestingShard != "" {
		if err := dataset.WriteShard(cfg.TestingShard, ds.Testing, cfg.ImageSize); err != nil {
			log.Fatalf("write testing shard: %v", err)
		}
		log.WithField("path", cfg.TestingShard).Info("testing set saved")
	}

	rep := trainer.Evaluate(net, ds.Testing, log.StandardLogger())
	log.WithFields(log.Fields{
		"correct": rep.Correct,
		"total":   rep.Total,
	}).Infof("success rate: %.2f%%", rep.Accuracy)
}

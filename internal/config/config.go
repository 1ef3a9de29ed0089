package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/cpuid/v2"
	"gopkg.in/yaml.v3"
)

// Config captures the hyperparameters of one synthesis + training run.
type Config struct {
	Text         string   `yaml:"text"`
	Length       int      `yaml:"length"`
	Fonts        []string `yaml:"fonts"`
	Threshold    int      `yaml:"threshold"`
	TrainingSet  int      `yaml:"training_set"`
	TestingSet   int      `yaml:"testing_set"`
	ImageSize    int      `yaml:"image_size"`
	Network      Network  `yaml:"network"`
	Seed         int64    `yaml:"seed"`
	NumWorkers   int      `yaml:"num_workers"`
	ExamplesDir  string   `yaml:"examples_dir"`
	ModelPath    string   `yaml:"model_path"`
	TestingShard string   `yaml:"testing_shard"`
	LogLevel     string   `yaml:"log_level"`
}

// Network holds the perceptron shape and learning rate.
type Network struct {
	Hidden       int     `yaml:"hidden"`
	LearningRate float64 `yaml:"learning_rate"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Text         string
	TrainingSet  int
	TestingSet   int
	Hidden       int
	LearningRate float64
	NumWorkers   int
	Seed         int64
	ModelPath    string
	TestingShard string
	LogLevel     string
}

const (
	defaultText        = "0123456789"
	defaultThreshold   = 400
	defaultTrainingSet = 2000
	defaultTestingSet  = 500
	defaultImageSize   = 20
	defaultSeed        = 42
)

// Load reads a Config from YAML (or JSON) and fills in defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Parse decodes a config document. Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Text != "" {
		c.Text = o.Text
	}
	if o.TrainingSet > 0 {
		c.TrainingSet = o.TrainingSet
	}
	if o.TestingSet > 0 {
		c.TestingSet = o.TestingSet
	}
	if o.Hidden > 0 {
		c.Network.Hidden = o.Hidden
	}
	if o.LearningRate > 0 {
		c.Network.LearningRate = o.LearningRate
	}
	if o.NumWorkers > 0 {
		c.NumWorkers = o.NumWorkers
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.ModelPath != "" {
		c.ModelPath = o.ModelPath
	}
	if o.TestingShard != "" {
		c.TestingShard = o.TestingShard
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

// Validate fills unset values with their defaults and verifies the
// config is runnable. The hidden width and learning rate defaults depend
// on the image size, so they are resolved after it.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Text == "" {
		c.Text = defaultText
	}
	if c.Length == 0 {
		c.Length = len(c.Text)
	}
	if len(c.Fonts) == 0 {
		c.Fonts = []string{"go"}
	}
	if c.Threshold == 0 {
		c.Threshold = defaultThreshold
	}
	if c.TrainingSet == 0 {
		c.TrainingSet = defaultTrainingSet
	}
	if c.TestingSet == 0 {
		c.TestingSet = defaultTestingSet
	}
	if c.ImageSize == 0 {
		c.ImageSize = defaultImageSize
	}
	if c.Network.Hidden == 0 {
		c.Network.Hidden = 2 * c.ImageSize
	}
	if c.Network.LearningRate == 0 {
		c.Network.LearningRate = float64(c.Network.Hidden) / float64(c.Inputs())
	}
	if c.Seed == 0 {
		c.Seed = defaultSeed
	}
	if c.NumWorkers <= 0 {
		c.NumWorkers = cpuid.CPU.LogicalCores
		if c.NumWorkers <= 0 {
			c.NumWorkers = 1
		}
	}
	if c.ExamplesDir == "" {
		c.ExamplesDir = "examples"
	}
	if c.ModelPath == "" {
		c.ModelPath = "network.bin"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	for i := 0; i < len(c.Text); i++ {
		if c.Text[i] == 0 {
			return fmt.Errorf("text contains a NUL byte at %d", i)
		}
	}
	if c.Length < 0 {
		return fmt.Errorf("length must be > 0 (got %d)", c.Length)
	}
	if c.Threshold < 0 || c.Threshold > 3*255 {
		return fmt.Errorf("threshold must be within [0, 765] (got %d)", c.Threshold)
	}
	if c.TrainingSet < 0 {
		return fmt.Errorf("training_set must be > 0 (got %d)", c.TrainingSet)
	}
	if c.TestingSet < 0 {
		return fmt.Errorf("testing_set must be > 0 (got %d)", c.TestingSet)
	}
	if c.ImageSize < 0 {
		return fmt.Errorf("image_size must be > 0 (got %d)", c.ImageSize)
	}
	if c.Network.Hidden < 0 {
		return fmt.Errorf("network.hidden must be > 0 (got %d)", c.Network.Hidden)
	}
	if c.Network.LearningRate < 0 {
		return fmt.Errorf("network.learning_rate must be > 0 (got %g)", c.Network.LearningRate)
	}
	return nil
}

// Samples is the total number of captchas rendered in a run.
func (c *Config) Samples() int {
	return c.TrainingSet + c.TestingSet
}

// Inputs is the width of the network's input layer.
func (c *Config) Inputs() int {
	return c.ImageSize * c.ImageSize
}

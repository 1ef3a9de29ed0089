package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Text != "0123456789" || cfg.Length != 10 {
		t.Fatalf("unexpected text defaults: %q length=%d", cfg.Text, cfg.Length)
	}
	if cfg.Threshold != 400 || cfg.TrainingSet != 2000 || cfg.TestingSet != 500 || cfg.ImageSize != 20 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Network.Hidden != 40 {
		t.Fatalf("expected hidden=40, got %d", cfg.Network.Hidden)
	}
	if math.Abs(cfg.Network.LearningRate-0.1) > 1e-12 {
		t.Fatalf("expected learning rate 0.1, got %g", cfg.Network.LearningRate)
	}
	if cfg.NumWorkers <= 0 {
		t.Fatalf("expected a positive worker count, got %d", cfg.NumWorkers)
	}
	if cfg.Samples() != 2500 {
		t.Fatalf("expected 2500 samples, got %d", cfg.Samples())
	}
}

func TestLoadNestedNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := "text: \"01\"\nimage_size: 4\nthreshold: 300\nnetwork:\n  hidden: 6\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Network.Hidden != 6 || cfg.Threshold != 300 || cfg.Inputs() != 16 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if math.Abs(cfg.Network.LearningRate-6.0/16.0) > 1e-12 {
		t.Fatalf("expected learning rate hidden/input, got %g", cfg.Network.LearningRate)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	doc := `{"text": "abc", "fonts": ["gomono"], "training_set": 10, "network": {"learning_rate": 0.3}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Text != "abc" || cfg.TrainingSet != 10 || cfg.Fonts[0] != "gomono" || cfg.Network.LearningRate != 0.3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	if _, err := Parse(strings.NewReader("batch_size: 3\n")); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := &Config{TrainingSet: 5, Seed: 1}
	cfg.ApplyOverrides(Overrides{TrainingSet: 7, LearningRate: 0.5})
	if cfg.TrainingSet != 7 || cfg.Network.LearningRate != 0.5 || cfg.Seed != 1 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestValidateRejectsThreshold(t *testing.T) {
	cfg := &Config{Threshold: 1000}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected threshold error")
	}
}

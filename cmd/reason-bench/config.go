package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gustavo-munhoz/reason/classifiers/hoeffding"
)

// fileConfig is the YAML shape accepted by --config: a learner, a stream
// and the evaluation/driver knobs needed to wire up a prequential run
// without writing any Go.
type fileConfig struct {
	Learner   learnerConfig   `yaml:"learner"`
	Stream    streamConfig    `yaml:"stream"`
	Evaluator evaluatorConfig `yaml:"evaluator"`
	Driver    driverConfig    `yaml:"driver"`
}

type learnerConfig struct {
	// Kind is "hoeffding" or "bayes".
	Kind string `yaml:"kind"`

	GracePeriod           int     `yaml:"grace_period"`
	SplitConfidence       float64 `yaml:"split_confidence"`
	TieThreshold          float64 `yaml:"tie_threshold"`
	BinarySplits          bool    `yaml:"binary_splits"`
	NoPrePrune            bool    `yaml:"no_pre_prune"`
	RemovePoorAttributes  bool    `yaml:"remove_poor_attributes"`
	LeafPrediction        string  `yaml:"leaf_prediction"`
	NBThreshold           float64 `yaml:"nb_threshold"`
	MaxByteSize           int64   `yaml:"max_byte_size"`
	StopMemManagement     bool    `yaml:"stop_mem_management"`
	MemoryEstimatePeriod  int64   `yaml:"memory_estimate_period"`
}

func (c learnerConfig) hoeffdingConfig() *hoeffding.Config {
	var lp hoeffding.LeafPrediction
	switch c.LeafPrediction {
	case "naive_bayes":
		lp = hoeffding.LeafNaiveBayes
	case "nb_adaptive", "":
		lp = hoeffding.LeafNBAdaptive
	case "majority_class":
		lp = hoeffding.LeafMajorityClass
	}

	return &hoeffding.Config{
		GracePeriod:          c.GracePeriod,
		SplitConfidence:      c.SplitConfidence,
		TieThreshold:         c.TieThreshold,
		BinarySplits:         c.BinarySplits,
		NoPrePrune:           c.NoPrePrune,
		RemovePoorAttributes: c.RemovePoorAttributes,
		LeafPredictionKind:   lp,
		NBThreshold:          c.NBThreshold,
		MaxByteSize:          c.MaxByteSize,
		StopMemManagement:    c.StopMemManagement,
		MemoryEstimatePeriod: c.MemoryEstimatePeriod,
	}
}

type streamConfig struct {
	// Kind is "arff", "agrawal" or "sea".
	Kind string `yaml:"kind"`

	// Path is required for kind "arff".
	Path string `yaml:"path"`

	// Generator parameters, used by "agrawal"/"sea".
	Function       int     `yaml:"function"`
	Balance        bool    `yaml:"balance"`
	Perturb        float64 `yaml:"perturb"`
	NoisePercent   int     `yaml:"noise_percent"`
	MaxInstances   int     `yaml:"max_instances"`
	Seed           int64   `yaml:"seed"`

	// ThrottleRate, when positive, paces the stream to at most this many
	// instances/second instead of replaying it as fast as the CPU allows.
	ThrottleRate  float64 `yaml:"throttle_rate"`
	ThrottleBurst int     `yaml:"throttle_burst"`
}

type evaluatorConfig struct {
	Macro    bool `yaml:"macro"`
	PerClass bool `yaml:"per_class"`
}

type driverConfig struct {
	MaxInstances      *int64 `yaml:"max_instances"`
	MaxSeconds        *int64 `yaml:"max_seconds"`
	SampleFrequency   int64  `yaml:"sample_frequency"`
	MemCheckFrequency int64  `yaml:"mem_check_frequency"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Driver.SampleFrequency <= 0 {
		cfg.Driver.SampleFrequency = 1000
	}
	if cfg.Driver.MemCheckFrequency <= 0 {
		cfg.Driver.MemCheckFrequency = 1000
	}
	return &cfg, nil
}

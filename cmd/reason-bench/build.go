package main

import (
	"fmt"

	"github.com/gustavo-munhoz/reason/classifiers/bayes"
	"github.com/gustavo-munhoz/reason/classifiers/hoeffding"
	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/driver"
	"github.com/gustavo-munhoz/reason/evaluation"
	"github.com/gustavo-munhoz/reason/streams"
	"github.com/gustavo-munhoz/reason/streams/agrawal"
	"github.com/gustavo-munhoz/reason/streams/arff"
	"github.com/gustavo-munhoz/reason/streams/sea"
)

func buildStream(cfg streamConfig) (streams.Stream, error) {
	s, err := buildBaseStream(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.ThrottleRate > 0 {
		burst := cfg.ThrottleBurst
		if burst <= 0 {
			burst = 1
		}
		s = streams.NewThrottled(s, cfg.ThrottleRate, burst)
	}
	return s, nil
}

func buildBaseStream(cfg streamConfig) (streams.Stream, error) {
	switch cfg.Kind {
	case "arff":
		if cfg.Path == "" {
			return nil, fmt.Errorf("stream.path is required for kind %q", cfg.Kind)
		}
		return arff.Open(cfg.Path)
	case "agrawal":
		return agrawal.New(cfg.Function, cfg.Balance, cfg.Perturb, cfg.MaxInstances, cfg.Seed)
	case "sea":
		return sea.New(cfg.Function, cfg.Balance, cfg.NoisePercent, cfg.MaxInstances, cfg.Seed)
	default:
		return nil, fmt.Errorf("unknown stream.kind %q (want arff, agrawal or sea)", cfg.Kind)
	}
}

// treeLearner adapts *hoeffding.Tree to driver.Learner: Tree.Train returns
// a *Trace for the tracing diagnostics channel, which the driver has no
// use for.
type treeLearner struct{ tree *hoeffding.Tree }

func (t treeLearner) Votes(inst core.Instance) []float64 { return t.tree.Votes(inst) }
func (t treeLearner) Train(inst core.Instance)           { t.tree.Train(inst) }

func buildLearner(cfg learnerConfig, model *core.Model) (driver.Learner, error) {
	switch cfg.Kind {
	case "hoeffding", "":
		return treeLearner{tree: hoeffding.New(model, cfg.hoeffdingConfig())}, nil
	case "bayes":
		return bayes.New(model), nil
	default:
		return nil, fmt.Errorf("unknown learner.kind %q (want hoeffding or bayes)", cfg.Kind)
	}
}

func buildEvaluator(cfg evaluatorConfig, model *core.Model) *evaluation.ClassificationEvaluator {
	return evaluation.NewClassificationEvaluator(model, evaluation.Config{
		Macro:    cfg.Macro,
		PerClass: cfg.PerClass,
	})
}

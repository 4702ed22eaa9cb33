package evaluation

import (
	"math"
	"testing"

	"github.com/gustavo-munhoz/reason/core"
)

func binaryModel() *core.Model {
	return core.NewModel(
		&core.Attribute{Name: "class", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("0", "1")},
		&core.Attribute{Name: "x", Kind: core.AttributeKindNumeric},
	)
}

func votesFor(k int, n int) []float64 {
	v := make([]float64, n)
	v[k] = 1.0
	return v
}

func TestClassificationEvaluatorOraclePrequential(t *testing.T) {
	model := binaryModel()
	ev := NewClassificationEvaluator(model, Config{})

	for i := 0; i < 100; i++ {
		label := i % 2
		inst := core.MapInstance{"class": "0", "x": 0.0}
		if label == 1 {
			inst["class"] = "1"
		}
		ev.AddResult(inst, votesFor(label, 2))
	}

	perf := ev.Performance()
	if perf["accuracy"] <= 0.9999 {
		t.Errorf("expected accuracy > 0.9999, got %v", perf["accuracy"])
	}
	if math.IsNaN(perf["kappa"]) || perf["kappa"] <= 0.99 {
		t.Errorf("expected kappa finite and > 0.99, got %v", perf["kappa"])
	}
}

func TestClassificationEvaluatorEmptyYieldsZeroKappa(t *testing.T) {
	model := binaryModel()
	ev := NewClassificationEvaluator(model, Config{})

	perf := ev.Performance()
	if !math.IsNaN(perf["accuracy"]) {
		t.Errorf("expected accuracy NaN, got %v", perf["accuracy"])
	}
	if perf["kappa"] != 0 {
		t.Errorf("expected kappa 0, got %v", perf["kappa"])
	}
}

func TestClassificationEvaluatorNoVotes(t *testing.T) {
	model := binaryModel()
	ev := NewClassificationEvaluator(model, Config{})

	for i := 0; i < 20; i++ {
		label := i % 2
		inst := core.MapInstance{"class": "0", "x": 0.0}
		if label == 1 {
			inst["class"] = "1"
		}
		ev.AddResult(inst, nil)
	}

	perf := ev.Performance()
	if !math.IsNaN(perf["accuracy"]) {
		t.Errorf("expected accuracy NaN, got %v", perf["accuracy"])
	}
	if perf["kappa"] != 0 {
		t.Errorf("expected kappa 0, got %v", perf["kappa"])
	}
}

func TestClassificationEvaluatorZeroWeightIgnored(t *testing.T) {
	model := binaryModel()
	ev := NewClassificationEvaluator(model, Config{})

	zero := core.WeightedInstance{Instance: core.MapInstance{"class": "1", "x": 0.0}, W: 0}
	ev.AddResult(zero, votesFor(1, 2))

	one := core.MapInstance{"class": "1", "x": 0.0}
	ev.AddResult(one, votesFor(1, 2))

	perf := ev.Performance()
	if math.Abs(perf["accuracy"]-1.0) > 1e-12 {
		t.Errorf("expected accuracy 1.0, got %v", perf["accuracy"])
	}
}

func TestClassificationEvaluatorReset(t *testing.T) {
	model := binaryModel()
	ev := NewClassificationEvaluator(model, Config{})

	ev.AddResult(core.MapInstance{"class": "1", "x": 0.0}, votesFor(1, 2))
	if perf := ev.Performance(); math.IsNaN(perf["accuracy"]) {
		t.Fatalf("expected accuracy defined before reset")
	}

	ev.Reset()
	perf := ev.Performance()
	if !math.IsNaN(perf["accuracy"]) {
		t.Errorf("expected accuracy NaN after reset, got %v", perf["accuracy"])
	}
	if perf["kappa"] != 0 {
		t.Errorf("expected kappa 0 after reset, got %v", perf["kappa"])
	}
}

func TestMeanEstimatorSkipsNaN(t *testing.T) {
	m := NewMeanEstimator()
	m.Add(1)
	m.Add(math.NaN())
	m.Add(0)
	if got := m.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected mean 0.5 ignoring NaN, got %v", got)
	}
}

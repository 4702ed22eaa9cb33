package evaluation

import (
	"fmt"
	"math"
	"sync"

	"github.com/gustavo-munhoz/reason/core"
)

// Config selects which optional metrics ClassificationEvaluator reports
// from Performance().
type Config struct {
	// Macro enables macro precision/recall/f1 across all observed classes.
	Macro bool
	// PerClass enables precision_class_i/recall_class_i/f1_class_i for
	// every observed class.
	PerClass bool
}

// ClassificationEvaluator is an online classification evaluator: accuracy,
// Cohen's kappa, temporal kappa (vs. a no-change baseline) and majority
// kappa (vs. a majority-class baseline), computed in a single streaming
// pass with no buffering of past instances.
type ClassificationEvaluator struct {
	model *core.Model
	conf  Config

	accuracy             *MeanEstimator
	rowK                 []*MeanEstimator // predicted-class marginal
	colK                 []*MeanEstimator // true-class marginal
	precision            []*MeanEstimator
	recall               []*MeanEstimator
	weightCorrectNoChange *MeanEstimator
	weightMajority        *MeanEstimator

	totalWeight   float64
	lastTrueClass int

	mu sync.RWMutex
}

// NewClassificationEvaluator returns an evaluator bound to model, ready to
// accumulate over a stream of the same schema.
func NewClassificationEvaluator(model *core.Model, conf Config) *ClassificationEvaluator {
	e := &ClassificationEvaluator{
		model:                 model,
		conf:                  conf,
		accuracy:              NewMeanEstimator(),
		weightCorrectNoChange: NewMeanEstimator(),
		weightMajority:        NewMeanEstimator(),
		lastTrueClass:         -1,
	}
	return e
}

// Reset clears all accumulated statistics but preserves the model, config
// and number of known classes.
func (e *ClassificationEvaluator) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.accuracy.Reset()
	e.weightCorrectNoChange.Reset()
	e.weightMajority.Reset()
	for _, m := range e.rowK {
		m.Reset()
	}
	for _, m := range e.colK {
		m.Reset()
	}
	for _, m := range e.precision {
		m.Reset()
	}
	for _, m := range e.recall {
		m.Reset()
	}
	e.totalWeight = 0
	e.lastTrueClass = -1
}

func (e *ClassificationEvaluator) grow(k int) {
	for len(e.rowK) <= k {
		e.rowK = append(e.rowK, NewMeanEstimator())
		e.colK = append(e.colK, NewMeanEstimator())
		e.precision = append(e.precision, NewMeanEstimator())
		e.recall = append(e.recall, NewMeanEstimator())
	}
}

// AddResult scores votes against
// the instance's true class and folds the outcome into every running
// statistic. A missing class, an all-non-finite vote vector, or a
// non-positive weight leaves every statistic untouched.
func (e *ClassificationEvaluator) AddResult(inst core.Instance, votes []float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	classVal := e.model.ClassValue(inst)
	if classVal.IsMissing() {
		return
	}
	trueClass := classVal.Index()

	want := len(votes)
	if trueClass+1 > want {
		want = trueClass + 1
	}
	e.grow(want - 1)

	predicted := argmaxFinite(votes)
	if predicted < 0 {
		return
	}

	w := inst.Weight()
	if !(w > 0) {
		return
	}

	// Majority baseline uses marginals from strictly previous examples.
	majorityPred := argmaxMean(e.colK)

	correct := 0.0
	if predicted == trueClass {
		correct = w
	}

	e.accuracy.Add(correct)

	for k := range e.rowK {
		rowInd := 0.0
		if k == predicted {
			rowInd = w
		}
		e.rowK[k].Add(rowInd)

		colInd := 0.0
		if k == trueClass {
			colInd = w
		}
		e.colK[k].Add(colInd)

		if k == predicted {
			e.precision[k].Add(correct)
		} else {
			e.precision[k].Add(math.NaN())
		}
		if k == trueClass {
			e.recall[k].Add(correct)
		} else {
			e.recall[k].Add(math.NaN())
		}
	}

	if e.lastTrueClass >= 0 {
		noChange := 0.0
		if e.lastTrueClass == trueClass {
			noChange = w
		}
		e.weightCorrectNoChange.Add(noChange)
	}

	if majorityPred >= 0 {
		majorityCorrect := 0.0
		if majorityPred == trueClass {
			majorityCorrect = w
		}
		e.weightMajority.Add(majorityCorrect)
	}

	e.totalWeight += w
	e.lastTrueClass = trueClass
}

// TotalWeight returns the cumulative training weight folded in so far.
func (e *ClassificationEvaluator) TotalWeight() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.totalWeight
}

// Performance returns accuracy, kappa, kappa_t and kappa_m always present;
// macro and per-class metrics are added when enabled by Config.
func (e *ClassificationEvaluator) Performance() map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.totalWeight <= 0 {
		out := map[string]float64{
			"accuracy": math.NaN(),
			"kappa":    0,
			"kappa_t":  0,
			"kappa_m":  0,
		}
		if e.conf.Macro {
			out["precision"] = 0
			out["recall"] = 0
			out["f1"] = 0
		}
		return out
	}

	out := map[string]float64{
		"accuracy": e.accuracy.Value(),
		"kappa":    kappaAgainst(e.accuracy.Value(), e.expectedAgreement()),
		"kappa_t":  kappaAgainst(e.accuracy.Value(), e.weightCorrectNoChange.Value()),
		"kappa_m":  kappaAgainst(e.accuracy.Value(), e.weightMajority.Value()),
	}

	if e.conf.Macro || e.conf.PerClass {
		var macroP, macroR, macroF1 MeanEstimator
		for k := range e.precision {
			p := e.precision[k].Value()
			r := e.recall[k].Value()
			if math.IsNaN(p) && math.IsNaN(r) {
				continue
			}
			f1 := f1Of(p, r)

			if e.conf.PerClass {
				out[fmt.Sprintf("precision_class_%d", k)] = p
				out[fmt.Sprintf("recall_class_%d", k)] = r
				out[fmt.Sprintf("f1_class_%d", k)] = f1
			}
			macroP.Add(p)
			macroR.Add(r)
			macroF1.Add(f1)
		}
		if e.conf.Macro {
			out["precision"] = macroP.Value()
			out["recall"] = macroR.Value()
			out["f1"] = macroF1.Value()
		}
	}

	return out
}

// expectedAgreement returns p_e = sum_k row_k * col_k, Cohen's kappa's
// chance-agreement term.
func (e *ClassificationEvaluator) expectedAgreement() float64 {
	var pe float64
	for k := range e.rowK {
		row := e.rowK[k].Value()
		col := e.colK[k].Value()
		if math.IsNaN(row) || math.IsNaN(col) {
			continue
		}
		pe += row * col
	}
	return pe
}

// kappaAgainst computes (p_o - p_e)/(1 - p_e), NaN if the denominator is
// within machine epsilon of zero or either input is undefined.
func kappaAgainst(po, pe float64) float64 {
	if math.IsNaN(po) || math.IsNaN(pe) {
		return math.NaN()
	}
	denom := 1 - pe
	if math.Abs(denom) < 1e-9 {
		return math.NaN()
	}
	return (po - pe) / denom
}

func f1Of(p, r float64) float64 {
	if math.IsNaN(p) || math.IsNaN(r) || p+r == 0 {
		return math.NaN()
	}
	return 2 * p * r / (p + r)
}

// argmaxFinite returns the index of the largest finite value in v, or -1
// if v is empty or every entry is non-finite.
func argmaxFinite(v []float64) int {
	best := -1
	var bestVal float64
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if best < 0 || x > bestVal {
			best = i
			bestVal = x
		}
	}
	return best
}

// argmaxMean returns the index of the estimator with the largest current
// mean, or -1 if every estimator is still undefined (no observations yet).
func argmaxMean(means []*MeanEstimator) int {
	best := -1
	var bestVal float64
	for i, m := range means {
		v := m.Value()
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > bestVal {
			best = i
			bestVal = v
		}
	}
	return best
}

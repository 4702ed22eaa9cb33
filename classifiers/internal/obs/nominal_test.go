package obs

import (
	"math"
	"testing"

	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/core"
)

// testGiniCriterion is a local stand-in for hoeffding.GiniCriterion: the
// concrete criteria live in package hoeffding, which already imports this
// package, so a real criterion can't be imported here without a cycle.
type testGiniCriterion struct{}

func (testGiniCriterion) RangeOfMerit(pre []float64) float64 { return 1.0 }

func (testGiniCriterion) MeritOf(pre []float64, post [][]float64) float64 {
	var grandTotal float64
	totals := make([]float64, len(post))
	for i, b := range post {
		for _, w := range b {
			totals[i] += w
		}
		grandTotal += totals[i]
	}
	if grandTotal <= 0 {
		return 0
	}
	var weighted float64
	for i, b := range post {
		if totals[i] <= 0 {
			continue
		}
		var impurity float64 = 1.0
		for _, w := range b {
			p := w / totals[i]
			impurity -= p * p
		}
		weighted += (totals[i] / grandTotal) * impurity
	}
	return 1.0 - weighted
}

// Probability estimates use Laplace (add-one) smoothing:
// (count + 1) / (total + numValues), never a raw frequency ratio that
// could reach exactly zero.
func TestNominalObserverProbabilityIsLaplaceSmoothed(t *testing.T) {
	o := NewNominalObserver()
	o.Observe(0, 0, 3) // value 0, class 0, weight 3
	o.Observe(1, 0, 1) // value 1, class 0, weight 1

	// class 0 has two observed values (0 and 1), total weight 4.
	got, ok := o.Probability(0, 0)
	if !ok {
		t.Fatal("expected a known probability for an observed class")
	}
	want := (3.0 + laplaceAlpha) / (4.0 + laplaceAlpha*2)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("P(value=0|class=0) = %v, want %v", got, want)
	}
}

// A value never observed under a class still gets non-zero smoothed
// probability mass, not a hard zero.
func TestNominalObserverUnseenValueIsNonZero(t *testing.T) {
	o := NewNominalObserver()
	o.Observe(0, 0, 5)

	got, ok := o.Probability(1, 0) // value 1 never observed under class 0
	if !ok {
		t.Fatal("expected a known probability for an observed class")
	}
	if got <= 0 {
		t.Errorf("P(unseen value|class) = %v, want > 0", got)
	}
}

// A class that was never observed at all reports unknown, not zero.
func TestNominalObserverUnknownClassReportsUnknown(t *testing.T) {
	o := NewNominalObserver()
	o.Observe(0, 0, 5)

	if _, ok := o.Probability(0, 7); ok {
		t.Error("expected ok=false for a class that was never observed")
	}
}

// Non-positive or non-finite weights, and negative classes, are ignored.
func TestNominalObserverIgnoresInvalidObservations(t *testing.T) {
	o := NewNominalObserver()
	o.Observe(0, 0, 0)
	o.Observe(0, 0, -1)
	o.Observe(0, -1, 1)
	o.Observe(math.NaN(), 0, 1)

	if o.numValues() != 0 {
		t.Errorf("expected no observations to have registered, got numValues=%d", o.numValues())
	}
}

// A multiway split partitions weight exactly: every branch's per-class
// count must sum back to the parent distribution.
func TestNominalObserverMultiwaySplitConservesWeight(t *testing.T) {
	o := NewNominalObserver()
	o.Observe(0, 0, 4) // value 0 (e.g. "red"), class 0
	o.Observe(0, 1, 1) // value 0, class 1
	o.Observe(1, 0, 1) // value 1 (e.g. "blue"), class 0
	o.Observe(1, 1, 4) // value 1, class 1

	attr := &core.Attribute{Name: "color", Kind: core.AttributeKindNominal}
	pre := []float64{5, 5}

	s := o.BestSplitSuggestion(testGiniCriterion{}, pre, attr, false)
	if s == nil {
		t.Fatal("expected a split suggestion")
	}
	var total float64
	for _, stats := range s.PostStats() {
		for _, w := range stats.Distribution() {
			total += w
		}
	}
	if total != 10 {
		t.Errorf("post-split total weight = %v, want 10 (conserved from the parent distribution)", total)
	}
}

// With no observations at all, there is nothing to suggest.
func TestNominalObserverNoSuggestionWithoutObservations(t *testing.T) {
	o := NewNominalObserver()
	attr := &core.Attribute{Name: "color", Kind: core.AttributeKindNominal}
	if s := o.BestSplitSuggestion(testGiniCriterion{}, []float64{1, 1}, attr, false); s != nil {
		t.Error("expected no suggestion from an observer with zero observations")
	}
}

var _ helpers.SplitCriterion = testGiniCriterion{}

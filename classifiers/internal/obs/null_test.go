package obs

import (
	"testing"

	"github.com/gustavo-munhoz/reason/core"
)

// NullObserver is the sentinel swapped in for a pruned attribute: it must
// swallow observations silently and never propose a split.
func TestNullObserverSwallowsObservationsAndNeverSuggests(t *testing.T) {
	o := NewNullObserver()
	o.Observe(1.0, 0, 5) // must not panic

	if _, ok := o.Probability(1.0, 0); ok {
		t.Error("expected ok=false: a null observer never answers a probability query")
	}

	attr := &core.Attribute{Name: "x", Kind: core.AttributeKindNumeric}
	if s := o.BestSplitSuggestion(testGiniCriterion{}, []float64{1, 1}, attr, false); s != nil {
		t.Error("expected no split suggestion from a null observer")
	}
	if o.EstimatedByteSize() != 0 {
		t.Errorf("got EstimatedByteSize=%d, want 0", o.EstimatedByteSize())
	}
}

package hoeffding

import (
	"testing"

	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/classifiers/internal/obs"
	"github.com/gustavo-munhoz/reason/core"
)

func weatherlikeModel() *core.Model {
	return core.NewModel(
		&core.Attribute{Name: "class", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("a", "b")},
		&core.Attribute{Name: "x", Kind: core.AttributeKindNumeric},
	)
}

// An inactive leaf must always predict the raw class distribution,
// regardless of the configured leaf-prediction kind: deactivation discards
// the observers the NB/NBAdaptive strategies depend on.
func TestClassVotesInactiveLeafReturnsDistributionRegardlessOfKind(t *testing.T) {
	model := weatherlikeModel()

	for _, kind := range []LeafPrediction{LeafMajorityClass, LeafNaiveBayes, LeafNBAdaptive} {
		conf := &Config{LeafPredictionKind: kind}
		conf.norm()
		tr := &Tree{conf: conf, model: model}

		leaf := newLeafNode(helpers.NewClassificationStats([]float64{3, 7}))
		leaf.model = model
		leaf.Deactivate()

		inst := core.MapInstance{"x": 1.5, "class": "a"}
		got := leaf.classVotes(inst, tr)
		want := leaf.Distribution()

		if len(got) != len(want) {
			t.Fatalf("kind=%d: got %v, want %v", kind, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("kind=%d: inactive leaf returned %v, want the raw distribution %v", kind, got, want)
			}
		}
	}
}

// End-to-end regression for the same bug via Tree.Predict: once memory
// pressure deactivates the only leaf, predictions on instances with
// non-missing features must still reflect the observed class counts
// instead of collapsing to an all-zero vote vector.
func TestTreePredictFallsBackAfterMemoryPressureDeactivatesLeaf(t *testing.T) {
	model := weatherlikeModel()
	conf := &Config{
		LeafPredictionKind:   LeafNBAdaptive,
		GracePeriod:          1_000_000, // never attempt a real split
		MaxByteSize:          1,         // force deactivation on the first check
		MemoryEstimatePeriod: 1,
	}
	tree := New(model, conf)

	tree.Train(core.MapInstance{"x": 1.0, "class": "a"})
	tree.Train(core.MapInstance{"x": 2.0, "class": "b"})
	tree.Train(core.MapInstance{"x": 3.0, "class": "a"})

	info := tree.Info()
	if info.NumInactiveLeaves == 0 {
		t.Fatal("expected the root leaf to be deactivated under a 1-byte budget")
	}

	pred := tree.Predict(core.MapInstance{"x": 2.5})
	votes := pred.Dense(model.NumClasses())

	var total float64
	for _, v := range votes {
		total += v
	}
	if total <= 0 {
		t.Errorf("got all-zero votes %v from an inactive leaf with a non-empty class distribution", votes)
	}
}

// enforceMemoryLimit must still attempt reactivation when the tree is
// already comfortably under budget: only the presence of an inactive leaf
// should gate the rearrangement pass, not the current byte size.
func TestEnforceMemoryLimitReactivatesOnceUnderBudgetAgain(t *testing.T) {
	conf := &Config{MaxByteSize: 1 << 20}
	conf.norm()

	leaf := newLeafNode(helpers.NewClassificationStats([]float64{5, 1}))
	leaf.Deactivate()

	tr := &Tree{conf: conf, root: leaf}
	tr.enforceMemoryLimit()

	if leaf.IsInactive {
		t.Error("expected the leaf to be reactivated once comfortably under budget, got still inactive")
	}
}

func TestEnforceMemoryLimitNoopWhenUnderBudgetAndAllActive(t *testing.T) {
	conf := &Config{MaxByteSize: 1 << 20}
	conf.norm()

	leaf := newLeafNode(helpers.NewClassificationStats([]float64{5, 1}))
	tr := &Tree{conf: conf, root: leaf}
	tr.enforceMemoryLimit()

	if leaf.IsInactive {
		t.Error("expected an active leaf under budget to stay active")
	}
	if tr.memFrozen {
		t.Error("expected memFrozen to stay false when comfortably under budget")
	}
}

// A split changes the tree's byte footprint; enforceMemoryLimit must run
// right after installing it rather than waiting for the periodic cycle
// counter, which may not fire again for a long time.
func TestTreeEnforcesMemoryLimitImmediatelyAfterSplit(t *testing.T) {
	model := weatherlikeModel()
	conf := &Config{
		GracePeriod:          1,
		SplitConfidence:      1.0, // hbound collapses to 0: split as soon as merit is positive
		MaxByteSize:          1,   // any leaf's minimum byte size already exceeds this
		MemoryEstimatePeriod: 1_000_000,
	}
	tree := New(model, conf)

	tree.Train(core.MapInstance{"x": 1.0, "class": "a"})
	tree.Train(core.MapInstance{"x": 10.0, "class": "b"})

	split, ok := tree.root.(*splitNode)
	if !ok {
		t.Fatalf("expected the root to have split by now, got %T", tree.root)
	}
	foundInactive := false
	for _, c := range split.Children {
		if leaf, ok := c.(*leafNode); ok && leaf.IsInactive {
			foundInactive = true
		}
	}
	if !foundInactive {
		t.Error("expected a child leaf to already be deactivated right after the split, without waiting for the periodic memory check")
	}
}

// With fewer than two split suggestions there is no runner-up to compare
// against: the sole suggestion must win outright, even when its own merit
// would not clear the Hoeffding bound.
func TestAttemptSplitAlwaysSplitsWithSingleSuggestion(t *testing.T) {
	model := core.NewModel(
		&core.Attribute{Name: "class", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("a", "b")},
		&core.Attribute{Name: "color", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("red", "blue")},
	)
	conf := &Config{NoPrePrune: true}
	conf.norm()
	tr := &Tree{conf: conf, model: model}

	leaf := newLeafNode(helpers.NewClassificationStats([]float64{5, 5}))
	leaf.model = model
	colorObs := obs.NewNominalObserver()
	colorObs.Observe(0, 0, 4) // red, class a
	colorObs.Observe(0, 1, 4) // red, class b
	colorObs.Observe(1, 0, 1) // blue, class a
	colorObs.Observe(1, 1, 1) // blue, class b
	leaf.observers = map[int]obs.AttributeObserver{0: colorObs}

	splits := leaf.BestSplits(tr)
	if len(splits) != 1 {
		t.Fatalf("test setup: expected exactly one suggestion, got %d", len(splits))
	}

	split, _ := tr.attemptSplit(leaf, leaf.Stats.TotalWeight())
	if split == nil {
		t.Fatal("expected a split with a single suggestion even though low weight makes the Hoeffding bound too wide to clear")
	}
}

// With two or more suggestions, the existing merit-gain-vs-bound gating
// still applies: a small gain under a tight bound blocks the split, and
// relaxing the bound (lower split confidence requirement) allows it.
func TestAttemptSplitGatesOnHoeffdingBoundWithMultipleSuggestions(t *testing.T) {
	model := core.NewModel(
		&core.Attribute{Name: "class", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("a", "b")},
		&core.Attribute{Name: "color", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("red", "blue")},
	)

	newLeaf := func() *leafNode {
		leaf := newLeafNode(helpers.NewClassificationStats([]float64{5, 5}))
		leaf.model = model
		colorObs := obs.NewNominalObserver()
		colorObs.Observe(0, 0, 4) // red, class a
		colorObs.Observe(0, 1, 1) // red, class b
		colorObs.Observe(1, 0, 1) // blue, class a
		colorObs.Observe(1, 1, 4) // blue, class b
		leaf.observers = map[int]obs.AttributeObserver{0: colorObs}
		return leaf
	}

	tightConf := &Config{SplitConfidence: 1e-7}
	tightConf.norm()
	tightTree := &Tree{conf: tightConf, model: model}
	tightLeaf := newLeaf()
	if split, _ := tightTree.attemptSplit(tightLeaf, tightLeaf.Stats.TotalWeight()); split != nil {
		t.Error("expected no split: the merit gain over the no-split sentinel shouldn't clear a tight Hoeffding bound at this weight")
	}

	looseConf := &Config{SplitConfidence: 0.999999999}
	looseConf.norm()
	looseTree := &Tree{conf: looseConf, model: model}
	looseLeaf := newLeaf()
	split, _ := looseTree.attemptSplit(looseLeaf, looseLeaf.Stats.TotalWeight())
	if split == nil {
		t.Error("expected a split once the Hoeffding bound is relaxed enough to clear the same merit gain")
	}
}

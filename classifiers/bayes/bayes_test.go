package bayes_test

import (
	"math"
	"testing"

	"github.com/gustavo-munhoz/reason/classifiers/bayes"
	"github.com/gustavo-munhoz/reason/core"
)

func weatherModel() *core.Model {
	return core.NewModel(
		&core.Attribute{Name: "play", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues("yes", "no")},
		&core.Attribute{Name: "outlook", Kind: core.AttributeKindNominal},
	)
}

// A nominal observer's probability estimate uses Laplace (add-one)
// smoothing: (count + 1) / (total + numValues), never a raw, possibly-zero
// frequency ratio.
func TestClassifierNominalProbabilityIsLaplaceSmoothed(t *testing.T) {
	model := weatherModel()
	c := bayes.New(model)

	// "yes": sunny x3. "no": sunny x1, overcast x1.
	c.Train(core.MapInstance{"play": "yes", "outlook": "sunny"})
	c.Train(core.MapInstance{"play": "yes", "outlook": "sunny"})
	c.Train(core.MapInstance{"play": "yes", "outlook": "sunny"})
	c.Train(core.MapInstance{"play": "no", "outlook": "sunny"})
	c.Train(core.MapInstance{"play": "no", "outlook": "overcast"})

	votes := c.Votes(core.MapInstance{"outlook": "rainy"})

	// "rainy" was never observed for either class: both classes fall back
	// to pure Laplace smoothing with a zero numerator.
	// P(rainy|yes) = (0+1)/(3+2) = 0.2, prior(yes) = 3/5 = 0.6
	// P(rainy|no)  = (0+1)/(2+2) = 0.25, prior(no)  = 2/5 = 0.4
	wantYes := 0.6 * 0.2
	wantNo := 0.4 * 0.25

	if len(votes) != 2 {
		t.Fatalf("got %d votes, want 2", len(votes))
	}
	if !closeEnough(votes[0], wantYes) {
		t.Errorf("P(yes)*unnormalized got %v, want %v", votes[0], wantYes)
	}
	if !closeEnough(votes[1], wantNo) {
		t.Errorf("P(no)*unnormalized got %v, want %v", votes[1], wantNo)
	}
}

// An attribute value never observed at all under a class (here "overcast"
// is observed under "yes" but never under "no") must never
// drive that class's score to exactly zero via a raw-frequency estimate:
// Laplace smoothing always leaves some residual probability mass.
func TestClassifierNeverObservedClassValueStillGetsNonZeroProbability(t *testing.T) {
	model := weatherModel()
	c := bayes.New(model)

	c.Train(core.MapInstance{"play": "yes", "outlook": "sunny"})
	c.Train(core.MapInstance{"play": "yes", "outlook": "overcast"})
	c.Train(core.MapInstance{"play": "no", "outlook": "sunny"})

	votes := c.Votes(core.MapInstance{"outlook": "overcast"})
	if votes[1] <= 0 {
		t.Errorf("got P(no)-weighted vote %v, want > 0 despite \"overcast\" never being observed under \"no\"", votes[1])
	}
}

// A classifier that has never seen any training data returns an all-zero
// vote vector rather than dividing by zero.
func TestClassifierUntrainedReturnsZeroVotes(t *testing.T) {
	model := weatherModel()
	c := bayes.New(model)

	votes := c.Votes(core.MapInstance{"outlook": "sunny"})
	for i, v := range votes {
		if v != 0 {
			t.Errorf("votes[%d] = %v, want 0 for an untrained classifier", i, v)
		}
	}
}

// A missing class value or non-positive weight leaves the model
// untouched: neither the prior nor any observer should change.
func TestClassifierIgnoresMissingClassAndNonPositiveWeight(t *testing.T) {
	model := weatherModel()
	c := bayes.New(model)

	c.Train(core.WeightedInstance{Instance: core.MapInstance{"play": "yes", "outlook": "sunny"}, W: 0})
	c.Train(core.MapInstance{"outlook": "sunny"}) // missing "play"

	votes := c.Votes(core.MapInstance{"outlook": "sunny"})
	for i, v := range votes {
		if v != 0 {
			t.Errorf("votes[%d] = %v, want 0: neither training call should have registered", i, v)
		}
	}
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

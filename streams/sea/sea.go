// Package sea implements the SEA synthetic concept generator: three
// numeric attributes in [0,10), classified by whether the sum of the
// first two exceeds a function-specific threshold.
package sea

import (
	"fmt"
	"math/rand"

	"github.com/gustavo-munhoz/reason/core"
)

// thresholds for functions F1..F4, matching the original SEA benchmark.
var thresholds = [4]float64{8.0, 9.0, 7.0, 9.5}

// Generator produces SEA-concept instances, optionally balancing classes
// and flipping a fraction of labels to simulate class noise.
type Generator struct {
	seed            int64
	rng             *rand.Rand
	threshold       float64
	balanceClasses  bool
	nextZero        bool
	noisePercentage int
	model           *core.Model
	maxInstances    int
	produced        int
}

// New builds a SEA generator for function (1..4). noisePercentage must be
// in [0,100]; maxInstances of 0 means unbounded.
func New(function int, balanceClasses bool, noisePercentage int, maxInstances int, seed int64) (*Generator, error) {
	if function < 1 || function > 4 {
		return nil, fmt.Errorf("sea: function must be in 1..4, got %d", function)
	}
	if noisePercentage < 0 || noisePercentage > 100 {
		return nil, fmt.Errorf("sea: noisePercentage must be in [0,100], got %d", noisePercentage)
	}
	return newWithThreshold(thresholds[function-1], balanceClasses, noisePercentage, maxInstances, seed)
}

// NewWithThreshold builds a SEA generator with an explicit threshold
// instead of one of the four canonical functions. threshold must be in
// [0,20] since attrib1+attrib2 ranges over [0,20).
func NewWithThreshold(threshold float64, balanceClasses bool, noisePercentage int, maxInstances int, seed int64) (*Generator, error) {
	if threshold < 0 || threshold > 20 {
		return nil, fmt.Errorf("sea: threshold must be in [0,20], got %v", threshold)
	}
	if noisePercentage < 0 || noisePercentage > 100 {
		return nil, fmt.Errorf("sea: noisePercentage must be in [0,100], got %d", noisePercentage)
	}
	return newWithThreshold(threshold, balanceClasses, noisePercentage, maxInstances, seed)
}

func newWithThreshold(threshold float64, balanceClasses bool, noisePercentage int, maxInstances int, seed int64) (*Generator, error) {
	return &Generator{
		seed:            seed,
		rng:             rand.New(rand.NewSource(seed)),
		threshold:       threshold,
		balanceClasses:  balanceClasses,
		noisePercentage: noisePercentage,
		model:           buildModel(),
		maxInstances:    maxInstances,
	}, nil
}

func buildModel() *core.Model {
	class := &core.Attribute{
		Name:   "class",
		Kind:   core.AttributeKindNominal,
		Values: core.NewAttributeValues("groupA", "groupB"),
	}
	model := core.NewModel(class,
		&core.Attribute{Name: "attrib1", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "attrib2", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "attrib3", Kind: core.AttributeKindNumeric},
	)
	model.Name = "SEA"
	return model
}

func (g *Generator) Header() *core.Model { return g.model }

func (g *Generator) HasMore() bool {
	return g.maxInstances == 0 || g.produced < g.maxInstances
}

func (g *Generator) Next() (core.Instance, bool) {
	if !g.HasMore() {
		return nil, false
	}

	var a1, a2, a3 float64
	var class int
	for {
		a1 = g.genAttr()
		a2 = g.genAttr()
		a3 = g.genAttr()
		class = g.determineClass(a1, a2)

		if !g.balanceClasses {
			break
		}
		wantZero := g.nextZero
		if (wantZero && class == 0) || (!wantZero && class == 1) {
			g.nextZero = !g.nextZero
			break
		}
	}

	class = g.maybeFlipWithNoise(class)

	g.produced++
	return core.NewDenseInstance(g.model, []float64{float64(class), a1, a2, a3}, 1.0), true
}

func (g *Generator) Restart() error {
	g.rng = rand.New(rand.NewSource(g.seed))
	g.nextZero = false
	g.produced = 0
	return nil
}

func (g *Generator) genAttr() float64 { return g.rng.Float64() * 10.0 }

func (g *Generator) determineClass(a1, a2 float64) int {
	if a1+a2 <= g.threshold {
		return 0
	}
	return 1
}

func (g *Generator) maybeFlipWithNoise(class int) int {
	if g.noisePercentage <= 0 {
		return class
	}
	roll := 1 + g.rng.Intn(100)
	if roll <= g.noisePercentage {
		return 1 - class
	}
	return class
}

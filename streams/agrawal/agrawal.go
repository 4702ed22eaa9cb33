// Package agrawal implements the Agrawal synthetic concept generator: ten
// loan-approval rule functions over nine customer attributes, as used by
// MOA/VFML benchmarks.
package agrawal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/gustavo-munhoz/reason/core"
)

// Generator produces instances satisfying one of ten fixed classification
// rules over salary/commission/age/elevel/car/zipcode/hvalue/hyears/loan,
// optionally perturbing numeric attributes and alternating classes to
// force balance.
type Generator struct {
	seed           int64
	rng            *rand.Rand
	function       int
	balanceClasses bool
	nextZero       bool
	perturb        float64
	model          *core.Model
	maxInstances   int // 0 means unbounded
	produced       int
}

// New builds an Agrawal generator for rule functionID (1..10). perturb
// must be in [0,1]; maxInstances of 0 means unbounded.
func New(functionID int, balanceClasses bool, perturb float64, maxInstances int, seed int64) (*Generator, error) {
	if functionID < 1 || functionID > 10 {
		return nil, fmt.Errorf("agrawal: functionID must be in 1..10, got %d", functionID)
	}
	if perturb < 0 || perturb > 1 {
		return nil, fmt.Errorf("agrawal: perturb must be in [0,1], got %v", perturb)
	}
	return &Generator{
		seed:           seed,
		rng:            rand.New(rand.NewSource(seed)),
		function:       functionID,
		balanceClasses: balanceClasses,
		perturb:        perturb,
		model:          buildModel(),
		maxInstances:   maxInstances,
	}, nil
}

func buildModel() *core.Model {
	elevel := make([]string, 5)
	for i := range elevel {
		elevel[i] = fmt.Sprintf("L%d", i)
	}
	car := make([]string, 20)
	for i := range car {
		car[i] = fmt.Sprintf("C%d", i+1)
	}
	zip := make([]string, 9)
	for i := range zip {
		zip[i] = fmt.Sprintf("Z%d", i)
	}

	class := &core.Attribute{
		Name:   "class",
		Kind:   core.AttributeKindNominal,
		Values: core.NewAttributeValues("groupA", "groupB"),
	}

	model := core.NewModel(class,
		&core.Attribute{Name: "salary", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "commission", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "age", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "elevel", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues(elevel...)},
		&core.Attribute{Name: "car", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues(car...)},
		&core.Attribute{Name: "zipcode", Kind: core.AttributeKindNominal, Values: core.NewAttributeValues(zip...)},
		&core.Attribute{Name: "hvalue", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "hyears", Kind: core.AttributeKindNumeric},
		&core.Attribute{Name: "loan", Kind: core.AttributeKindNumeric},
	)
	model.Name = "agrawal"
	return model
}

type rawAttrs struct {
	salary, commission float64
	age, elevel, car, zipcode, hyears int
	hvalue, loan                      float64
}

func (g *Generator) Header() *core.Model { return g.model }

func (g *Generator) HasMore() bool {
	return g.maxInstances == 0 || g.produced < g.maxInstances
}

func (g *Generator) Next() (core.Instance, bool) {
	if !g.HasMore() {
		return nil, false
	}

	var a rawAttrs
	var class int
	for {
		a = g.sampleRawAttrs()
		class = determine(g.function, a)

		if !g.balanceClasses {
			break
		}
		wantZero := g.nextZero
		if (wantZero && class == 0) || (!wantZero && class == 1) {
			g.nextZero = !g.nextZero
			break
		}
	}

	g.maybePerturb(&a)

	values := []float64{
		float64(class),
		a.salary,
		a.commission,
		float64(a.age),
		float64(a.elevel),
		float64(a.car),
		float64(a.zipcode),
		a.hvalue,
		float64(a.hyears),
		a.loan,
	}
	g.produced++
	return core.NewDenseInstance(g.model, values, 1.0), true
}

func (g *Generator) Restart() error {
	g.rng = rand.New(rand.NewSource(g.seed))
	g.nextZero = false
	g.produced = 0
	return nil
}

func (g *Generator) sampleRawAttrs() rawAttrs {
	r := g.rng
	salary := 20_000.0 + r.Float64()*(150_000.0-20_000.0)

	commission := 0.0
	if salary >= 75_000.0 {
		commission = 10_000.0 + r.Float64()*(75_000.0-10_000.0)
	}

	age := 20 + r.Intn(61)
	elevel := r.Intn(5)
	car := 1 + r.Intn(20)
	zipcode := r.Intn(9)

	hvalue := 0.0
	if zipcode != 0 {
		low := 50_000.0 * float64(zipcode)
		high := 100_000.0 * float64(zipcode)
		hvalue = low + r.Float64()*(high-low)
	}

	hyears := 1 + r.Intn(30)
	loan := r.Float64() * 500_000.0

	return rawAttrs{
		salary: salary, commission: commission, age: age, elevel: elevel,
		car: car, zipcode: zipcode, hvalue: hvalue, hyears: hyears, loan: loan,
	}
}

func (g *Generator) maybePerturb(a *rawAttrs) {
	if g.perturb <= 0 {
		return
	}
	r := g.rng
	if r.Float64() >= g.perturb {
		return
	}

	mult := func(x float64) float64 {
		sign := 1.0
		if r.Intn(2) == 0 {
			sign = -1.0
		}
		return x * (1.0 + sign*g.perturb)
	}
	a.salary = mult(a.salary)
	a.commission = mult(a.commission)
	a.hvalue = mult(a.hvalue)
	a.loan = mult(a.loan)

	perturbInt := func(v int) int {
		sign := 1.0
		if r.Intn(2) == 0 {
			sign = -1.0
		}
		nv := math.Round(float64(v) * (1.0 + sign*g.perturb))
		if nv < 0 {
			nv = 0
		}
		return int(nv)
	}
	a.age = clampInt(perturbInt(a.age), 0, 120)
	a.hyears = clampInt(perturbInt(a.hyears), 0, 60)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ageBand(age int) int {
	switch {
	case age < 40:
		return 0
	case age < 60:
		return 1
	default:
		return 2
	}
}

func inRange(x, lo, hi float64) bool { return x >= lo && x <= hi }

func incomeTotal(a rawAttrs) float64 { return a.salary + a.commission }

func disposableBasic(a rawAttrs) float64 { return 2.0 * incomeTotal(a) / 3.0 }

func equity(a rawAttrs) float64 {
	if a.hyears >= 20 {
		return a.hvalue * (float64(a.hyears) - 20.0) / 10.0
	}
	return 0.0
}

func zeroIf(b bool) int {
	if b {
		return 0
	}
	return 1
}

// determine dispatches to one of the ten fixed classification rules,
// each returning 0 or 1.
func determine(function int, a rawAttrs) int {
	switch function {
	case 1:
		band := ageBand(a.age)
		return zeroIf(band == 0 || band == 2)
	case 2:
		switch ageBand(a.age) {
		case 0:
			return zeroIf(inRange(a.salary, 50_000, 100_000))
		case 1:
			return zeroIf(inRange(a.salary, 75_000, 125_000))
		default:
			return zeroIf(inRange(a.salary, 25_000, 75_000))
		}
	case 3:
		switch ageBand(a.age) {
		case 0:
			return zeroIf(a.elevel == 0 || a.elevel == 1)
		case 1:
			return zeroIf(a.elevel >= 1 && a.elevel <= 3)
		default:
			return zeroIf(a.elevel >= 2 && a.elevel <= 4)
		}
	case 4:
		switch ageBand(a.age) {
		case 0:
			if a.elevel == 0 || a.elevel == 1 {
				return zeroIf(inRange(a.salary, 25_000, 75_000))
			}
			return zeroIf(inRange(a.salary, 50_000, 100_000))
		case 1:
			if a.elevel >= 1 && a.elevel <= 3 {
				return zeroIf(inRange(a.salary, 50_000, 100_000))
			}
			return zeroIf(inRange(a.salary, 75_000, 125_000))
		default:
			if a.elevel >= 2 && a.elevel <= 4 {
				return zeroIf(inRange(a.salary, 50_000, 100_000))
			}
			return zeroIf(inRange(a.salary, 25_000, 75_000))
		}
	case 5:
		switch ageBand(a.age) {
		case 0:
			if inRange(a.salary, 50_000, 100_000) {
				return zeroIf(inRange(a.loan, 100_000, 300_000))
			}
			return zeroIf(inRange(a.loan, 200_000, 400_000))
		case 1:
			if inRange(a.salary, 75_000, 125_000) {
				return zeroIf(inRange(a.loan, 200_000, 400_000))
			}
			return zeroIf(inRange(a.loan, 300_000, 500_000))
		default:
			if inRange(a.salary, 25_000, 75_000) {
				return zeroIf(inRange(a.loan, 300_000, 500_000))
			}
			return zeroIf(inRange(a.loan, 100_000, 300_000))
		}
	case 6:
		total := incomeTotal(a)
		switch ageBand(a.age) {
		case 0:
			return zeroIf(inRange(total, 50_000, 100_000))
		case 1:
			return zeroIf(inRange(total, 75_000, 125_000))
		default:
			return zeroIf(inRange(total, 25_000, 75_000))
		}
	case 7:
		return zeroIf(disposableBasic(a)-(a.loan/5.0)-20_000.0 > 0)
	case 8:
		return zeroIf(disposableBasic(a)-5_000.0*float64(a.elevel)-20_000.0 > 0)
	case 9:
		return zeroIf(disposableBasic(a)-5_000.0*float64(a.elevel)-(a.loan/5.0)-10_000.0 > 0)
	case 10:
		return zeroIf(disposableBasic(a)-5_000.0*float64(a.elevel)+(equity(a)/5.0)-10_000.0 > 0)
	default:
		panic(fmt.Sprintf("agrawal: invalid function id %d", function))
	}
}

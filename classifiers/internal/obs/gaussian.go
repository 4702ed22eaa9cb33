package obs

import (
	"math"

	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7751, (*GaussianObserver)(nil))
}

// numBins is the number of candidate split points considered between the
// observed min and max of a numeric attribute.
const numBins = 10

// sigmaFloor bounds the Gaussian estimator's standard deviation away from
// zero so that a single-valued class doesn't produce an infinite density.
const sigmaFloor = 1e-9

// gaussianEstimator tracks a weighted mean/variance online via Welford's
// algorithm.
type gaussianEstimator struct {
	weight float64
	mean   float64
	m2     float64
}

func (g *gaussianEstimator) add(value, weight float64) {
	if weight <= 0 {
		return
	}
	newWeight := g.weight + weight
	delta := value - g.mean
	g.mean += delta * weight / newWeight
	g.m2 += weight * delta * (value - g.mean)
	g.weight = newWeight
}

func (g *gaussianEstimator) variance() float64 {
	if g.weight <= 1e-12 {
		return 0
	}
	return g.m2 / g.weight
}

func (g *gaussianEstimator) sigma() float64 {
	s := math.Sqrt(g.variance())
	if s < sigmaFloor {
		return sigmaFloor
	}
	return s
}

// pdf returns the Gaussian density at x.
func (g *gaussianEstimator) pdf(x float64) float64 {
	sigma := g.sigma()
	diff := x - g.mean
	return math.Exp(-(diff*diff)/(2*sigma*sigma)) / (sigma * math.Sqrt(2*math.Pi))
}

// GaussianObserver is the numeric attribute class observer: one Gaussian
// estimator per class, plus per-class running min/max used to pick
// candidate split points.
type GaussianObserver struct {
	estimators map[int]*gaussianEstimator
	min        map[int]float64
	max        map[int]float64
}

// NewGaussianObserver returns an empty observer.
func NewGaussianObserver() *GaussianObserver {
	return &GaussianObserver{
		estimators: make(map[int]*gaussianEstimator),
		min:        make(map[int]float64),
		max:        make(map[int]float64),
	}
}

func (o *GaussianObserver) Observe(value float64, class int, weight float64) {
	if math.IsNaN(value) || class < 0 {
		return
	}
	if !(weight > 0) || math.IsInf(weight, 0) {
		return
	}

	est, ok := o.estimators[class]
	if !ok {
		est = &gaussianEstimator{}
		o.estimators[class] = est
		o.min[class] = value
		o.max[class] = value
	}
	if value < o.min[class] {
		o.min[class] = value
	}
	if value > o.max[class] {
		o.max[class] = value
	}
	est.add(value, weight)
}

func (o *GaussianObserver) Probability(value float64, class int) (float64, bool) {
	if math.IsNaN(value) {
		return 0, false
	}
	est, ok := o.estimators[class]
	if !ok {
		return 0, false
	}
	return est.pdf(value), true
}

func (o *GaussianObserver) EstimatedByteSize() int {
	const perClass = 3*8 + 2*8 + 16 // estimator fields + min/max + map overhead
	return 64 + perClass*len(o.estimators)
}

// BestSplitSuggestion evaluates numBins equally spaced candidate split
// points between the global min and max observed across all classes, using
// each class's Gaussian CDF (computed via the error function) weighted by its class prior from preDist to partition weight
// into the "<= v" and "> v" branches.
func (o *GaussianObserver) BestSplitSuggestion(criterion helpers.SplitCriterion, preDist []float64, attribute *core.Attribute, binaryOnly bool) *helpers.SplitSuggestion {
	if len(o.estimators) == 0 {
		return nil
	}

	globalMin, globalMax := math.Inf(1), math.Inf(-1)
	for c := range o.estimators {
		if o.min[c] < globalMin {
			globalMin = o.min[c]
		}
		if o.max[c] > globalMax {
			globalMax = o.max[c]
		}
	}
	if globalMin >= globalMax {
		return nil
	}

	var best *helpers.SplitSuggestion
	bestMerit := math.Inf(-1)

	step := (globalMax - globalMin) / float64(numBins+1)
	for i := 1; i <= numBins; i++ {
		v := globalMin + step*float64(i)

		lower := make([]float64, len(preDist))
		upper := make([]float64, len(preDist))
		for c, prior := range preDist {
			if prior <= 0 {
				continue
			}
			est, ok := o.estimators[c]
			if !ok {
				upper[c] = prior
				continue
			}
			pLE := cdf(est, v)
			lower[c] = prior * pLE
			upper[c] = prior * (1 - pLE)
		}

		merit := criterion.MeritOf(preDist, [][]float64{lower, upper})
		if merit > bestMerit {
			bestMerit = merit
			cond := helpers.NewNumericBinarySplitCondition(attribute, v)
			best = helpers.NewSplitSuggestion(cond, merit, criterion.RangeOfMerit(preDist), nil, map[int]helpers.ObservationStats{
				0: helpers.NewClassificationStats(lower),
				1: helpers.NewClassificationStats(upper),
			})
		}
	}
	return best
}

// cdf approximates P(X <= v | class) for the class's Gaussian estimator
// using the standard error-function identity.
func cdf(est *gaussianEstimator, v float64) float64 {
	sigma := est.sigma()
	z := (v - est.mean) / (sigma * math.Sqrt2)
	return 0.5 * (1 + math.Erf(z))
}

func (o *GaussianObserver) EncodeTo(enc *msgpack.Encoder) error {
	classes := make([]int64, 0, len(o.estimators))
	for c := range o.estimators {
		classes = append(classes, int64(c))
	}
	if err := enc.Encode(classes); err != nil {
		return err
	}
	for _, c := range classes {
		est := o.estimators[int(c)]
		if err := enc.Encode(est.weight, est.mean, est.m2, o.min[int(c)], o.max[int(c)]); err != nil {
			return err
		}
	}
	return nil
}

func (o *GaussianObserver) DecodeFrom(dec *msgpack.Decoder) error {
	o.estimators = make(map[int]*gaussianEstimator)
	o.min = make(map[int]float64)
	o.max = make(map[int]float64)

	var classes []int64
	if err := dec.Decode(&classes); err != nil {
		return err
	}
	for _, c := range classes {
		est := &gaussianEstimator{}
		var mn, mx float64
		if err := dec.Decode(&est.weight, &est.mean, &est.m2, &mn, &mx); err != nil {
			return err
		}
		o.estimators[int(c)] = est
		o.min[int(c)] = mn
		o.max[int(c)] = mx
	}
	return nil
}

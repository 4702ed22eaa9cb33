package obs

import (
	"math"

	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7752, (*NominalObserver)(nil))
}

// laplaceAlpha is the additive smoothing constant for nominal probability
// estimates.
const laplaceAlpha = 1.0

// NominalObserver is the nominal attribute class observer: a growable
// count[class][value] matrix.
type NominalObserver struct {
	counts [][]float64 // counts[class][value]
}

func NewNominalObserver() *NominalObserver {
	return &NominalObserver{}
}

func (o *NominalObserver) ensure(class, value int) {
	if class >= len(o.counts) {
		grown := make([][]float64, class+1)
		copy(grown, o.counts)
		o.counts = grown
	}
	if o.counts[class] == nil {
		o.counts[class] = []float64{}
	}
	if value >= len(o.counts[class]) {
		grown := make([]float64, value+1)
		copy(grown, o.counts[class])
		o.counts[class] = grown
	}
}

func (o *NominalObserver) Observe(value float64, class int, weight float64) {
	if math.IsNaN(value) || class < 0 {
		return
	}
	if !(weight > 0) || math.IsInf(weight, 0) {
		return
	}
	idx := int(value)
	if idx < 0 {
		return
	}
	o.ensure(class, idx)
	o.counts[class][idx] += weight
}

func (o *NominalObserver) classTotal(class int) float64 {
	if class < 0 || class >= len(o.counts) {
		return 0
	}
	var total float64
	for _, w := range o.counts[class] {
		total += w
	}
	return total
}

func (o *NominalObserver) numValues() int {
	max := 0
	for _, row := range o.counts {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}

func (o *NominalObserver) Probability(value float64, class int) (float64, bool) {
	if math.IsNaN(value) {
		return 0, false
	}
	if class < 0 || class >= len(o.counts) || o.counts[class] == nil {
		return 0, false
	}
	idx := int(value)
	var count float64
	if idx >= 0 && idx < len(o.counts[class]) {
		count = o.counts[class][idx]
	}
	total := o.classTotal(class)
	k := float64(o.numValues())
	if k == 0 {
		k = 1
	}
	return (count + laplaceAlpha) / (total + laplaceAlpha*k), true
}

func (o *NominalObserver) EstimatedByteSize() int {
	size := 32
	for _, row := range o.counts {
		size += 24 + 8*len(row)
	}
	return size
}

// BestSplitSuggestion evaluates either a multiway split (one branch per
// observed value) or, when binaryOnly is set, the best single value versus
// "everything else".
func (o *NominalObserver) BestSplitSuggestion(criterion helpers.SplitCriterion, preDist []float64, attribute *core.Attribute, binaryOnly bool) *helpers.SplitSuggestion {
	numVals := o.numValues()
	if numVals == 0 {
		return nil
	}

	if !binaryOnly {
		post := make([][]float64, numVals)
		postStats := make(map[int]helpers.ObservationStats, numVals)
		for v := 0; v < numVals; v++ {
			branch := make([]float64, len(o.counts))
			for c, row := range o.counts {
				if v < len(row) {
					branch[c] = row[v]
				}
			}
			post[v] = branch
			postStats[v] = helpers.NewClassificationStats(branch)
		}
		merit := criterion.MeritOf(preDist, post)
		cond := helpers.NewNominalMultiwaySplitCondition(attribute)
		return helpers.NewSplitSuggestion(cond, merit, criterion.RangeOfMerit(preDist), nil, postStats)
	}

	var best *helpers.SplitSuggestion
	bestMerit := math.Inf(-1)
	for v := 0; v < numVals; v++ {
		inBranch := make([]float64, len(o.counts))
		outBranch := make([]float64, len(o.counts))
		for c, row := range o.counts {
			var val float64
			if v < len(row) {
				val = row[v]
			}
			inBranch[c] = val
			outBranch[c] = classSum(row) - val
		}
		merit := criterion.MeritOf(preDist, [][]float64{inBranch, outBranch})
		if merit > bestMerit {
			bestMerit = merit
			cond := helpers.NewNominalBinarySplitCondition(attribute, v)
			best = helpers.NewSplitSuggestion(cond, merit, criterion.RangeOfMerit(preDist), nil, map[int]helpers.ObservationStats{
				0: helpers.NewClassificationStats(inBranch),
				1: helpers.NewClassificationStats(outBranch),
			})
		}
	}
	return best
}

func classSum(row []float64) float64 {
	var total float64
	for _, w := range row {
		total += w
	}
	return total
}

func (o *NominalObserver) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(o.counts)
}

func (o *NominalObserver) DecodeFrom(dec *msgpack.Decoder) error {
	return dec.Decode(&o.counts)
}

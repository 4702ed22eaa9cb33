package obs

import (
	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7753, (*NullObserver)(nil))
}

// NullObserver is the sentinel swapped in for a disabled attribute by
// poor-attribute pruning: it swallows observations and never produces a
// split suggestion.
type NullObserver struct{}

func NewNullObserver() *NullObserver { return &NullObserver{} }

func (o *NullObserver) Observe(value float64, class int, weight float64) {}

func (o *NullObserver) Probability(value float64, class int) (float64, bool) { return 0, false }

func (o *NullObserver) BestSplitSuggestion(criterion helpers.SplitCriterion, preDist []float64, attribute *core.Attribute, binaryOnly bool) *helpers.SplitSuggestion {
	return nil
}

func (o *NullObserver) EstimatedByteSize() int { return 0 }

func (o *NullObserver) EncodeTo(enc *msgpack.Encoder) error { return nil }

func (o *NullObserver) DecodeFrom(dec *msgpack.Decoder) error { return nil }

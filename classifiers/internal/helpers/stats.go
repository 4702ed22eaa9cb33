package helpers

import "github.com/gustavo-munhoz/reason/internal/msgpack"

func init() {
	msgpack.Register(7745, (*ClassificationStats)(nil))
}

// ObservationStats is the sufficient-statistics abstraction a leaf keeps:
// for classification, a per-class summed-weight vector. Regression targets
// are out of scope for this module, but the interface stays generic so a
// leaf doesn't need to know which kind it holds.
type ObservationStats interface {
	// Observe folds in one training example's class and weight.
	Observe(class int, weight float64)
	// TotalWeight returns the summed weight of all observations.
	TotalWeight() float64
	// IsSufficient reports whether there is enough diversity to even
	// attempt a split (false once the class distribution is pure).
	IsSufficient() bool
	// Distribution returns the dense per-class weight vector.
	Distribution() []float64
	// Promise is the weight that could still flip the majority verdict:
	// total - max single-class weight.
	Promise() float64
	// Clone returns an independent copy, used to seed a new leaf from a
	// split's per-branch distribution.
	Clone() ObservationStats
}

// NewObservationStats returns an empty classification ObservationStats.
// isRegression dispatches to a separate regression implementation in
// principle, but only the classification branch is implemented here.
func NewObservationStats(isRegression bool) ObservationStats {
	if isRegression {
		panic("helpers: regression targets are out of scope")
	}
	return &ClassificationStats{}
}

// ClassificationStats is a growable per-class weight vector.
type ClassificationStats struct {
	dist []float64
}

func NewClassificationStats(dist []float64) *ClassificationStats {
	return &ClassificationStats{dist: dist}
}

func (s *ClassificationStats) Observe(class int, weight float64) {
	if class < 0 || weight <= 0 {
		return
	}
	if class >= len(s.dist) {
		grown := make([]float64, class+1)
		copy(grown, s.dist)
		s.dist = grown
	}
	s.dist[class] += weight
}

func (s *ClassificationStats) TotalWeight() float64 {
	var total float64
	for _, w := range s.dist {
		total += w
	}
	return total
}

func (s *ClassificationStats) IsSufficient() bool {
	nonZero := 0
	for _, w := range s.dist {
		if w > 0 {
			nonZero++
			if nonZero > 1 {
				return true
			}
		}
	}
	return false
}

func (s *ClassificationStats) Distribution() []float64 {
	return s.dist
}

func (s *ClassificationStats) Promise() float64 {
	total := 0.0
	max := 0.0
	for _, w := range s.dist {
		total += w
		if w > max {
			max = w
		}
	}
	return total - max
}

func (s *ClassificationStats) Clone() ObservationStats {
	dist := make([]float64, len(s.dist))
	copy(dist, s.dist)
	return &ClassificationStats{dist: dist}
}

func (s *ClassificationStats) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(s.dist)
}

func (s *ClassificationStats) DecodeFrom(dec *msgpack.Decoder) error {
	return dec.Decode(&s.dist)
}

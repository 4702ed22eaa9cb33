package streams

import "github.com/gustavo-munhoz/reason/core"

// VecStream replays a fixed slice of labels against a two-class, one
// numeric-predictor model. It exists for tests that need a small,
// reproducible, restartable stream without building a full synthetic
// generator or ARFF file.
type VecStream struct {
	model  *core.Model
	labels []int
	idx    int
}

// NewVecStream builds a VecStream over labels (each in [0,1]), using a
// binary model with a single numeric predictor "x" and a binary class
// "class".
func NewVecStream(labels []int) *VecStream {
	return &VecStream{model: binaryModel(), labels: labels}
}

func binaryModel() *core.Model {
	class := &core.Attribute{
		Name:   "class",
		Kind:   core.AttributeKindNominal,
		Values: core.NewAttributeValues("0", "1"),
	}
	x := &core.Attribute{Name: "x", Kind: core.AttributeKindNumeric}
	return core.NewModel(class, x)
}

func (s *VecStream) Header() *core.Model { return s.model }

func (s *VecStream) HasMore() bool { return s.idx < len(s.labels) }

func (s *VecStream) Next() (core.Instance, bool) {
	if !s.HasMore() {
		return nil, false
	}
	y := s.labels[s.idx]
	s.idx++
	return core.NewDenseInstance(s.model, []float64{float64(y), float64(y)}, 1.0), true
}

func (s *VecStream) Restart() error {
	s.idx = 0
	return nil
}

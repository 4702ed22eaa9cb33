package streams

import "github.com/gustavo-munhoz/reason/core"

// MapStream replays a fixed slice of core.MapInstance values against a
// caller-supplied model. Useful in tests that want to hand-author
// instances by attribute name instead of by dense value vector.
type MapStream struct {
	model *core.Model
	rows  []core.MapInstance
	idx   int
}

// NewMapStream builds a MapStream over rows, conforming to model.
func NewMapStream(model *core.Model, rows []core.MapInstance) *MapStream {
	return &MapStream{model: model, rows: rows}
}

func (s *MapStream) Header() *core.Model { return s.model }

func (s *MapStream) HasMore() bool { return s.idx < len(s.rows) }

func (s *MapStream) Next() (core.Instance, bool) {
	if !s.HasMore() {
		return nil, false
	}
	row := s.rows[s.idx]
	s.idx++
	return row, true
}

func (s *MapStream) Restart() error {
	s.idx = 0
	return nil
}

package core

import (
	"fmt"

	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7731, (*Model)(nil))
}

type modelContextKey int

// ModelContextKey is the context key under which a *Model is attached to a
// msgpack Encoder/Decoder so that predictor-name references (split
// conditions, observers) can resolve back to a concrete *Attribute.
const ModelContextKey modelContextKey = 0

// InstanceValue is the raw value read off an Instance for a given
// attribute name. Concrete values are numeric kinds (coerced to float64)
// or strings/[]byte (interned as nominal indices).
type InstanceValue interface{}

// Instance is anything that can answer "what's your value for attribute X"
// and carries a training weight. Missing values are represented, per
// attribute kind, by returning nil.
type Instance interface {
	GetAttributeValue(name string) InstanceValue
	Weight() float64
}

// Model is the immutable schema shared by a stream's instances, a
// classifier and an evaluator: a relation name, an ordered list of
// attributes and the index of the target (class) attribute.
type Model struct {
	Name       string
	Attributes []*Attribute
	ClassIndex int
}

// NewModel builds a Model whose first attribute is the class/target and
// the remainder are predictors.
func NewModel(target *Attribute, predictors ...*Attribute) *Model {
	return &Model{
		Attributes: append([]*Attribute{target}, predictors...),
		ClassIndex: 0,
	}
}

// NumAttributes returns the total number of attributes, including the
// class attribute.
func (m *Model) NumAttributes() int { return len(m.Attributes) }

// NumPredictors returns the number of non-class (feature) attributes.
func (m *Model) NumPredictors() int { return len(m.Attributes) - 1 }

// Class returns the class/target attribute.
func (m *Model) Class() *Attribute { return m.Attributes[m.ClassIndex] }

// NumClasses returns the number of known class labels.
func (m *Model) NumClasses() int { return m.Class().Len() }

// Predictor returns the feature attribute with the given name, or nil.
func (m *Model) Predictor(name string) *Attribute {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// PredictorAt returns the feature attribute at model index m (0..A-1,
// skipping the class slot).
func (m *Model) PredictorAt(modelIndex int) *Attribute {
	return m.Attributes[m.InstanceIndex(modelIndex)]
}

// InstanceIndex converts a model (feature) attribute index, which counts
// only predictors, into the corresponding index into m.Attributes /
// Instance value vectors, which also include the class slot.
//
//	inst_idx(m) = m if classIndex > m else m+1
func (m *Model) InstanceIndex(modelIndex int) int {
	if m.ClassIndex > modelIndex {
		return modelIndex
	}
	return modelIndex + 1
}

// ClassValue extracts the class attribute value from an instance.
func (m *Model) ClassValue(inst Instance) AttributeValue {
	return m.Class().Value(inst)
}

func (m *Model) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(m.Name); err != nil {
		return err
	}
	if err := enc.Encode(int64(len(m.Attributes))); err != nil {
		return err
	}
	for _, a := range m.Attributes {
		if err := enc.Encode(a); err != nil {
			return err
		}
	}
	return enc.Encode(int64(m.ClassIndex))
}

func (m *Model) DecodeFrom(dec *msgpack.Decoder) error {
	if err := dec.Decode(&m.Name); err != nil {
		return err
	}
	var n int64
	if err := dec.Decode(&n); err != nil {
		return err
	}
	m.Attributes = make([]*Attribute, n)
	for i := range m.Attributes {
		a := new(Attribute)
		if err := dec.Decode(a); err != nil {
			return err
		}
		m.Attributes[i] = a
	}
	var ci int64
	if err := dec.Decode(&ci); err != nil {
		return err
	}
	m.ClassIndex = int(ci)
	return nil
}

// --------------------------------------------------------------------

// MapInstance is a convenience Instance backed by a plain map, as used by
// tests and small examples: MapInstance{"outlook": "sunny", "play": "no"}.
type MapInstance map[string]InstanceValue

func (m MapInstance) GetAttributeValue(name string) InstanceValue { return m[name] }

// Weight is always 1 for a MapInstance; wrap in WeightedInstance to train
// with a different weight.
func (m MapInstance) Weight() float64 { return 1.0 }

// WeightedInstance decorates an Instance with an explicit weight.
type WeightedInstance struct {
	Instance
	W float64
}

func (w WeightedInstance) Weight() float64 { return w.W }

// --------------------------------------------------------------------

// DenseInstance is a Instance backed by a dense []float64 value vector, the
// representation streams typically produce once attribute values have
// already been resolved against the model (numeric values verbatim,
// nominal values as their interned index, NaN for missing).
type DenseInstance struct {
	model  *Model
	values []float64
	weight float64
}

// NewDenseInstance builds a DenseInstance for the given model. len(values)
// must equal model.NumAttributes().
func NewDenseInstance(model *Model, values []float64, weight float64) *DenseInstance {
	return &DenseInstance{model: model, values: values, weight: weight}
}

func (d *DenseInstance) GetAttributeValue(name string) InstanceValue {
	for i, a := range d.model.Attributes {
		if a.Name == name {
			return d.values[i]
		}
	}
	return nil
}

// ValueAt returns the raw stored value at a model.Attributes index
// (including the class slot), bypassing name lookup.
func (d *DenseInstance) ValueAt(instanceIndex int) float64 {
	if instanceIndex < 0 || instanceIndex >= len(d.values) {
		return float64(MissingValue())
	}
	return d.values[instanceIndex]
}

func (d *DenseInstance) Weight() float64 { return d.weight }

func (d *DenseInstance) String() string {
	return fmt.Sprintf("DenseInstance%v(w=%v)", d.values, d.weight)
}

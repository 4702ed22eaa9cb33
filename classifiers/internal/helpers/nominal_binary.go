package helpers

import (
	"fmt"

	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7746, (*nominalBinarySplitCondition)(nil))
}

// NewNominalBinarySplitCondition inits a split-condition testing a single
// nominal value against "everything else", used for the binary_splits
// path for nominal attributes.
func NewNominalBinarySplitCondition(predictor *core.Attribute, value int) SplitCondition {
	return &nominalBinarySplitCondition{Attribute: predictor, Value: value}
}

type nominalBinarySplitCondition struct {
	*core.Attribute
	Value int
}

func (c *nominalBinarySplitCondition) Predictor() string { return c.Attribute.Name }

func (c *nominalBinarySplitCondition) Branch(inst core.Instance) int {
	v := c.Attribute.Value(inst)
	if v.IsMissing() {
		return -1
	}
	if v.Index() == c.Value {
		return 0
	}
	return 1
}

func (c *nominalBinarySplitCondition) Describe(branch int) string {
	vals := c.Attribute.Values.Values()
	name := ""
	if c.Value >= 0 && c.Value < len(vals) {
		name = vals[c.Value]
	}
	switch branch {
	case 0:
		return fmt.Sprintf("= %s", name)
	case 1:
		return fmt.Sprintf("!= %s", name)
	}
	return ""
}

func (c *nominalBinarySplitCondition) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(c.Predictor(), int64(c.Value))
}

func (c *nominalBinarySplitCondition) DecodeFrom(dec *msgpack.Decoder) error {
	model := dec.Context().Value(core.ModelContextKey).(*core.Model)
	var name string
	var v int64
	if err := dec.Decode(&name); err != nil {
		return err
	}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	c.Attribute = model.Predictor(name)
	c.Value = int(v)
	return nil
}

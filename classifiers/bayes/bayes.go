// Package bayes implements a streaming Naive Bayes classifier: class
// priors plus per-attribute observers shared with the Hoeffding tree's
// split evaluation machinery.
package bayes

import (
	"sync"

	"github.com/gustavo-munhoz/reason/classifiers/internal/obs"
	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7760, (*Classifier)(nil))
}

// Classifier is a streaming Naive Bayes learner.
type Classifier struct {
	model *core.Model

	priors    []float64
	observers []obs.AttributeObserver

	mu sync.RWMutex
}

// New returns a Classifier bound to model.
func New(model *core.Model) *Classifier {
	c := &Classifier{}
	c.SetModelContext(model)
	return c
}

// SetModelContext (re)initializes priors and observers for model.
func (c *Classifier) SetModelContext(model *core.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.model = model
	c.priors = make([]float64, model.NumClasses())
	c.observers = make([]obs.AttributeObserver, model.NumPredictors())
}

// Model returns the bound model.
func (c *Classifier) Model() *core.Model { return c.model }

// Train folds one instance into the priors and per-attribute observers.
// An instance with a missing or non-positive weight, or a missing class
// value, updates nothing at all: neither the prior nor any observer.
func (c *Classifier) Train(inst core.Instance) {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := inst.Weight()
	if !(w > 0) {
		return
	}

	classVal := c.model.ClassValue(inst)
	if classVal.IsMissing() {
		return
	}
	k := classVal.Index()

	if k >= len(c.priors) {
		grown := make([]float64, k+1)
		copy(grown, c.priors)
		c.priors = grown
	}
	c.priors[k] += w

	for m := 0; m < c.model.NumPredictors(); m++ {
		attr := c.model.PredictorAt(m)
		v := attr.Value(inst)
		if v.IsMissing() {
			continue
		}

		if m >= len(c.observers) {
			grown := make([]obs.AttributeObserver, m+1)
			copy(grown, c.observers)
			c.observers = grown
		}
		if c.observers[m] == nil {
			if attr.IsNominal() {
				c.observers[m] = obs.NewNominalObserver()
			} else {
				c.observers[m] = obs.NewGaussianObserver()
			}
		}
		c.observers[m].Observe(v.Value(), k, w)
	}
}

// Votes returns the unnormalized posterior score for each class: the class
// prior times the product of each non-missing feature's likelihood. The
// argmax of the returned vector is the prediction. When no training weight
// has been observed at all, Votes returns a zero vector.
func (c *Classifier) Votes(inst core.Instance) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	votes := make([]float64, len(c.priors))

	var total float64
	for _, p := range c.priors {
		total += p
	}
	if total <= 0 {
		return votes
	}

	for k := range votes {
		score := c.priors[k] / total

		for m := 0; m < c.model.NumPredictors(); m++ {
			attr := c.model.PredictorAt(m)
			v := attr.Value(inst)
			if v.IsMissing() {
				continue
			}
			if m >= len(c.observers) || c.observers[m] == nil {
				score *= 0
				continue
			}
			p, ok := c.observers[m].Probability(v.Value(), k)
			if !ok {
				score *= 0
				continue
			}
			score *= p
		}
		votes[k] = score
	}
	return votes
}

func (c *Classifier) EncodeTo(enc *msgpack.Encoder) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := enc.Encode(c.model); err != nil {
		return err
	}
	return enc.Encode(c.priors)
}

func (c *Classifier) DecodeFrom(dec *msgpack.Decoder) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var model core.Model
	if err := dec.Decode(&model); err != nil {
		return err
	}
	c.model = &model
	c.observers = make([]obs.AttributeObserver, model.NumPredictors())
	return dec.Decode(&c.priors)
}

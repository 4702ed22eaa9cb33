// Package evaluation implements an online classification evaluator: a
// single-pass accumulation of accuracy, Cohen's kappa, temporal kappa,
// majority kappa and optional macro/per-class P/R/F1.
package evaluation

import "math"

// Estimator is a streaming statistic fed one observation at a time.
type Estimator interface {
	Add(x float64)
	Value() float64
	Reset()
}

// MeanEstimator is a streaming mean: NaN observations are treated as "not
// applicable" and skipped rather than folded in, matching the
// precision/recall convention of updating a class's estimator with its
// indicator and every other class's estimator with NaN.
type MeanEstimator struct {
	sum   float64
	count float64
}

// NewMeanEstimator returns an empty MeanEstimator.
func NewMeanEstimator() *MeanEstimator { return &MeanEstimator{} }

func (m *MeanEstimator) Add(x float64) {
	if math.IsNaN(x) {
		return
	}
	m.sum += x
	m.count++
}

// Value returns the running mean, or NaN if nothing has been observed.
func (m *MeanEstimator) Value() float64 {
	if m.count == 0 {
		return math.NaN()
	}
	return m.sum / m.count
}

func (m *MeanEstimator) Reset() {
	m.sum = 0
	m.count = 0
}

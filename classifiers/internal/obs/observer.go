// Package obs implements per-attribute class observers: sufficient
// statistics for one feature across all classes, able to answer a
// density/probability query and propose the best split point for
// that attribute alone.
package obs

import (
	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/core"
)

// AttributeObserver accumulates statistics for one feature across all
// observed classes.
type AttributeObserver interface {
	// Observe folds in one (value, class, weight) triple. A NaN value or a
	// non-finite/negative weight is ignored.
	Observe(value float64, class int, weight float64)
	// Probability returns the density (numeric) or Laplace-smoothed
	// probability (nominal) of value given class, and false if the class
	// has never been observed by this observer.
	Probability(value float64, class int) (float64, bool)
	// BestSplitSuggestion proposes the best split point for this attribute,
	// or nil if none can be formed yet. attribute is the predictor this
	// observer belongs to (needed to build the resulting SplitCondition).
	BestSplitSuggestion(criterion helpers.SplitCriterion, preDist []float64, attribute *core.Attribute, binaryOnly bool) *helpers.SplitSuggestion
	// EstimatedByteSize is a rough memory footprint, used by the tree's
	// memory-bounded growth accounting.
	EstimatedByteSize() int
}

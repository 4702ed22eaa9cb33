package hoeffding

import "github.com/gustavo-munhoz/reason/classifiers/internal/helpers"

// LeafPrediction selects how a leaf turns its statistics into a vote.
type LeafPrediction uint8

const (
	// LeafMajorityClass returns the raw observed class distribution.
	LeafMajorityClass LeafPrediction = iota
	// LeafNaiveBayes returns Naive-Bayes posteriors once nb_threshold
	// weight has been seen at the leaf, the class distribution before that.
	LeafNaiveBayes
	// LeafNBAdaptive switches per-leaf between majority-class and
	// Naive-Bayes based on which has been more accurate so far.
	LeafNBAdaptive
)

// Config holds all Tree tuning knobs. A zero Config is valid:
// norm fills in every default.
type Config struct {
	// GracePeriod is the minimum new weight at a leaf between split
	// attempts. Default 200.
	GracePeriod int
	// SplitConfidence (delta) is the probability bound in the Hoeffding
	// inequality. Default 1e-7. A value of 1.0 collapses the bound to zero,
	// so once a grace period passes any real split with a positive merit
	// gain over the runner-up is taken; it must be set explicitly, never
	// the default.
	SplitConfidence float64
	// TieThreshold (tau) forces a split once the Hoeffding bound drops
	// below this value. Default 0.05.
	TieThreshold float64
	// BinarySplits restricts nominal splits to a single value vs. the
	// rest. Default false (multiway).
	BinarySplits bool
	// NoPrePrune disables the "no-split" candidate suggestion.
	NoPrePrune bool
	// RemovePoorAttributes enables null-observer pruning of attributes
	// that lag far behind the current best.
	RemovePoorAttributes bool
	// LeafPrediction selects the leaf vote strategy.
	LeafPredictionKind LeafPrediction
	// NBThreshold is the minimum weight seen at a leaf before
	// LeafNaiveBayes prefers NB posteriors. It is a weight, not an instance
	// count. LeafNBAdaptive does not consult it.
	NBThreshold float64
	// MaxByteSize is the memory cap that triggers leaf deactivation.
	// Default 32 MiB.
	MaxByteSize int64
	// StopMemManagement freezes growth instead of rearranging leaves once
	// the memory cap is reached.
	StopMemManagement bool
	// MemoryEstimatePeriod is how often (in training instances) the tree
	// re-checks its estimated byte size against MaxByteSize. Default 1e6.
	MemoryEstimatePeriod int64
	// SplitCriterion scores candidate splits. Default GiniCriterion.
	SplitCriterion helpers.SplitCriterion
	// EnableTracing turns on the Traces() diagnostic channel.
	EnableTracing bool
}

const (
	defaultGracePeriod           = 200
	defaultSplitConfidence        = 1e-7
	defaultTieThreshold           = 0.05
	defaultMaxByteSize      int64 = 32 * 1024 * 1024
	defaultMemoryEstimatePeriod int64 = 1_000_000
)

func (c *Config) norm() {
	if c.GracePeriod <= 0 {
		c.GracePeriod = defaultGracePeriod
	}
	if c.SplitConfidence <= 0 {
		c.SplitConfidence = defaultSplitConfidence
	}
	if c.TieThreshold <= 0 {
		c.TieThreshold = defaultTieThreshold
	}
	if c.MaxByteSize <= 0 {
		c.MaxByteSize = defaultMaxByteSize
	}
	if c.MemoryEstimatePeriod <= 0 {
		c.MemoryEstimatePeriod = defaultMemoryEstimatePeriod
	}
	if c.SplitCriterion == nil {
		c.SplitCriterion = GiniCriterion{}
	}
}

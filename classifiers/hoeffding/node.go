package hoeffding

import (
	"bufio"
	"fmt"
	"sort"

	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/classifiers/internal/obs"
	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7754, (*leafNode)(nil))
	msgpack.Register(7755, (*splitNode)(nil))
}

// treeNode is the sum type of the tree's node taxonomy, flattened to two
// Go types: leafNode covers Active/Inactive/NB/NBAdaptive leaves via an
// IsInactive flag plus leaf-prediction config, splitNode is the internal
// decision node.
type treeNode interface {
	// Filter routes inst towards a leaf. It returns either a node (leaf or
	// this node, if no child exists yet for the relevant branch) together
	// with the parent SplitNode and branch index that led to it. A nil
	// node with a non-nil parent means "create a new leaf at
	// parent.Children[branch]".
	Filter(inst core.Instance, parent *splitNode, parentBranch int) (treeNode, *splitNode, int)
	ReadInfo(depth int, info *TreeInfo)
	WriteGraph(w *bufio.Writer, id string) error
	WriteText(w *bufio.Writer, indent string) error
	Prune(isObsolete PruneEval, parent *splitNode)
	ByteSize() int
	FindLeaves(buf leafNodeSlice) leafNodeSlice
	Predict() core.Prediction
	Distribution() []float64
}

// --------------------------------------------------------------------
// leaf node

// leafNode is a tree leaf: active (still accumulating observers and
// attempting splits) or inactive (class distribution only), in any of the
// three leaf-prediction flavors selected by Config.LeafPredictionKind.
type leafNode struct {
	Stats                       helpers.ObservationStats
	WeightOnLastEval            float64
	IsInactive                  bool
	initialized                 bool
	observers                   map[int]obs.AttributeObserver
	nbCorrectWeight             float64
	mcCorrectWeight             float64
	model                       *core.Model
}

func newLeafNode(stats helpers.ObservationStats) *leafNode {
	return &leafNode{
		Stats:            stats,
		WeightOnLastEval: stats.TotalWeight(),
	}
}

func (n *leafNode) Filter(inst core.Instance, parent *splitNode, parentBranch int) (treeNode, *splitNode, int) {
	return n, parent, parentBranch
}

func (n *leafNode) ReadInfo(depth int, info *TreeInfo) {
	info.NumNodes++
	if n.IsInactive {
		info.NumInactiveLeaves++
	} else {
		info.NumActiveLeaves++
	}
	if depth > info.MaxDepth {
		info.MaxDepth = depth
	}
}

func (n *leafNode) WriteGraph(w *bufio.Writer, id string) error {
	label := "leaf"
	if n.IsInactive {
		label = "inactive-leaf"
	}
	_, err := fmt.Fprintf(w, "  %s [shape=box label=%q];\n", id, label)
	return err
}

func (n *leafNode) WriteText(w *bufio.Writer, indent string) error {
	_, err := fmt.Fprintf(w, " %v\n", n.Stats.Distribution())
	return err
}

func (n *leafNode) Prune(isObsolete PruneEval, parent *splitNode) {}

func (n *leafNode) ByteSize() int {
	size := 64
	for _, o := range n.observers {
		size += o.EstimatedByteSize()
	}
	return size
}

func (n *leafNode) FindLeaves(buf leafNodeSlice) leafNodeSlice {
	return append(buf, n)
}

func (n *leafNode) Distribution() []float64 { return n.Stats.Distribution() }

// Learn folds inst into this leaf's class distribution and (when active)
// its per-feature observers.
func (n *leafNode) Learn(inst core.Instance, t *Tree) {
	model := t.model
	n.model = model
	w := inst.Weight()
	classVal := model.ClassValue(inst)

	if t.conf.LeafPredictionKind == LeafNBAdaptive && !n.IsInactive && !classVal.IsMissing() {
		// Evaluate both predictors' accuracy on this example before the
		// stats they rely on absorb it, so the running tallies reflect
		// out-of-sample performance.
		k := classVal.Index()
		if mcVote := n.Distribution(); argmax(mcVote) == k {
			n.mcCorrectWeight += w
		}
		if nbVote := n.naiveBayesVotes(inst); argmax(nbVote) == k {
			n.nbCorrectWeight += w
		}
	}

	if classVal.IsMissing() || w <= 0 {
		return
	}
	n.Stats.Observe(classVal.Index(), w)

	if n.IsInactive {
		return
	}

	if !n.initialized {
		n.observers = make(map[int]obs.AttributeObserver, model.NumPredictors())
		n.initialized = true
	}

	for m := 0; m < model.NumPredictors(); m++ {
		attr := model.PredictorAt(m)
		v := attr.Value(inst)
		if v.IsMissing() {
			continue
		}
		o, ok := n.observers[m]
		if !ok {
			if attr.IsNominal() {
				o = obs.NewNominalObserver()
			} else {
				o = obs.NewGaussianObserver()
			}
			n.observers[m] = o
		}
		o.Observe(v.Value(), classVal.Index(), w)
	}
}

// BestSplits returns, ranked highest merit first, the no-split sentinel
// (unless NoPrePrune) plus every feature observer's best suggestion.
func (n *leafNode) BestSplits(t *Tree) helpers.SplitSuggestions {
	pre := n.Stats.Distribution()

	var out helpers.SplitSuggestions
	if !t.conf.NoPrePrune {
		merit := t.conf.SplitCriterion.MeritOf(pre, [][]float64{pre})
		out = append(out, helpers.NewSplitSuggestion(nil, merit, t.conf.SplitCriterion.RangeOfMerit(pre), helpers.NewClassificationStats(pre), nil))
	}

	for m, o := range n.observers {
		attr := t.model.PredictorAt(m)
		if s := o.BestSplitSuggestion(t.conf.SplitCriterion, pre, attr, t.conf.BinarySplits); s != nil {
			out = append(out, s)
		}
	}
	return out.Rank()
}

// disablePoorAttributes replaces the observers of the given model attribute
// indices with the null observer.
func (n *leafNode) disablePoorAttributes(modelIdx ...int) {
	for _, m := range modelIdx {
		n.observers[m] = obs.NewNullObserver()
	}
}

func (n *leafNode) Deactivate() {
	n.IsInactive = true
	n.observers = nil
	n.initialized = false
	n.nbCorrectWeight = 0
	n.mcCorrectWeight = 0
}

func (n *leafNode) Activate() {
	n.IsInactive = false
}

// Predict returns this leaf's raw class distribution as a Prediction. It
// has no instance in hand, so it does not apply the configured
// leaf-prediction strategy; Tree.Predict calls classVotes for leaves.
func (n *leafNode) Predict() core.Prediction {
	return distributionToPrediction(n.Distribution())
}

// classVotes implements the per-leaf-kind vote selection, called by
// Tree.Predict with the routing instance in hand.
func (n *leafNode) classVotes(inst core.Instance, t *Tree) []float64 {
	if n.IsInactive {
		return n.Distribution()
	}
	switch t.conf.LeafPredictionKind {
	case LeafNaiveBayes:
		if n.Stats.TotalWeight() >= t.conf.NBThreshold {
			return n.naiveBayesVotes(inst)
		}
		return n.Distribution()
	case LeafNBAdaptive:
		if n.nbCorrectWeight >= n.mcCorrectWeight {
			return n.naiveBayesVotes(inst)
		}
		return n.Distribution()
	default:
		return n.Distribution()
	}
}

// naiveBayesVotes scores each class by its prior (from Stats) times the
// product of each non-missing feature's observer likelihood, mirroring
// bayes.Classifier.Votes but sourced from this leaf's own observers.
func (n *leafNode) naiveBayesVotes(inst core.Instance) []float64 {
	dist := n.Distribution()
	votes := make([]float64, len(dist))

	var total float64
	for _, w := range dist {
		total += w
	}
	if total <= 0 {
		return votes
	}

	model := n.model
	for k := range votes {
		score := dist[k] / total
		if model != nil {
			for m := 0; m < model.NumPredictors(); m++ {
				attr := model.PredictorAt(m)
				v := attr.Value(inst)
				if v.IsMissing() {
					continue
				}
				o, ok := n.observers[m]
				if !ok {
					score *= 0
					continue
				}
				p, known := o.Probability(v.Value(), k)
				if !known {
					score *= 0
					continue
				}
				score *= p
			}
		}
		votes[k] = score
	}
	return votes
}

func (n *leafNode) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(n.Stats.Distribution(), n.WeightOnLastEval, n.IsInactive)
}

func (n *leafNode) DecodeFrom(dec *msgpack.Decoder) error {
	var dist []float64
	if err := dec.Decode(&dist, &n.WeightOnLastEval, &n.IsInactive); err != nil {
		return err
	}
	n.Stats = helpers.NewClassificationStats(dist)
	return nil
}

func argmax(v []float64) int {
	best := -1
	bestVal := 0.0
	for i, x := range v {
		if x != x { // NaN
			continue
		}
		if best < 0 || x > bestVal {
			best = i
			bestVal = x
		}
	}
	return best
}

func distributionToPrediction(dist []float64) core.Prediction {
	p := make(core.Prediction, len(dist))
	for i, w := range dist {
		p[i] = core.PredictedValue{AttributeValue: core.AttributeValue(i), Votes: w}
	}
	return p
}

// --------------------------------------------------------------------
// split node

type splitNode struct {
	Test       helpers.SplitCondition
	PreStats   helpers.ObservationStats
	Children   []treeNode
}

func newSplitNode(test helpers.SplitCondition, preStats helpers.ObservationStats, postStats map[int]helpers.ObservationStats) *splitNode {
	maxBranch := 0
	for b := range postStats {
		if b+1 > maxBranch {
			maxBranch = b + 1
		}
	}
	children := make([]treeNode, maxBranch)
	for b, stats := range postStats {
		children[b] = newLeafNode(stats)
	}
	return &splitNode{Test: test, PreStats: preStats, Children: children}
}

func (s *splitNode) SetChild(index int, child treeNode) {
	if index >= len(s.Children) {
		grown := make([]treeNode, index+1)
		copy(grown, s.Children)
		s.Children = grown
	}
	s.Children[index] = child
}

func (s *splitNode) Filter(inst core.Instance, parent *splitNode, parentBranch int) (treeNode, *splitNode, int) {
	branch := s.Test.Branch(inst)
	if branch < 0 || branch >= len(s.Children) {
		return s, parent, parentBranch
	}
	child := s.Children[branch]
	if child == nil {
		return nil, s, branch
	}
	return child.Filter(inst, s, branch)
}

func (s *splitNode) ReadInfo(depth int, info *TreeInfo) {
	info.NumNodes++
	if depth > info.MaxDepth {
		info.MaxDepth = depth
	}
	for _, c := range s.Children {
		if c != nil {
			c.ReadInfo(depth+1, info)
		}
	}
}

func (s *splitNode) WriteGraph(w *bufio.Writer, id string) error {
	if _, err := fmt.Fprintf(w, "  %s [shape=ellipse label=%q];\n", id, s.Test.Predictor()); err != nil {
		return err
	}
	for i, c := range s.Children {
		if c == nil {
			continue
		}
		childID := fmt.Sprintf("%s_%d", id, i)
		if err := c.WriteGraph(w, childID); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %s -> %s [label=%q];\n", id, childID, s.Test.Describe(i)); err != nil {
			return err
		}
	}
	return nil
}

func (s *splitNode) WriteText(w *bufio.Writer, indent string) error {
	for i, c := range s.Children {
		if c == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s%s %s", indent, s.Test.Predictor(), s.Test.Describe(i)); err != nil {
			return err
		}
		if err := c.WriteText(w, indent+"\t"); err != nil {
			return err
		}
	}
	return nil
}

func (s *splitNode) Prune(isObsolete PruneEval, parent *splitNode) {
	for i, c := range s.Children {
		if c == nil {
			continue
		}
		if leaf, ok := c.(*leafNode); ok {
			if isObsolete(leaf, s) {
				leaf.Deactivate()
			}
			continue
		}
		c.Prune(isObsolete, s)
		_ = i
	}
}

func (s *splitNode) ByteSize() int {
	size := 48
	for _, c := range s.Children {
		if c != nil {
			size += c.ByteSize()
		}
	}
	return size
}

func (s *splitNode) FindLeaves(buf leafNodeSlice) leafNodeSlice {
	for _, c := range s.Children {
		if c != nil {
			buf = c.FindLeaves(buf)
		}
	}
	return buf
}

func (s *splitNode) Distribution() []float64 { return s.PreStats.Distribution() }

func (s *splitNode) Predict() core.Prediction {
	return distributionToPrediction(s.Distribution())
}

func (s *splitNode) EncodeTo(enc *msgpack.Encoder) error {
	if err := enc.Encode(s.Test); err != nil {
		return err
	}
	if err := enc.Encode(s.PreStats.Distribution()); err != nil {
		return err
	}
	if err := enc.Encode(int64(len(s.Children))); err != nil {
		return err
	}
	for _, c := range s.Children {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *splitNode) DecodeFrom(dec *msgpack.Decoder) error {
	var cond helpers.SplitCondition
	if err := dec.Decode(&cond); err != nil {
		return err
	}
	s.Test = cond

	var dist []float64
	if err := dec.Decode(&dist); err != nil {
		return err
	}
	s.PreStats = helpers.NewClassificationStats(dist)

	var n int64
	if err := dec.Decode(&n); err != nil {
		return err
	}
	s.Children = make([]treeNode, n)
	for i := range s.Children {
		var child treeNode
		if err := dec.Decode(&child); err != nil {
			return err
		}
		s.Children[i] = child
	}
	return nil
}

// --------------------------------------------------------------------
// leaf ordering for memory management

// leafNodeSlice supports sort.Sort, ordering by ascending Promise (used by
// memory management to deactivate the least promising leaves first).
type leafNodeSlice []*leafNode

func (p leafNodeSlice) Len() int      { return len(p) }
func (p leafNodeSlice) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p leafNodeSlice) Less(i, j int) bool {
	return p[i].promise() < p[j].promise()
}

func (n *leafNode) promise() float64 {
	if n.IsInactive {
		return 0
	}
	return n.Stats.Promise()
}

var _ sort.Interface = leafNodeSlice(nil)

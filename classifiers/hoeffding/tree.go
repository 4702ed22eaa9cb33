package hoeffding

import (
	"bufio"
	"context"
	"io"
	"math"
	"sort"
	"sync"

	"github.com/gustavo-munhoz/reason/classifiers/internal/helpers"
	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/internal/msgpack"
)

func init() {
	msgpack.Register(7750, (*Tree)(nil))
}

// PruneEval receives a leaf and its parent split node and decides whether
// the leaf is obsolete and should be deactivated.
type PruneEval func(leaf *leafNode, parent *splitNode) bool

// TreeInfo contains tree information/stats
type TreeInfo struct {
	NumNodes          int
	NumActiveLeaves   int
	NumInactiveLeaves int
	MaxDepth          int
}

// Tree is an implementation of a Hoeffding (VFDT) decision tree.
type Tree struct {
	conf  *Config
	root  treeNode
	model *core.Model

	leaves    leafNodeSlice
	cycles    int64
	memFrozen bool

	traceCh chan *Trace

	mu sync.RWMutex
}

// New starts a new Hoeffding tree from a model
func New(model *core.Model, conf *Config) *Tree {
	t := &Tree{
		model: model,
		root:  newLeafNode(helpers.NewObservationStats(false)),
	}
	t.SetConfig(conf)
	return t
}

// Load loads a tree from a readable source with the given config
func Load(r io.Reader, conf *Config) (*Tree, error) {
	var t *Tree
	if err := msgpack.NewDecoder(r).Decode(&t); err != nil {
		return nil, err
	}
	t.SetConfig(conf)
	return t, nil
}

// SetConfig updates config on the fly
func (t *Tree) SetConfig(conf *Config) {
	if conf == nil {
		conf = new(Config)
	}
	conf.norm()

	t.mu.Lock()
	t.conf = conf
	if conf.EnableTracing {
		if t.traceCh == nil {
			t.traceCh = make(chan *Trace, traceBufferSize)
		}
	} else {
		t.traceCh = nil
	}
	t.mu.Unlock()
}

// Model returns the model
func (t *Tree) Model() *core.Model {
	return t.model
}

// Info returns information about the tree
func (t *Tree) Info() *TreeInfo {
	info := new(TreeInfo)

	t.mu.RLock()
	t.root.ReadInfo(1, info)
	t.mu.RUnlock()

	return info
}

// WriteGraph write a graph in dot notation to a writer
func (t *Tree) WriteGraph(w io.Writer) error {
	buf := bufio.NewWriter(w)
	defer buf.Flush()

	if _, err := buf.WriteString("digraph ht {\n  edge [arrowsize=0.6, fontsize=10];\n"); err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := t.root.WriteGraph(buf, "N"); err != nil {
		return err
	}
	if _, err := buf.WriteString("}\n"); err != nil {
		return err
	}

	return nil
}

// WriteText writes text-based tree output to a writer
func (t *Tree) WriteText(w io.Writer) error {
	buf := bufio.NewWriter(w)
	defer buf.Flush()

	if _, err := buf.WriteString("ROOT"); err != nil {
		return err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.root.WriteText(buf, "\t")
}

// Train passes an instance to the tree for training purposes, routing it to
// a leaf, updating the leaf's statistics, and attempting a split once the
// leaf has seen a full grace period of new weight.
func (t *Tree) Train(inst core.Instance) *Trace {
	var trace *Trace

	t.mu.Lock()
	defer t.mu.Unlock()

	node, parent, parentIndex := t.root.Filter(inst, nil, -1)
	if node == nil {
		node = newLeafNode(helpers.NewObservationStats(false))
		parent.Children[parentIndex] = node
	}

	leaf, ok := node.(*leafNode)
	if !ok {
		t.publishTrace(trace)
		return trace
	}

	leaf.Learn(inst, t)

	if t.conf.MemoryEstimatePeriod > 0 {
		if t.cycles++; t.cycles%t.conf.MemoryEstimatePeriod == 0 {
			t.enforceMemoryLimit()
		}
	}

	weight := leaf.Stats.TotalWeight()
	if leaf.IsInactive || t.memFrozen || int(weight-leaf.WeightOnLastEval) < t.conf.GracePeriod {
		t.publishTrace(trace)
		return trace
	}

	var split *splitNode
	if split, trace = t.attemptSplit(leaf, weight); split != nil {
		if parent == nil {
			t.root = split
		} else {
			parent.SetChild(parentIndex, split)
		}
		t.enforceMemoryLimit()
	}

	if weight > leaf.WeightOnLastEval {
		leaf.WeightOnLastEval = weight
	}

	t.publishTrace(trace)
	return trace
}

// Predict returns the raw votes by target index for inst, using the leaf
// prediction strategy configured on the tree.
func (t *Tree) Predict(inst core.Instance) core.Prediction {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, parent, _ := t.root.Filter(inst, nil, -1)
	if node == nil {
		node = parent
	}
	if leaf, ok := node.(*leafNode); ok {
		return distributionToPrediction(leaf.classVotes(inst, t))
	}
	return node.Predict()
}

// Votes returns the tree's prediction as a dense class-indexed vote
// vector, for callers (e.g. the prequential driver) that want the same
// []float64 shape bayes.Classifier.Votes produces rather than a
// core.Prediction.
func (t *Tree) Votes(inst core.Instance) []float64 {
	return t.Predict(inst).Dense(t.model.NumClasses())
}

// DumpTo writes the tree to a writer
func (t *Tree) DumpTo(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	defer enc.Close()

	return enc.Encode(t)
}

// Prune removes nodes where the passed evaluator returns true
func (t *Tree) Prune(isObsolete PruneEval) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.root.Prune(isObsolete, nil)
}

func (t *Tree) EncodeTo(enc *msgpack.Encoder) error {
	return enc.Encode(t.model, t.root)
}

func (t *Tree) DecodeFrom(dec *msgpack.Decoder) error {
	if err := dec.Decode(&t.model); err != nil {
		return err
	}
	dec.WithContext(context.WithValue(dec.Context(), core.ModelContextKey, t.model))
	return dec.Decode(&t.root)
}

// modelIndexOf returns the model attribute index of the predictor named
// name, or -1 if none matches (used to map a SplitCondition's Predictor()
// name back to the leaf's observer map).
func (t *Tree) modelIndexOf(name string) int {
	for m := 0; m < t.model.NumPredictors(); m++ {
		if t.model.PredictorAt(m).Name == name {
			return m
		}
	}
	return -1
}

func (t *Tree) attemptSplit(leaf *leafNode, weight float64) (*splitNode, *Trace) {
	if !leaf.Stats.IsSufficient() {
		return nil, nil
	}

	var trace *Trace
	if t.conf.EnableTracing {
		trace = new(Trace)
	}

	// Calculate best splits, ranked by descending merit. The list is empty
	// only when NoPrePrune is set and no observer can propose a split yet.
	splits := leaf.BestSplits(t)
	if len(splits) == 0 {
		return nil, trace
	}
	bestSplit := splits[0]

	// Calculate the gain between merits of the best and the second-best split
	meritGain := bestSplit.Merit()
	if len(splits) > 1 {
		meritGain -= splits[1].Merit()
	}

	if trace != nil {
		trace.MeritGain = meritGain
		trace.PossibleSplits = make([]TracePossibleSplit, 0, len(splits))

		for _, split := range splits {
			if cond := split.Condition(); cond != nil {
				trace.PossibleSplits = append(trace.PossibleSplits, TracePossibleSplit{
					Predictor: cond.Predictor(),
					Merit:     split.Merit(),
				})
			}
		}
	}

	srange := bestSplit.Range()
	hbound := math.Sqrt(srange*srange*math.Log(1.0/t.conf.SplitConfidence)/(2.0*weight))

	if trace != nil {
		trace.HoeffdingBound = hbound
	}

	// With a single suggestion there is no runner-up to compare against:
	// split on it unconditionally, unless it's the no-split sentinel itself.
	if len(splits) == 1 {
		if bestSplit.Condition() == nil {
			return nil, trace
		}
		if trace != nil {
			trace.Split = true
		}
		return newSplitNode(
			bestSplit.Condition(),
			bestSplit.PreStats(),
			bestSplit.PostStats(),
		), trace
	}

	// Don't split if there is no merit gain over the runner-up.
	if meritGain <= 0 {
		t.maybeDisablePoorAttributes(leaf, splits, bestSplit, hbound)
		return nil, trace
	}

	if meritGain > hbound || hbound < t.conf.TieThreshold {
		if bestSplit.Condition() == nil {
			// The winning suggestion is the no-split sentinel itself.
			return nil, trace
		}
		if trace != nil {
			trace.Split = true
		}

		return newSplitNode(
			bestSplit.Condition(),
			bestSplit.PreStats(),
			bestSplit.PostStats(),
		), trace
	}

	t.maybeDisablePoorAttributes(leaf, splits, bestSplit, hbound)
	return nil, trace
}

// maybeDisablePoorAttributes: once enough
// candidates exist, any attribute whose merit trails the current best by
// more than the Hoeffding bound is unlikely ever to win and its observer is
// replaced with the null observer to bound memory use.
func (t *Tree) maybeDisablePoorAttributes(leaf *leafNode, splits helpers.SplitSuggestions, best *helpers.SplitSuggestion, hbound float64) {
	if !t.conf.RemovePoorAttributes || len(splits) <= 2 {
		return
	}

	var poor []int
	for _, s := range splits {
		cond := s.Condition()
		if cond == nil || s == best {
			continue
		}
		if best.Merit()-s.Merit() > hbound {
			if m := t.modelIndexOf(cond.Predictor()); m >= 0 {
				poor = append(poor, m)
			}
		}
	}
	if len(poor) > 0 {
		leaf.disablePoorAttributes(poor...)
	}
}

// enforceMemoryLimit runs whenever the tree is over MaxByteSize or any leaf
// is already inactive. Once over budget, leaves are deactivated
// lowest-promise-first until the tree fits; regardless of whether this pass
// needed to deactivate anything, leaves left inactive from a prior pass are
// then reactivated highest-promise-first as budget allows, so a leaf can
// recover once growth elsewhere frees room. When StopMemManagement is set
// and the tree is over budget, it instead freezes: no further splits are
// attempted, but no leaf is deactivated or reactivated.
func (t *Tree) enforceMemoryLimit() {
	byteSize := t.root.ByteSize()
	overBudget := int64(byteSize) > t.conf.MaxByteSize

	t.leaves = t.root.FindLeaves(t.leaves[:0])

	hasInactive := false
	for _, leaf := range t.leaves {
		if leaf.IsInactive {
			hasInactive = true
			break
		}
	}

	if !overBudget && !hasInactive {
		t.memFrozen = false
		return
	}

	if overBudget && t.conf.StopMemManagement {
		t.memFrozen = true
		return
	}
	t.memFrozen = false

	sort.Sort(t.leaves)

	// piv marks the index up to which leaves are settled (already processed
	// by the deactivation loop below). Leaves past piv are candidates for
	// reactivation. When nothing needs deactivating this pass, every leaf is
	// a candidate, so piv starts at -1.
	piv := len(t.leaves)
	if !overBudget {
		piv = -1
	} else {
		for i, leaf := range t.leaves {
			if leaf.IsInactive {
				continue
			}

			byteSize -= leaf.ByteSize()
			leaf.Deactivate()

			if int64(byteSize) <= t.conf.MaxByteSize {
				piv = i
				break
			}
		}
	}

	// Reactivate the highest-promise leaves among the rest, as long as
	// budget allows - undoing over-eager deactivation from previous passes.
	for i := len(t.leaves) - 1; i > piv; i-- {
		leaf := t.leaves[i]
		if !leaf.IsInactive {
			continue
		}
		leaf.Activate()
		byteSize += leaf.ByteSize()

		if int64(byteSize) > t.conf.MaxByteSize {
			leaf.Deactivate()
			byteSize -= leaf.ByteSize()
			break
		}
	}
}

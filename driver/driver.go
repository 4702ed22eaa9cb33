// Package driver implements the prequential (test-then-train) evaluation
// loop: pull an instance from a stream, score it against the current
// model, record the result, train on it, and periodically snapshot the
// running performance into a learning curve.
package driver

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gustavo-munhoz/reason/core"
	"github.com/gustavo-munhoz/reason/memprobe"
	"github.com/gustavo-munhoz/reason/streams"
)

// Learner is the subset of a classifier the driver needs: dense
// class-indexed votes for scoring, and online training.
// classifiers/bayes.Classifier satisfies this shape directly;
// classifiers/hoeffding.Tree needs a thin adapter, since its Train returns
// a *Trace.
type Learner interface {
	Votes(inst core.Instance) []float64
	Train(inst core.Instance)
}

// Evaluator is the subset of a performance evaluator the driver needs.
// evaluation.ClassificationEvaluator satisfies this shape.
type Evaluator interface {
	AddResult(inst core.Instance, votes []float64)
	Performance() map[string]float64
}

// Limit returns a pointer to n, for populating Config.MaxInstances /
// Config.MaxSeconds with an explicit (possibly zero) limit.
func Limit(n int64) *int64 { return &n }

// Config controls the driver's stopping conditions and sampling cadence.
type Config struct {
	// MaxInstances stops the run once this many instances have been
	// processed. Nil means unbounded; a pointer to 0 stops before the
	// first instance is processed.
	MaxInstances *int64
	// MaxSeconds stops the run once this much wall-clock time has
	// elapsed. Nil means unbounded; a pointer to 0 stops immediately.
	MaxSeconds *int64
	// SampleFrequency pushes a snapshot onto the learning curve every
	// SampleFrequency processed instances. Must be > 0.
	SampleFrequency int64
	// MemCheckFrequency samples RSS (for RAM-hours accounting) every
	// MemCheckFrequency processed instances. Must be > 0.
	MemCheckFrequency int64
}

// Driver runs the prequential loop over a stream, a learner and an
// evaluator, accumulating a LearningCurve.
type Driver struct {
	learner   Learner
	stream    streams.Stream
	evaluator Evaluator
	conf      Config
	probe     memprobe.Probe
	sink      Sink

	curve LearningCurve
	runID uuid.UUID

	processed     int64
	startTime     time.Time
	lastMemSample time.Time
	ramHours      float64
}

// New builds a Driver. It rejects a non-positive SampleFrequency or
// MemCheckFrequency, matching the original evaluator's constructor
// guards.
func New(learner Learner, stream streams.Stream, evaluator Evaluator, conf Config) (*Driver, error) {
	if conf.SampleFrequency <= 0 {
		return nil, fmt.Errorf("driver: SampleFrequency must be > 0")
	}
	if conf.MemCheckFrequency <= 0 {
		return nil, fmt.Errorf("driver: MemCheckFrequency must be > 0")
	}

	return &Driver{
		learner:   learner,
		stream:    stream,
		evaluator: evaluator,
		conf:      conf,
		probe:     memprobe.New(),
	}, nil
}

// WithSink attaches a sink that receives a copy of every snapshot pushed
// during Run, in addition to the accumulated LearningCurve.
func (d *Driver) WithSink(sink Sink) *Driver {
	d.sink = sink
	return d
}

// Curve returns the learning curve accumulated by the most recent Run.
func (d *Driver) Curve() *LearningCurve { return &d.curve }

// Run executes the prequential loop: while the stream has instances and
// neither stopping condition has been hit, it scores the next instance,
// records the result, trains on it, and periodically samples RAM usage
// and pushes a snapshot. A final snapshot is always pushed once the loop
// exits, even if zero instances were processed.
func (d *Driver) Run() error {
	d.startTime = time.Now()
	d.lastMemSample = d.startTime
	d.processed = 0
	d.ramHours = 0
	d.curve = LearningCurve{}
	d.runID = uuid.New()

	for d.stream.HasMore() {
		if d.conf.MaxInstances != nil && d.processed >= *d.conf.MaxInstances {
			break
		}
		if d.conf.MaxSeconds != nil && int64(time.Since(d.startTime).Seconds()) >= *d.conf.MaxSeconds {
			break
		}

		inst, ok := d.stream.Next()
		if !ok {
			break
		}
		d.processed++

		votes := d.learner.Votes(inst)
		d.evaluator.AddResult(inst, votes)
		d.learner.Train(inst)

		if d.processed%d.conf.MemCheckFrequency == 0 {
			d.bumpRAMHours()
		}
		if d.processed%d.conf.SampleFrequency == 0 {
			d.pushSnapshot()
		}
	}

	d.pushSnapshot()
	return nil
}

func (d *Driver) bumpRAMHours() {
	now := time.Now()
	dtHours := now.Sub(d.lastMemSample).Hours()
	d.lastMemSample = now

	rssGB, ok := d.probe.RSSGigabytes()
	if !ok {
		return
	}
	d.ramHours += rssGB * dtHours
}

func (d *Driver) pushSnapshot() {
	seconds := time.Since(d.startTime).Seconds()
	perf := d.evaluator.Performance()

	snap := Snapshot{
		RunID:         d.runID,
		InstancesSeen: d.processed,
		RAMHours:      d.ramHours,
		Seconds:       seconds,
		Extras:        make(map[string]float64, len(perf)),
	}

	for name, v := range perf {
		switch name {
		case "accuracy":
			snap.Accuracy = v
		case "kappa":
			snap.Kappa = v
		default:
			snap.Extras[name] = v
		}
	}

	d.curve.Push(snap)
	if d.sink != nil {
		d.sink.Push(snap)
	}
}

package driver

import "github.com/google/uuid"

// Snapshot is a point-in-time record of a prequential run's performance.
// It is a value type: copying it never aliases driver state.
type Snapshot struct {
	RunID         uuid.UUID
	InstancesSeen int64
	Accuracy      float64
	Kappa         float64
	RAMHours      float64
	Seconds       float64
	Extras        map[string]float64
}

// LearningCurve is an ordered sequence of snapshots from a single run.
type LearningCurve struct {
	Snapshots []Snapshot
}

// Push appends snap to the curve.
func (c *LearningCurve) Push(snap Snapshot) {
	c.Snapshots = append(c.Snapshots, snap)
}

// Len returns the number of snapshots recorded so far.
func (c *LearningCurve) Len() int { return len(c.Snapshots) }

// Last returns the most recent snapshot and true, or a zero Snapshot and
// false if the curve is empty.
func (c *LearningCurve) Last() (Snapshot, bool) {
	if len(c.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return c.Snapshots[len(c.Snapshots)-1], true
}

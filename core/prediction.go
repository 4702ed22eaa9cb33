package core

import "sort"

// PredictedValue pairs a candidate class value with the vote weight a
// classifier assigned it.
type PredictedValue struct {
	AttributeValue
	Votes float64
}

// Prediction is an unordered set of class candidates and their vote
// weights, as returned by a classifier's Predict method.
type Prediction []PredictedValue

// Rank sorts the predicted values by votes, highest first.
func (p Prediction) Rank() {
	sort.Sort(sort.Reverse(p))
}

// Index is a shortcut for Top().Index().
func (p Prediction) Index() int { return p.Top().Index() }

// Value is a shortcut for Top().Value().
func (p Prediction) Value() float64 { return p.Top().Value() }

// Top returns the predicted value with the highest votes.
func (p Prediction) Top() PredictedValue {
	if len(p) == 0 {
		return PredictedValue{AttributeValue: MissingValue()}
	}

	if !sort.IsSorted(sort.Reverse(p)) {
		p.Rank()
	}
	return p[0]
}

// Dense scatters the prediction into a class-indexed vote vector of length
// numClasses, the shape an online evaluator or a prequential driver
// expects. Candidates with an out-of-range index are dropped.
func (p Prediction) Dense(numClasses int) []float64 {
	votes := make([]float64, numClasses)
	for _, pv := range p {
		if idx := pv.Index(); idx >= 0 && idx < numClasses {
			votes[idx] = pv.Votes
		}
	}
	return votes
}

func (p Prediction) Len() int           { return len(p) }
func (p Prediction) Less(i, j int) bool { return p[i].Votes < p[j].Votes }
func (p Prediction) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

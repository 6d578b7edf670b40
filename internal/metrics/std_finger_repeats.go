package metrics

import (
	"math"

	"github.com/verte-zerg/keycost/internal/keyboard"
)

// StdFingerRepeatsParams configures StdFingerRepeats.
type StdFingerRepeatsParams struct {
	// IndexFingerFactor scales repeats on the index finger.
	IndexFingerFactor float64
	// PinkyFingerFactor scales repeats on the pinky.
	PinkyFingerFactor float64
	// UnbalancingFactor weights each unbalanced axis of both keys.
	UnbalancingFactor float64
}

// StdFingerRepeats penalizes bigrams typed twice with the same finger on a traditional keyboard.
type StdFingerRepeats struct {
	indexFingerFactor float64
	pinkyFingerFactor float64
	unbalancingFactor float64
}

var _ BigramMetric = (*StdFingerRepeats)(nil)

// NewStdFingerRepeats builds the metric from its parameters.
func NewStdFingerRepeats(p StdFingerRepeatsParams) *StdFingerRepeats {
	return &StdFingerRepeats{
		indexFingerFactor: p.IndexFingerFactor,
		pinkyFingerFactor: p.PinkyFingerFactor,
		unbalancingFactor: p.UnbalancingFactor,
	}
}

// Name implements BigramMetric.
func (m *StdFingerRepeats) Name() string {
	return "Finger Repeats (Standard)"
}

// IndividualCost implements BigramMetric.
func (m *StdFingerRepeats) IndividualCost(k1, k2 *keyboard.LayerKey, weight, _ float64, _ *keyboard.Layout) (float64, bool) {
	if k1.Key.Hand != k2.Key.Hand || k1.Key.Finger != k2.Key.Finger {
		return 0, true
	}

	u1, u2 := k1.Key.Unbalancing, k2.Key.Unbalancing
	cost := (1 + m.unbalancingFactor*math.Abs(u1.X)) *
		(1 + m.unbalancingFactor*math.Abs(u1.Y)) *
		(1 + m.unbalancingFactor*math.Abs(u2.X)) *
		(1 + m.unbalancingFactor*math.Abs(u2.Y)) *
		weight

	switch k1.Key.Finger {
	case keyboard.Index:
		cost *= m.indexFingerFactor
	case keyboard.Pinky:
		cost *= m.pinkyFingerFactor
	}
	return cost, true
}

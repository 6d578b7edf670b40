package metrics

import (
	"math"

	"github.com/verte-zerg/keycost/internal/keyboard"
)

// MovementParams configures the movement pattern metrics.
type MovementParams struct {
	// FingerSwitchFactor is the base cost of moving between two fingers of one hand.
	FingerSwitchFactor []FingerSwitchCost
	// FingerLengths gives the relative length per hand and finger; unset fingers have length 1.
	FingerLengths map[keyboard.Hand]map[keyboard.Finger]float64
	// ShortDownToLongOrLongUpToShortFactor scales moves against the natural finger curl.
	ShortDownToLongOrLongUpToShortFactor float64
	// SameRowOffset is added for bigrams that stay in one row.
	SameRowOffset float64
	// UnbalancingFactor is raised to the unbalancing of the first key.
	UnbalancingFactor float64
	// LateralStretchFactor weights the mismatch between finger and column distance.
	LateralStretchFactor float64
}

// StdMovementPattern puts cost on bigrams typed by different fingers of one hand on a traditional keyboard.
type StdMovementPattern struct {
	fingerSwitchFactor                   fingerSwitchTable
	fingerLengths                        keyboard.HandFingerMap[float64]
	shortDownToLongOrLongUpToShortFactor float64
	sameRowOffset                        float64
	unbalancingFactor                    float64
	lateralStretchFactor                 float64
}

var _ BigramMetric = (*StdMovementPattern)(nil)

// NewStdMovementPattern builds the metric from its parameters.
func NewStdMovementPattern(p MovementParams) *StdMovementPattern {
	return &StdMovementPattern{
		fingerSwitchFactor:                   newFingerSwitchTable(p.FingerSwitchFactor),
		fingerLengths:                        keyboard.HandFingerMapFrom(p.FingerLengths, 1.0),
		shortDownToLongOrLongUpToShortFactor: p.ShortDownToLongOrLongUpToShortFactor,
		sameRowOffset:                        p.SameRowOffset,
		unbalancingFactor:                    p.UnbalancingFactor,
		lateralStretchFactor:                 p.LateralStretchFactor,
	}
}

// Name implements BigramMetric.
func (m *StdMovementPattern) Name() string {
	return "Standard Movement Pattern"
}

// IndividualCost implements BigramMetric.
func (m *StdMovementPattern) IndividualCost(k1, k2 *keyboard.LayerKey, weight, _ float64, _ *keyboard.Layout) (float64, bool) {
	a, b := k1.Key, k2.Key
	if !differentFingerSameHand(a, b) {
		return 0, true
	}

	upwards := b.Position.Row < a.Position.Row
	downwards := b.Position.Row > a.Position.Row

	lengthDiff := m.fingerLengths.Get(a.Hand, a.Finger) - m.fingerLengths.Get(b.Hand, b.Finger)
	firstIsLonger := lengthDiff > 0
	firstIsShorter := lengthDiff < 0

	cost := fingerSwitch(m.fingerSwitchFactor, a.Hand, a.Finger, b.Finger)
	if (upwards && firstIsShorter) || (downwards && firstIsLonger) {
		cost *= m.shortDownToLongOrLongUpToShortFactor
	}
	if a.Position.Row == b.Position.Row {
		cost += m.sameRowOffset
	}

	stretch := absInt(a.Finger.Distance(b.Finger) - absInt(a.Position.Col-b.Position.Col))
	cost *= 1 + float64(stretch)*m.lateralStretchFactor
	cost *= math.Pow(m.unbalancingFactor, unbalancingExponent(a))

	return weight * cost, true
}

package metrics

import (
	"github.com/verte-zerg/keycost/internal/keyboard"
)

// MovementPattern is the experimental cluster-aware movement metric. Only the
// finger switch costs of MovementParams affect the result, so it scores like
// SvalMovementPattern. Finger lengths, row changes and lateral stretch are
// accepted but not used in the cost.
type MovementPattern struct {
	fingerSwitchFactor fingerSwitchTable
}

var _ BigramMetric = (*MovementPattern)(nil)

// NewMovementPattern builds the metric from its parameters.
func NewMovementPattern(p MovementParams) *MovementPattern {
	return &MovementPattern{
		fingerSwitchFactor: newFingerSwitchTable(p.FingerSwitchFactor),
	}
}

// Name implements BigramMetric.
func (m *MovementPattern) Name() string {
	return "Movement Pattern"
}

// IndividualCost implements BigramMetric.
func (m *MovementPattern) IndividualCost(k1, k2 *keyboard.LayerKey, weight, _ float64, _ *keyboard.Layout) (float64, bool) {
	return lateralSwitchCost(m.fingerSwitchFactor, k1.Key, k2.Key, weight), true
}

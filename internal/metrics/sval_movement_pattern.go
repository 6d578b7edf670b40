package metrics

import (
	"github.com/verte-zerg/keycost/internal/keyboard"
)

// SvalMovementParams configures SvalMovementPattern.
type SvalMovementParams struct {
	FingerSwitchFactor []FingerSwitchCost
}

// SvalMovementPattern puts cost on finger switches that start on a lateral
// (east or west) key of a Svalboard cluster.
type SvalMovementPattern struct {
	fingerSwitchFactor fingerSwitchTable
}

var _ BigramMetric = (*SvalMovementPattern)(nil)

// NewSvalMovementPattern builds the metric from its parameters.
func NewSvalMovementPattern(p SvalMovementParams) *SvalMovementPattern {
	return &SvalMovementPattern{
		fingerSwitchFactor: newFingerSwitchTable(p.FingerSwitchFactor),
	}
}

// Name implements BigramMetric.
func (m *SvalMovementPattern) Name() string {
	return "Svalboard Movement Pattern"
}

// IndividualCost implements BigramMetric.
func (m *SvalMovementPattern) IndividualCost(k1, k2 *keyboard.LayerKey, weight, _ float64, _ *keyboard.Layout) (float64, bool) {
	return lateralSwitchCost(m.fingerSwitchFactor, k1.Key, k2.Key, weight), true
}

func lateralSwitchCost(table fingerSwitchTable, a, b keyboard.Key, weight float64) float64 {
	if !differentFingerSameHand(a, b) || !lateralFirstKey(a) {
		return 0
	}
	return weight * fingerSwitch(table, a.Hand, a.Finger, b.Finger) * unbalancingExponent(a)
}

// Package metrics implements the bigram cost metrics used to score layouts.
//
// Every metric is immutable after construction and safe for concurrent use:
// IndividualCost is a pure function of its arguments and the metric's parameters.
package metrics

import (
	"math"

	"github.com/verte-zerg/keycost/internal/keyboard"
	"github.com/verte-zerg/keycost/internal/sval"
)

// BigramMetric scores an ordered key pair, k1 pressed before k2.
//
// IndividualCost returns ok == false when the pair cannot be evaluated by the
// metric at all; such pairs are excluded from the metric's aggregate. A pair
// the metric does not penalize returns (0, true).
type BigramMetric interface {
	Name() string
	IndividualCost(k1, k2 *keyboard.LayerKey, weight, totalWeight float64, layout *keyboard.Layout) (float64, bool)
}

// Metric kinds as used in configuration.
const (
	KindStdFingerRepeats    = "std_finger_repeats"
	KindStdMovementPattern  = "std_movement_pattern"
	KindSvalFingerRepeats   = "sval_finger_repeats"
	KindSvalMovementPattern = "sval_movement_pattern"
	KindMovementPattern     = "movement_pattern"
)

// Kinds lists every metric kind in evaluation order.
var Kinds = []string{
	KindStdFingerRepeats,
	KindStdMovementPattern,
	KindSvalFingerRepeats,
	KindSvalMovementPattern,
	KindMovementPattern,
}

// FingerSwitchCost is the configured cost of moving from one finger to another on the same hand.
type FingerSwitchCost struct {
	From keyboard.Finger
	To   keyboard.Finger
	Cost float64
}

type fingerSwitchTable = keyboard.HandFingerMap[keyboard.FingerMap[float64]]

// newFingerSwitchTable applies the costs to both hands. Later entries for the
// same pair overwrite earlier ones; unconfigured pairs cost 0.
func newFingerSwitchTable(costs []FingerSwitchCost) fingerSwitchTable {
	table := keyboard.NewHandFingerMap(keyboard.NewFingerMap(0.0))
	for _, hand := range keyboard.Hands {
		for _, fsc := range costs {
			row := table.Get(hand, fsc.From)
			row.Set(fsc.To, fsc.Cost)
			table.Set(hand, fsc.From, row)
		}
	}
	return table
}

func fingerSwitch(table fingerSwitchTable, h keyboard.Hand, from, to keyboard.Finger) float64 {
	row := table.Get(h, from)
	return row.Get(to)
}

// unbalancingExponent is |x|+|y| of the key's unbalancing, with neutral keys counting as 1.
func unbalancingExponent(k keyboard.Key) float64 {
	u := math.Abs(k.Unbalancing.X) + math.Abs(k.Unbalancing.Y)
	if u == 0 {
		return 1
	}
	return u
}

// differentFingerSameHand reports whether the pair is a non-thumb finger switch on one hand.
func differentFingerSameHand(k1, k2 keyboard.Key) bool {
	if k1.Finger == keyboard.Thumb || k2.Finger == keyboard.Thumb {
		return false
	}
	return k1.Hand == k2.Hand && k1.Finger != k2.Finger
}

// lateralFirstKey reports whether k sits on the east or west side of its nearest cluster.
func lateralFirstKey(k keyboard.Key) bool {
	return sval.DirectionOf(k.Position).IsLateral()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package metrics

import (
	"github.com/verte-zerg/keycost/internal/keyboard"
	"github.com/verte-zerg/keycost/internal/sval"
)

// Directional repeat costs on a 0..1 scale where 0 types as easily as alternating
// fingers and 1 is as annoying as a curling same-finger bigram on a regular keyboard.
const (
	repeatNorth  = 1.0
	repeatSouth  = 0.5
	repeatEast   = 1.0
	repeatWest   = 1.0
	repeatCenter = 0.7

	centerSouth        = 0.0
	centerNorth        = 0.3
	toCenter           = 1.0
	inwardRoll         = 0.4
	outwardRoll        = 3.0
	wallToWallLateral  = 1.75
	wallToWallVertical = 1.75
	wallToWallOther    = 1.0

	// southToInwardIndex covers index south followed by the inward key, an easy roll.
	southToInwardIndex = 0.2

	thumbSameKey      = 1.0
	thumbDifferentKey = 2.0
)

// SvalFingerRepeatsParams configures SvalFingerRepeats.
type SvalFingerRepeatsParams struct {
	// FingerFactors scales the cost per finger; unset fingers use 1.
	FingerFactors map[keyboard.Finger]float64
}

// SvalFingerRepeats penalizes same-finger bigrams on a Svalboard according to
// the directions pressed within the finger cluster.
type SvalFingerRepeats struct {
	fingerFactors keyboard.FingerMap[float64]
}

var _ BigramMetric = (*SvalFingerRepeats)(nil)

// NewSvalFingerRepeats builds the metric from its parameters.
func NewSvalFingerRepeats(p SvalFingerRepeatsParams) *SvalFingerRepeats {
	return &SvalFingerRepeats{
		fingerFactors: keyboard.FingerMapFrom(p.FingerFactors, 1.0),
	}
}

// Name implements BigramMetric.
func (m *SvalFingerRepeats) Name() string {
	return "Finger Repeats (Svalboard)"
}

// IndividualCost implements BigramMetric.
func (m *SvalFingerRepeats) IndividualCost(k1, k2 *keyboard.LayerKey, weight, _ float64, _ *keyboard.Layout) (float64, bool) {
	// A modifier pressed twice in a row is held, not repeated.
	if k1.Equal(k2) && k1.IsModifier() {
		return 0, true
	}
	if k1.Key.Hand != k2.Key.Hand || k1.Key.Finger != k2.Key.Finger {
		return 0, true
	}

	if k1.Key.Finger == keyboard.Thumb {
		if k1.Equal(k2) {
			return weight * thumbSameKey, true
		}
		return weight * thumbDifferentKey, true
	}

	center := sval.NearestCenter(k1.Key.Position)
	d1 := sval.Classify(k1.Key.Position, center)
	d2 := sval.Classify(k2.Key.Position, center)

	fingerFactor := m.fingerFactors.Get(k1.Key.Finger)
	inward := sval.Inward(k1.Key.Hand)
	if d1 == sval.South && d2 == inward && k1.Key.Finger == keyboard.Index {
		return weight * fingerFactor * southToInwardIndex, true
	}
	return weight * fingerFactor * directionalRepeatFactor(d1, d2, inward), true
}

func directionalRepeatFactor(d1, d2, inward sval.Direction) float64 {
	if d1 == d2 {
		switch d1 {
		case sval.North:
			return repeatNorth
		case sval.South:
			return repeatSouth
		case sval.East:
			return repeatEast
		case sval.West:
			return repeatWest
		default:
			return repeatCenter
		}
	}
	switch {
	case d1 == sval.Center:
		switch d2 {
		case sval.South:
			return centerSouth
		case sval.North:
			return centerNorth
		case inward:
			return inwardRoll
		default:
			return outwardRoll
		}
	case d2 == sval.Center:
		return toCenter
	case d1.IsLateral() && d2.IsLateral():
		return wallToWallLateral
	case isVertical(d1) && isVertical(d2):
		return wallToWallVertical
	default:
		return wallToWallOther
	}
}

func isVertical(d sval.Direction) bool {
	return d == sval.North || d == sval.South
}

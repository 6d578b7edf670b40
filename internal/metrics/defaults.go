package metrics

import (
	"fmt"

	"github.com/verte-zerg/keycost/internal/keyboard"
)

// DefaultStdFingerRepeatsParams returns the shipped StdFingerRepeats tuning.
func DefaultStdFingerRepeatsParams() StdFingerRepeatsParams {
	return StdFingerRepeatsParams{
		IndexFingerFactor: 0.9,
		PinkyFingerFactor: 1.2,
		UnbalancingFactor: 0.7,
	}
}

// DefaultFingerSwitchCosts returns the shipped finger switch costs. Inward rolls
// between neighboring fingers are cheapest.
func DefaultFingerSwitchCosts() []FingerSwitchCost {
	return []FingerSwitchCost{
		{From: keyboard.Pinky, To: keyboard.Ring, Cost: 0.6},
		{From: keyboard.Ring, To: keyboard.Pinky, Cost: 1.0},
		{From: keyboard.Ring, To: keyboard.Middle, Cost: 0.3},
		{From: keyboard.Middle, To: keyboard.Ring, Cost: 0.6},
		{From: keyboard.Middle, To: keyboard.Index, Cost: 0.1},
		{From: keyboard.Index, To: keyboard.Middle, Cost: 0.3},
		{From: keyboard.Pinky, To: keyboard.Middle, Cost: 0.2},
		{From: keyboard.Middle, To: keyboard.Pinky, Cost: 0.4},
		{From: keyboard.Ring, To: keyboard.Index, Cost: 0.1},
		{From: keyboard.Index, To: keyboard.Ring, Cost: 0.2},
	}
}

// DefaultFingerLengths returns relative finger lengths for both hands.
func DefaultFingerLengths() map[keyboard.Hand]map[keyboard.Finger]float64 {
	lengths := map[keyboard.Finger]float64{
		keyboard.Thumb:  0,
		keyboard.Index:  0.8,
		keyboard.Middle: 1.0,
		keyboard.Ring:   0.9,
		keyboard.Pinky:  0.6,
	}
	out := make(map[keyboard.Hand]map[keyboard.Finger]float64, len(keyboard.Hands))
	for _, h := range keyboard.Hands {
		perHand := make(map[keyboard.Finger]float64, len(lengths))
		for f, v := range lengths {
			perHand[f] = v
		}
		out[h] = perHand
	}
	return out
}

// DefaultMovementParams returns the shipped movement pattern tuning.
func DefaultMovementParams() MovementParams {
	return MovementParams{
		FingerSwitchFactor:                   DefaultFingerSwitchCosts(),
		FingerLengths:                        DefaultFingerLengths(),
		ShortDownToLongOrLongUpToShortFactor: 2.0,
		SameRowOffset:                        0.5,
		UnbalancingFactor:                    1.2,
		LateralStretchFactor:                 0.5,
	}
}

// DefaultSvalFingerRepeatsParams returns the shipped SvalFingerRepeats tuning.
func DefaultSvalFingerRepeatsParams() SvalFingerRepeatsParams {
	return SvalFingerRepeatsParams{
		FingerFactors: map[keyboard.Finger]float64{
			keyboard.Thumb:  1.0,
			keyboard.Index:  0.9,
			keyboard.Middle: 1.0,
			keyboard.Ring:   1.2,
			keyboard.Pinky:  1.5,
		},
	}
}

// DefaultSvalMovementParams returns the shipped SvalMovementPattern tuning.
func DefaultSvalMovementParams() SvalMovementParams {
	return SvalMovementParams{FingerSwitchFactor: DefaultFingerSwitchCosts()}
}

// NewDefault builds the metric of the given kind with its shipped parameters.
func NewDefault(kind string) (BigramMetric, error) {
	switch kind {
	case KindStdFingerRepeats:
		return NewStdFingerRepeats(DefaultStdFingerRepeatsParams()), nil
	case KindStdMovementPattern:
		return NewStdMovementPattern(DefaultMovementParams()), nil
	case KindSvalFingerRepeats:
		return NewSvalFingerRepeats(DefaultSvalFingerRepeatsParams()), nil
	case KindSvalMovementPattern:
		return NewSvalMovementPattern(DefaultSvalMovementParams()), nil
	case KindMovementPattern:
		return NewMovementPattern(DefaultMovementParams()), nil
	default:
		return nil, fmt.Errorf("unknown metric kind %q", kind)
	}
}

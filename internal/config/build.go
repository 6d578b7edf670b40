package config

import (
	"fmt"

	"github.com/verte-zerg/keycost/internal/evaluation"
	"github.com/verte-zerg/keycost/internal/keyboard"
	"github.com/verte-zerg/keycost/internal/metrics"
)

// defaultEnabled lists the kinds evaluated when their section is absent.
var defaultEnabled = map[string]bool{
	metrics.KindSvalFingerRepeats:   true,
	metrics.KindSvalMovementPattern: true,
}

// BuildMetrics instantiates the enabled metrics in evaluation order. Parameters
// missing from a section fall back to the shipped defaults.
func BuildMetrics(cfg MetricsConfig) ([]evaluation.Weighted, error) {
	var out []evaluation.Weighted
	for _, kind := range metrics.Kinds {
		toggle, present := cfg.toggle(kind)
		if !enabled(kind, toggle, present) {
			continue
		}
		m, err := cfg.build(kind)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", kind, err)
		}
		w := evaluation.Weighted{Kind: kind, Metric: m, Weight: 1, Normalize: true}
		if toggle.Weight != nil {
			w.Weight = *toggle.Weight
		}
		if toggle.Normalize != nil {
			w.Normalize = *toggle.Normalize
		}
		out = append(out, w)
	}
	return out, nil
}

func enabled(kind string, toggle MetricToggle, present bool) bool {
	if toggle.Enabled != nil {
		return *toggle.Enabled
	}
	if present {
		return true
	}
	return defaultEnabled[kind]
}

func (c MetricsConfig) toggle(kind string) (MetricToggle, bool) {
	switch kind {
	case metrics.KindStdFingerRepeats:
		if c.StdFingerRepeats != nil {
			return c.StdFingerRepeats.MetricToggle, true
		}
	case metrics.KindStdMovementPattern:
		if c.StdMovementPattern != nil {
			return c.StdMovementPattern.MetricToggle, true
		}
	case metrics.KindSvalFingerRepeats:
		if c.SvalFingerRepeats != nil {
			return c.SvalFingerRepeats.MetricToggle, true
		}
	case metrics.KindSvalMovementPattern:
		if c.SvalMovementPattern != nil {
			return c.SvalMovementPattern.MetricToggle, true
		}
	case metrics.KindMovementPattern:
		if c.MovementPattern != nil {
			return c.MovementPattern.MetricToggle, true
		}
	}
	return MetricToggle{}, false
}

func (c MetricsConfig) build(kind string) (metrics.BigramMetric, error) {
	switch kind {
	case metrics.KindStdFingerRepeats:
		p := metrics.DefaultStdFingerRepeatsParams()
		if s := c.StdFingerRepeats; s != nil {
			setFloat(&p.IndexFingerFactor, s.IndexFingerFactor)
			setFloat(&p.PinkyFingerFactor, s.PinkyFingerFactor)
			setFloat(&p.UnbalancingFactor, s.UnbalancingFactor)
		}
		return metrics.NewStdFingerRepeats(p), nil
	case metrics.KindStdMovementPattern:
		p, err := movementParams(c.StdMovementPattern)
		if err != nil {
			return nil, err
		}
		return metrics.NewStdMovementPattern(p), nil
	case metrics.KindSvalFingerRepeats:
		p := metrics.DefaultSvalFingerRepeatsParams()
		if s := c.SvalFingerRepeats; s != nil && len(s.FingerFactors) > 0 {
			factors, err := fingerValues(s.FingerFactors)
			if err != nil {
				return nil, err
			}
			for f, v := range factors {
				p.FingerFactors[f] = v
			}
		}
		return metrics.NewSvalFingerRepeats(p), nil
	case metrics.KindSvalMovementPattern:
		p := metrics.DefaultSvalMovementParams()
		if s := c.SvalMovementPattern; s != nil && s.FingerSwitchFactor != nil {
			costs, err := fingerSwitchCosts(s.FingerSwitchFactor)
			if err != nil {
				return nil, err
			}
			p.FingerSwitchFactor = costs
		}
		return metrics.NewSvalMovementPattern(p), nil
	case metrics.KindMovementPattern:
		p, err := movementParams(c.MovementPattern)
		if err != nil {
			return nil, err
		}
		return metrics.NewMovementPattern(p), nil
	default:
		return metrics.NewDefault(kind)
	}
}

func movementParams(s *MovementConfig) (metrics.MovementParams, error) {
	p := metrics.DefaultMovementParams()
	if s == nil {
		return p, nil
	}
	if s.FingerSwitchFactor != nil {
		costs, err := fingerSwitchCosts(s.FingerSwitchFactor)
		if err != nil {
			return p, err
		}
		p.FingerSwitchFactor = costs
	}
	for handName, perFinger := range s.FingerLengths {
		hand, err := keyboard.ParseHand(handName)
		if err != nil {
			return p, err
		}
		lengths, err := fingerValues(perFinger)
		if err != nil {
			return p, err
		}
		for f, v := range lengths {
			p.FingerLengths[hand][f] = v
		}
	}
	setFloat(&p.ShortDownToLongOrLongUpToShortFactor, s.ShortDownToLongOrLongUpToShortFactor)
	setFloat(&p.SameRowOffset, s.SameRowOffset)
	setFloat(&p.UnbalancingFactor, s.UnbalancingFactor)
	setFloat(&p.LateralStretchFactor, s.LateralStretchFactor)
	return p, nil
}

func fingerSwitchCosts(entries []FingerSwitchConfig) ([]metrics.FingerSwitchCost, error) {
	out := make([]metrics.FingerSwitchCost, 0, len(entries))
	for _, e := range entries {
		from, err := keyboard.ParseFinger(e.From)
		if err != nil {
			return nil, err
		}
		to, err := keyboard.ParseFinger(e.To)
		if err != nil {
			return nil, err
		}
		out = append(out, metrics.FingerSwitchCost{From: from, To: to, Cost: e.Cost})
	}
	return out, nil
}

func fingerValues(src map[string]float64) (map[keyboard.Finger]float64, error) {
	out := make(map[keyboard.Finger]float64, len(src))
	for name, v := range src {
		f, err := keyboard.ParseFinger(name)
		if err != nil {
			return nil, err
		}
		out[f] = v
	}
	return out, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// BuildKeyboard returns the configured keyboard, or the Svalboard when no keys
// are listed. A negative shift_key disables the upper-case layer.
func BuildKeyboard(cfg KeyboardConfig) (*keyboard.Keyboard, error) {
	if len(cfg.Keys) == 0 {
		kb := keyboard.Svalboard()
		if cfg.ShiftKey != nil {
			kb.ShiftKey = *cfg.ShiftKey
		}
		if kb.ShiftKey >= len(kb.Keys) {
			return nil, fmt.Errorf("shift_key %d out of range", kb.ShiftKey)
		}
		return kb, nil
	}
	kb := &keyboard.Keyboard{Name: cfg.Name, ShiftKey: -1}
	if kb.Name == "" {
		kb.Name = "custom"
	}
	for i, kc := range cfg.Keys {
		hand, err := keyboard.ParseHand(kc.Hand)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		finger, err := keyboard.ParseFinger(kc.Finger)
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		key := keyboard.Key{
			Hand:     hand,
			Finger:   finger,
			Position: keyboard.Position{Col: kc.Col, Row: kc.Row},
		}
		switch len(kc.Unbalancing) {
		case 0:
		case 2:
			key.Unbalancing = keyboard.Unbalancing{X: kc.Unbalancing[0], Y: kc.Unbalancing[1]}
		default:
			return nil, fmt.Errorf("key %d: unbalancing needs two values, got %d", i, len(kc.Unbalancing))
		}
		kb.Keys = append(kb.Keys, key)
	}
	if cfg.ShiftKey != nil {
		kb.ShiftKey = *cfg.ShiftKey
	}
	if kb.ShiftKey >= len(kb.Keys) {
		return nil, fmt.Errorf("shift_key %d out of range", kb.ShiftKey)
	}
	return kb, nil
}

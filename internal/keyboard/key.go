// Package keyboard defines the physical key model, lookup tables and layouts.
package keyboard

import (
	"fmt"
	"strings"
)

// Hand identifies the hand assigned to a key.
type Hand int

// Hands.
const (
	Left Hand = iota
	Right
)

// Hands lists every hand in table order.
var Hands = [...]Hand{Left, Right}

func (h Hand) String() string {
	switch h {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return fmt.Sprintf("Hand(%d)", int(h))
	}
}

func (h Hand) valid() bool {
	return h == Left || h == Right
}

// ParseHand parses a hand name, case-insensitively.
func ParseHand(s string) (Hand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, nil
	case "right", "r":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown hand %q", s)
	}
}

// Finger identifies the finger assigned to a key.
type Finger int

// Fingers, ordered from the thumb outwards.
const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// Fingers lists every finger in table order.
var Fingers = [...]Finger{Thumb, Index, Middle, Ring, Pinky}

var fingerNames = [...]string{"Thumb", "Index", "Middle", "Ring", "Pinky"}

func (f Finger) String() string {
	if !f.valid() {
		return fmt.Sprintf("Finger(%d)", int(f))
	}
	return fingerNames[f]
}

func (f Finger) valid() bool {
	return f >= Thumb && f <= Pinky
}

// Distance returns how many fingers lie between f and other.
func (f Finger) Distance(other Finger) int {
	d := int(f) - int(other)
	if d < 0 {
		return -d
	}
	return d
}

// ParseFinger parses a finger name, case-insensitively.
func ParseFinger(s string) (Finger, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range fingerNames {
		if strings.ToLower(n) == name {
			return Finger(i), nil
		}
	}
	return 0, fmt.Errorf("unknown finger %q", s)
}

// Position is a column/row coordinate in the switch matrix.
type Position struct {
	Col int
	Row int
}

// Unbalancing is how far a key sits from its finger's resting position.
type Unbalancing struct {
	X float64
	Y float64
}

// Key is one physical switch.
type Key struct {
	Hand        Hand
	Finger      Finger
	Position    Position
	Unbalancing Unbalancing
}

// ModifierKind describes how a layer key acts as a modifier.
type ModifierKind int

// Modifier kinds. ModifierNone marks a plain symbol key.
const (
	ModifierNone ModifierKind = iota
	ModifierHold
	ModifierOneShot
	ModifierLock
)

// LayerKey is a key as seen on one layer of a layout.
type LayerKey struct {
	Key      Key
	Index    int
	Layer    int
	Symbol   rune
	Modifier ModifierKind
}

// IsModifier reports whether the layer key switches layers instead of emitting a symbol.
func (lk *LayerKey) IsModifier() bool {
	return lk.Modifier != ModifierNone
}

// Equal reports whether both layer keys are the same logical key on the same layer.
func (lk *LayerKey) Equal(other *LayerKey) bool {
	if lk == other {
		return true
	}
	if lk == nil || other == nil {
		return false
	}
	return lk.Index == other.Index && lk.Layer == other.Layer && lk.Symbol == other.Symbol
}

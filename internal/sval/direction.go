// Package sval classifies Svalboard keys by their direction within a finger cluster.
package sval

import (
	"fmt"

	"github.com/verte-zerg/keycost/internal/keyboard"
)

// Direction is the role of a key within its five-key cluster.
type Direction int

// Directions.
const (
	Center Direction = iota
	North
	South
	East
	West
)

func (d Direction) String() string {
	switch d {
	case Center:
		return "Center"
	case North:
		return "North"
	case South:
		return "South"
	case East:
		return "East"
	case West:
		return "West"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// IsLateral reports whether the direction is East or West.
func (d Direction) IsLateral() bool {
	return d == East || d == West
}

// Inward returns the lateral direction pointing towards the other hand.
func Inward(h keyboard.Hand) Direction {
	if h == keyboard.Left {
		return East
	}
	return West
}

// NearestCenter returns the cluster center closest to pos by Manhattan distance.
// Ties resolve to the earliest center.
func NearestCenter(pos keyboard.Position) keyboard.Position {
	best := keyboard.SvalboardCenters[0]
	bestDist := manhattan(pos, best)
	for _, c := range keyboard.SvalboardCenters[1:] {
		if d := manhattan(pos, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Classify returns the direction of pos relative to center. Vertical offsets take precedence.
func Classify(pos, center keyboard.Position) Direction {
	dc := pos.Col - center.Col
	dr := pos.Row - center.Row
	switch {
	case dc == 0 && dr == 0:
		return Center
	case dr < 0:
		return North
	case dr > 0:
		return South
	case dc < 0:
		return West
	default:
		return East
	}
}

// DirectionOf classifies pos relative to its nearest cluster center.
func DirectionOf(pos keyboard.Position) Direction {
	return Classify(pos, NearestCenter(pos))
}

func manhattan(a, b keyboard.Position) int {
	return abs(a.Col-b.Col) + abs(a.Row-b.Row)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

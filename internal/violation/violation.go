// Package violation decides which frame margins a document outline crosses
// and turns that into corrective actions for the operator.
package violation

import (
	"image"
	"strings"
)

// Direction is a margin the document outline has crossed.
type Direction int

const (
	// Left means a point lies left of the left margin.
	Left Direction = iota + 1
	// Right means a point lies right of the right margin.
	Right
	// Up means a point lies above the top margin.
	Up
	// Down means a point lies below the bottom margin.
	Down
	// Top means too many points cross a margin at once: the document fills
	// the frame rather than sitting off to one side.
	Top
)

// MaxViolatingPoints is the number of violating hull points tolerated before
// the result collapses to {Top}.
const MaxViolatingPoints = 3

func (d Direction) String() string {
	switch d {
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Top:
		return "TOP"
	default:
		return "UNKNOWN"
	}
}

// Instruction is the operator-facing correction for the direction.
func (d Direction) Instruction() string {
	switch d {
	case Left:
		return "move document right"
	case Right:
		return "move document left"
	case Up:
		return "move document down"
	case Down:
		return "move document up"
	case Top:
		return "move camera back"
	default:
		return ""
	}
}

// Set is an ordered set of directions in order of discovery.
type Set []Direction

// Empty reports whether no direction is present.
func (s Set) Empty() bool {
	return len(s) == 0
}

// Has reports whether d is in the set.
func (s Set) Has(d Direction) bool {
	for _, v := range s {
		if v == d {
			return true
		}
	}
	return false
}

func (s Set) add(d Direction) Set {
	if s.Has(d) {
		return s
	}
	return append(s, d)
}

func (s Set) String() string {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

// Instructions returns the corrective action for each direction.
func (s Set) Instructions() []string {
	out := make([]string, 0, len(s))
	for _, d := range s {
		out = append(out, d.Instruction())
	}
	return out
}

// Result is the outcome of evaluating one frame's hull.
type Result struct {
	// Set holds the directional findings, or exactly {Top}.
	Set Set

	// ViolatingPoints counts hull points that crossed at least one margin.
	ViolatingPoints int
}

// Evaluate checks each hull point against a margin inset from every edge of
// a width x height frame.
//
// A point with x < margin adds Left, x > width-margin adds Right, y < margin
// adds Up and y > height-margin adds Down; each direction is added at most
// once. A point that trips any test counts as one violating point. When more
// than MaxViolatingPoints points violate, the directional findings are
// dropped and the result is {Top}.
//
// An empty hull yields an empty set, which is indistinguishable from a
// perfectly placed document. Callers must gate readiness on a non-empty
// selection as well.
func Evaluate(hull []image.Point, width, height, margin int) Result {
	maxX, maxY := width-margin, height-margin

	var set Set
	count := 0

	for _, p := range hull {
		hit := false

		if p.X < margin {
			hit = true
			set = set.add(Left)
		}
		if p.X > maxX {
			hit = true
			set = set.add(Right)
		}
		if p.Y < margin {
			hit = true
			set = set.add(Up)
		}
		if p.Y > maxY {
			hit = true
			set = set.add(Down)
		}

		if hit {
			count++
		}
	}

	if count > MaxViolatingPoints {
		return Result{Set: Set{Top}, ViolatingPoints: count}
	}
	return Result{Set: set, ViolatingPoints: count}
}

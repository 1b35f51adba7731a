// Package guide computes the tick-mark pattern drawn along the four frame
// edges as a visual reference for the operator.
//
// The pattern depends only on the frame size and two constants (segment count
// and intermediate gap). It carries no role in violation checks.
package guide

import (
	"image"
	"sync"
)

// Geometry describes the repeating tick pattern along the frame edges.
type Geometry struct {
	// DistX is the tick length along the horizontal edges.
	DistX int `json:"dist_x"`

	// DistY is the tick length along the vertical edges.
	DistY int `json:"dist_y"`

	// InterX is the gap stride between ticks on the horizontal edges.
	InterX int `json:"inter_x"`

	// InterY is the gap stride between ticks on the vertical edges.
	InterY int `json:"inter_y"`
}

// Compute returns the segment geometry for a frame of the given size.
//
// All values use integer division:
//
//	DistX  = width / segments
//	DistY  = height / segments
//	InterX = (width - gap) / segments
//	InterY = (height - gap) / segments
//
// A non-positive segment count yields the zero Geometry.
func Compute(width, height, segments, gap int) Geometry {
	if segments <= 0 {
		return Geometry{}
	}
	return Geometry{
		DistX:  width / segments,
		DistY:  height / segments,
		InterX: (width - gap) / segments,
		InterY: (height - gap) / segments,
	}
}

// Tick is a single tick mark, a straight segment from A to B.
type Tick struct {
	A image.Point
	B image.Point
}

// Ticks lays out segments-1 tick marks on each of the four frame edges.
//
// Tick i (1-based) spans inter*i + dist*(i-1) to inter*i + dist*i along its
// edge. Vertical edges sit at x=0 and x=width, horizontal edges at y=0 and
// y=height. Ticks are returned edge by edge: left, right, top, bottom.
func Ticks(g Geometry, width, height, segments int) []Tick {
	if segments <= 1 {
		return nil
	}

	n := segments - 1
	ticks := make([]Tick, 0, 4*n)

	for i := 1; i <= n; i++ {
		y0, y1 := g.InterY*i+g.DistY*(i-1), g.InterY*i+g.DistY*i
		ticks = append(ticks, Tick{A: image.Pt(0, y0), B: image.Pt(0, y1)})
	}
	for i := 1; i <= n; i++ {
		y0, y1 := g.InterY*i+g.DistY*(i-1), g.InterY*i+g.DistY*i
		ticks = append(ticks, Tick{A: image.Pt(width, y0), B: image.Pt(width, y1)})
	}
	for i := 1; i <= n; i++ {
		x0, x1 := g.InterX*i+g.DistX*(i-1), g.InterX*i+g.DistX*i
		ticks = append(ticks, Tick{A: image.Pt(x0, 0), B: image.Pt(x1, 0)})
	}
	for i := 1; i <= n; i++ {
		x0, x1 := g.InterX*i+g.DistX*(i-1), g.InterX*i+g.DistX*i
		ticks = append(ticks, Tick{A: image.Pt(x0, height), B: image.Pt(x1, height)})
	}

	return ticks
}

// Memo computes the Geometry once per run.
//
// The frame size is assumed constant for a session, so the first call fixes
// the result and every later call returns it unchanged, whatever dimensions
// it is given. Memo is safe for concurrent use.
type Memo struct {
	Segments int
	Gap      int

	once sync.Once
	geom Geometry
}

// NewMemo returns a Memo for the given segment count and intermediate gap.
func NewMemo(segments, gap int) *Memo {
	return &Memo{Segments: segments, Gap: gap}
}

// Get returns the memoized Geometry, computing it from width and height on
// the first call.
func (m *Memo) Get(width, height int) Geometry {
	m.once.Do(func() {
		m.geom = Compute(width, height, m.Segments, m.Gap)
	})
	return m.geom
}

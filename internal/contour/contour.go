// Package contour picks the boundary most likely to be the document from the
// candidates traced in a frame.
package contour

import "image"

// Candidate is a traced closed boundary together with its polygon
// approximation.
type Candidate struct {
	// Points is the traced boundary as an ordered point sequence.
	Points []image.Point `json:"points"`

	// Approx is the polygon approximation of Points, computed at a tolerance
	// of 0.02 x perimeter. Its length is the candidate's vertex count.
	Approx []image.Point `json:"approx"`

	// Area is the enclosed area in square pixels.
	Area float64 `json:"area"`
}

// Vertices returns the vertex count of the polygon approximation.
func (c Candidate) Vertices() int {
	return len(c.Approx)
}

// Selected is the winning candidate for a frame, or the empty sentinel when
// nothing qualified.
//
// A non-empty Selected always has Area above the selection threshold and at
// least MinVertices vertices.
type Selected struct {
	// Polygon is the approximated polygon of the winning candidate.
	Polygon []image.Point `json:"polygon"`

	// Area is the winning candidate's area, 0 for the empty sentinel.
	Area float64 `json:"area"`

	// Index is the position of the winner in the candidate list, -1 if empty.
	Index int `json:"index"`
}

// MinVertices is the smallest vertex count a document outline may have.
// Triangles and near-circular blobs approximate to fewer vertices.
const MinVertices = 4

// Empty is the sentinel returned when no candidate qualifies.
var Empty = Selected{Index: -1}

// IsEmpty reports whether s is the empty sentinel.
func (s Selected) IsEmpty() bool {
	return s.Area == 0 && len(s.Polygon) == 0
}

// SelectMax returns the largest candidate whose area exceeds thresholdArea
// and whose approximation has at least MinVertices vertices.
//
// Candidates with Area <= thresholdArea are discarded first, then those with
// too few vertices. Among the rest the strictly largest area wins, so on a
// tie the candidate seen first is kept. If nothing survives, Empty is
// returned.
//
// SelectMax does not modify candidates; the returned polygon is a copy.
func SelectMax(candidates []Candidate, thresholdArea float64) Selected {
	best := -1
	maxArea := 0.0

	for i, c := range candidates {
		if c.Area <= thresholdArea {
			continue
		}
		if c.Vertices() < MinVertices {
			continue
		}
		if c.Area > maxArea {
			best = i
			maxArea = c.Area
		}
	}

	if best < 0 {
		return Empty
	}

	polygon := make([]image.Point, len(candidates[best].Approx))
	copy(polygon, candidates[best].Approx)

	return Selected{
		Polygon: polygon,
		Area:    maxArea,
		Index:   best,
	}
}

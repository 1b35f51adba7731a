package detection

import (
	"image"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
)

// ConvexHull returns the convex hull of points in counter-clockwise order
// (in image coordinates, with Y down, this appears clockwise on screen),
// starting from the point with the smallest X, then Y.
//
// Collinear points on hull edges are dropped. Inputs with fewer than three
// distinct points return those points. The input is not modified.
func ConvexHull(points []image.Point) []image.Point {
	pts := make([]image.Point, len(points))
	copy(pts, points)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	pts = dedupe(pts)

	if len(pts) < 3 {
		return pts
	}

	// Andrew's monotone chain.
	hull := make([]image.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return hull[:len(hull)-1]
}

// dedupe removes adjacent duplicates from sorted points.
func dedupe(pts []image.Point) []image.Point {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// cross returns the z component of (a->b) x (a->c).
func cross(a, b, c image.Point) int {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// ring converts poly to a closed orb ring.
func ring(poly []image.Point) orb.Ring {
	r := make(orb.Ring, 0, len(poly)+1)
	for _, p := range poly {
		r = append(r, orb.Point{float64(p.X), float64(p.Y)})
	}
	if len(poly) > 0 {
		r = append(r, r[0])
	}
	return r
}

// Area returns the area enclosed by the closed polygon poly. Fewer than
// three vertices enclose nothing.
func Area(poly []image.Point) float64 {
	if len(poly) < 3 {
		return 0
	}
	return math.Abs(planar.Area(ring(poly)))
}

// Perimeter returns the length of the closed polygon poly.
func Perimeter(poly []image.Point) float64 {
	if len(poly) < 2 {
		return 0
	}
	return planar.Length(ring(poly))
}

func distance(a, b image.Point) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// Simplify reduces the closed polygon ring with Douglas-Peucker so that no
// dropped vertex lies farther than epsilon from the simplified outline.
//
// The ring is split at ring[0] and the vertex farthest from it, and each
// half is simplified independently. A non-positive epsilon returns a copy.
func Simplify(poly []image.Point, epsilon float64) []image.Point {
	n := len(poly)
	if n < 3 || epsilon <= 0 {
		out := make([]image.Point, n)
		copy(out, poly)
		return out
	}

	far, maxD := 0, 0.0
	for i, p := range poly {
		if d := distance(poly[0], p); d > maxD {
			far, maxD = i, d
		}
	}
	if far == 0 {
		return []image.Point{poly[0]}
	}

	closed := ring(poly)
	dp := simplify.DouglasPeucker(epsilon)
	first := dp.LineString(append(orb.LineString(nil), closed[:far+1]...))
	second := dp.LineString(append(orb.LineString(nil), closed[far:]...))

	// Both halves keep their end points: drop the shared vertex and the
	// closing copy of poly[0].
	out := make([]image.Point, 0, len(first)+len(second)-2)
	for _, p := range first {
		out = append(out, image.Pt(int(p[0]), int(p[1])))
	}
	for _, p := range second[1 : len(second)-1] {
		out = append(out, image.Pt(int(p[0]), int(p[1])))
	}
	return out
}

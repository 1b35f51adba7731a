// Package detection finds document outlines in a binary edge map using
// pure Go, as an alternative to the OpenCV tracer.
//
// # Algorithm Overview
//
// The pipeline mirrors an external-contour trace followed by polygon
// approximation:
//
//  1. Components: edge pixels are grouped into 8-connected components with
//     an iterative flood fill. Components below MinComponentPixels are noise.
//  2. Outline: each component's outer outline is taken as the convex hull of
//     its pixels. For the convex document shapes this package targets the
//     hull and the traced outer boundary enclose the same area.
//  3. Approximation: the outline is simplified with Douglas-Peucker at a
//     tolerance of ApproxFactor times its perimeter, so a slightly rounded
//     or jagged quadrilateral reduces to four vertices. Simplification,
//     area and perimeter use github.com/paulmach/orb.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Points are reported in the edge map's own coordinate space, including
// any non-zero bounds origin.
//
// # Limitations
//
// Concave outlines are reported by their hull, so their area is
// overestimated. Two documents whose edge bands touch merge into a single
// component.
package detection

package detection

import (
	"fmt"
	"image"

	"github.com/ironsheep/scansense/internal/contour"
)

// MinComponentPixels is the smallest edge component kept as an outline.
const MinComponentPixels = 10

// DefaultApproxFactor scales an outline's perimeter into the Douglas-Peucker
// tolerance.
const DefaultApproxFactor = 0.02

// Tracer finds outlines in an edge map and computes convex hulls.
type Tracer struct {
	ApproxFactor float64
	MinPixels    int
}

// NewTracer returns a Tracer with the default tolerance and noise floor.
func NewTracer() *Tracer {
	return &Tracer{
		ApproxFactor: DefaultApproxFactor,
		MinPixels:    MinComponentPixels,
	}
}

// Contours returns one candidate per edge component. Non-zero pixels are
// edges.
func (t *Tracer) Contours(edges *image.Gray) ([]contour.Candidate, error) {
	if edges == nil {
		return nil, fmt.Errorf("nil edge map")
	}

	components := findComponents(edges, t.MinPixels)
	candidates := make([]contour.Candidate, 0, len(components))

	for _, comp := range components {
		outline := ConvexHull(comp)
		approx := Simplify(outline, t.ApproxFactor*Perimeter(outline))
		candidates = append(candidates, contour.Candidate{
			Points: outline,
			Approx: approx,
			Area:   Area(outline),
		})
	}

	return candidates, nil
}

// Hull returns the convex hull of points.
func (t *Tracer) Hull(points []image.Point) ([]image.Point, error) {
	return ConvexHull(points), nil
}

// findComponents groups the edge pixels of img into 8-connected components
// and drops those smaller than minPixels.
//
// Only the leftmost and rightmost pixel of each row of a component can lie
// on its convex hull, so only those are returned.
func findComponents(img *image.Gray, minPixels int) [][]image.Point {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	visited := make([]bool, width*height)

	isEdge := func(x, y int) bool {
		return img.Pix[y*img.Stride+x] != 0
	}

	components := make([][]image.Point, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || !isEdge(x, y) {
				continue
			}
			rows, count := floodFill(isEdge, visited, x, y, width, height)
			if count < minPixels {
				continue
			}
			components = append(components, rows.extremes(b.Min))
		}
	}

	return components
}

// rowSpan is the horizontal extent of a component on one row.
type rowSpan struct {
	minX, maxX int
}

type rowSpans map[int]rowSpan

func (r rowSpans) add(x, y int) {
	s, ok := r[y]
	if !ok {
		r[y] = rowSpan{minX: x, maxX: x}
		return
	}
	if x < s.minX {
		s.minX = x
	}
	if x > s.maxX {
		s.maxX = x
	}
	r[y] = s
}

func (r rowSpans) extremes(origin image.Point) []image.Point {
	pts := make([]image.Point, 0, 2*len(r))
	for y, s := range r {
		pts = append(pts, image.Pt(s.minX, y).Add(origin))
		if s.maxX != s.minX {
			pts = append(pts, image.Pt(s.maxX, y).Add(origin))
		}
	}
	return pts
}

// floodFill performs an iterative flood fill from (startX, startY) over
// 8-connected edge pixels, marking them visited. It returns the row spans
// of the component and its pixel count.
func floodFill(isEdge func(x, y int) bool, visited []bool, startX, startY, width, height int) (rowSpans, int) {
	rows := make(rowSpans)
	count := 0

	visited[startY*width+startX] = true
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rows.add(p.X, p.Y)
		count++

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				if visited[ny*width+nx] || !isEdge(nx, ny) {
					continue
				}
				visited[ny*width+nx] = true
				stack = append(stack, image.Point{X: nx, Y: ny})
			}
		}
	}

	return rows, count
}

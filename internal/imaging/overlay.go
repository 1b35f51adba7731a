package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/blend"
	"golang.org/x/image/vector"

	"github.com/ironsheep/scansense/internal/guide"
)

// Overlay renders the guidance feedback onto a frame: the guide tick marks
// along the edges, a marker on every hull vertex, the hull outline and a
// translucent fill of the hull.
type Overlay struct {
	TickColor   color.RGBA
	MarkerColor color.RGBA
	HullColor   color.RGBA

	// Alpha is the weight of the filled overlay in the final blend (0-1).
	Alpha float64

	TickThickness int
	MarkerSize    int
	LineThickness int
}

// DefaultOverlay returns white ticks 5px thick, 10px red vertex markers and a
// 2px translucent hull outline blended at 0.5.
func DefaultOverlay() Overlay {
	return Overlay{
		TickColor:     TickColor,
		MarkerColor:   MarkerColor,
		HullColor:     TranslucentColor,
		Alpha:         0.5,
		TickThickness: 5,
		MarkerSize:    10,
		LineThickness: 2,
	}
}

// Render returns a new image with the overlay drawn on a copy of img.
//
// The ticks are drawn first and are therefore part of both blend inputs. The
// vertex markers and outline are drawn on the base, the fill on an overlay
// copy, and the two are blended as Alpha*overlay + (1-Alpha)*base. An empty
// hull leaves only the ticks.
func (o Overlay) Render(img image.Image, ticks []guide.Tick, hull []image.Point) (image.Image, error) {
	base := toRGBA(img)
	z := vector.NewRasterizer(base.Rect.Dx(), base.Rect.Dy())

	segs := make([]segment, 0, len(ticks))
	for _, t := range ticks {
		segs = append(segs, segment{t.A, t.B})
	}
	strokeLines(z, base, segs, o.TickColor, o.TickThickness)

	if len(hull) == 0 {
		return base, nil
	}

	overlay := toRGBA(base)

	for _, p := range hull {
		stamp(base, p, o.MarkerColor, o.MarkerSize)
	}
	segs = segs[:0]
	for i := range hull {
		segs = append(segs, segment{hull[i], hull[(i+1)%len(hull)]})
	}
	strokeLines(z, base, segs, o.HullColor, o.LineThickness)

	fillPolygon(z, overlay, hull, o.HullColor)

	return blend.Opacity(base, overlay, clampUnit(o.Alpha)), nil
}

// toRGBA copies img into a new RGBA image with its origin at (0,0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// stamp fills a size x size square centered on p, clipped to the image.
func stamp(img *image.RGBA, p image.Point, c color.RGBA, size int) {
	if size < 1 {
		size = 1
	}
	half := size / 2
	r := image.Rect(p.X-half, p.Y-half, p.X-half+size, p.Y-half+size).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

type segment struct {
	a, b image.Point
}

// strokeLines draws every segment as a quad of the given thickness with
// square caps, centered on the pixel centers of its end points. A segment
// along a pixel row or column covers the same pixels as a square brush of
// that size. Off-image parts are clipped.
//
// img must have its origin at (0,0); z is reset to img's size.
func strokeLines(z *vector.Rasterizer, img *image.RGBA, segs []segment, c color.RGBA, thickness int) {
	if len(segs) == 0 {
		return
	}
	if thickness < 1 {
		thickness = 1
	}
	z.Reset(img.Rect.Dx(), img.Rect.Dy())

	h := float32(thickness) / 2
	for _, s := range segs {
		ax, ay := float32(s.a.X)+0.5, float32(s.a.Y)+0.5
		bx, by := float32(s.b.X)+0.5, float32(s.b.Y)+0.5

		// u runs along the segment, (-uy, ux) across it, both h long.
		ux, uy := h, float32(0)
		if n := float32(math.Hypot(float64(bx-ax), float64(by-ay))); n > 0 {
			ux, uy = (bx-ax)/n*h, (by-ay)/n*h
		}

		z.MoveTo(ax-ux-uy, ay-uy+ux)
		z.LineTo(bx+ux-uy, by+uy+ux)
		z.LineTo(bx+ux+uy, by+uy-ux)
		z.LineTo(ax-ux+uy, ay-uy-ux)
		z.ClosePath()
	}

	z.Draw(img, img.Rect, image.NewUniform(c), image.Point{})
}

// fillPolygon fills the closed polygon through the pixel centers of poly.
// img must have its origin at (0,0); z is reset to img's size.
func fillPolygon(z *vector.Rasterizer, img *image.RGBA, poly []image.Point, c color.RGBA) {
	if len(poly) < 3 {
		return
	}
	z.Reset(img.Rect.Dx(), img.Rect.Dy())

	z.MoveTo(float32(poly[0].X)+0.5, float32(poly[0].Y)+0.5)
	for _, p := range poly[1:] {
		z.LineTo(float32(p.X)+0.5, float32(p.Y)+0.5)
	}
	z.ClosePath()

	z.Draw(img, img.Rect, image.NewUniform(c), image.Point{})
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

package imaging

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/vector"

	"github.com/ironsheep/scansense/internal/guide"
)

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestOverlay_Ticks(t *testing.T) {
	img := createInMemoryImage(640, 480, color.Black)
	ticks := guide.Ticks(guide.Compute(640, 480, 20, 20), 640, 480, 20)

	out, err := DefaultOverlay().Render(img, ticks, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// First left tick spans y=23..47 at x=0; thickness 5 covers x=0..2.
	if r, g, b := rgbAt(out, 1, 30); r != 255 || g != 255 || b != 255 {
		t.Errorf("tick pixel (1,30): got (%d,%d,%d), want white", r, g, b)
	}

	// Between ticks along the left edge stays background.
	if r, g, b := rgbAt(out, 1, 10); r != 0 || g != 0 || b != 0 {
		t.Errorf("gap pixel (1,10): got (%d,%d,%d), want black", r, g, b)
	}

	// Interior untouched.
	if r, g, b := rgbAt(out, 320, 240); r != 0 || g != 0 || b != 0 {
		t.Errorf("interior pixel: got (%d,%d,%d), want black", r, g, b)
	}
}

func TestOverlay_DoesNotModifyInput(t *testing.T) {
	img := createInMemoryImage(100, 100, color.Black)
	hull := []image.Point{{20, 20}, {80, 20}, {80, 80}, {20, 80}}

	if _, err := DefaultOverlay().Render(img, nil, hull); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if r, g, b := rgbAt(img, 50, 50); r != 0 || g != 0 || b != 0 {
		t.Errorf("input modified at (50,50): got (%d,%d,%d)", r, g, b)
	}
}

func TestOverlay_HullFillBlended(t *testing.T) {
	img := createInMemoryImage(100, 100, color.Black)
	hull := []image.Point{{20, 20}, {80, 20}, {80, 80}, {20, 80}}

	o := DefaultOverlay()
	o.HullColor = color.RGBA{200, 100, 50, 255}
	o.Alpha = 0.5

	out, err := o.Render(img, nil, hull)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Inside the hull: half fill color, half black background.
	r, g, b := rgbAt(out, 50, 50)
	if absInt(int(r)-100) > 2 || absInt(int(g)-50) > 2 || absInt(int(b)-25) > 2 {
		t.Errorf("blended interior: got (%d,%d,%d), want ~(100,50,25)", r, g, b)
	}

	// Outside the hull: untouched background.
	if r, g, b := rgbAt(out, 5, 5); r != 0 || g != 0 || b != 0 {
		t.Errorf("outside pixel: got (%d,%d,%d), want black", r, g, b)
	}
}

func TestOverlay_VertexMarkers(t *testing.T) {
	img := createInMemoryImage(100, 100, color.Black)
	hull := []image.Point{{20, 20}, {80, 20}, {80, 80}, {20, 80}}

	o := DefaultOverlay()
	o.Alpha = 0

	out, err := o.Render(img, nil, hull)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// With Alpha 0 the base shows through: the marker is pure red.
	if r, g, b := rgbAt(out, 16, 16); r != 255 || g != 0 || b != 0 {
		t.Errorf("marker pixel: got (%d,%d,%d), want red", r, g, b)
	}
}

func TestOverlay_OffsetImage(t *testing.T) {
	full := createInMemoryImage(100, 100, color.Black)
	sub := full.SubImage(image.Rect(10, 10, 60, 60))

	out, err := DefaultOverlay().Render(sub, nil, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds: got %v, want (0,0)-(50,50)", out.Bounds())
	}
}

func TestStrokeLines(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	red := color.RGBA{255, 0, 0, 255}

	strokeLines(vector.NewRasterizer(20, 20), img, []segment{{image.Pt(2, 2), image.Pt(17, 12)}}, red, 3)

	// End points and a pixel on the line are fully covered.
	for _, p := range []image.Point{{2, 2}, {11, 8}, {17, 12}} {
		if img.RGBAAt(p.X, p.Y) != red {
			t.Errorf("pixel %v = %v, want red", p, img.RGBAAt(p.X, p.Y))
		}
	}
	if img.RGBAAt(17, 2).A != 0 {
		t.Error("pixel off the line was drawn")
	}
}

func TestStrokeLines_SquareBrush(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	white := color.RGBA{255, 255, 255, 255}

	strokeLines(vector.NewRasterizer(20, 20), img, []segment{{image.Pt(10, 5), image.Pt(10, 14)}}, white, 5)

	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			want := x >= 8 && x <= 12 && y >= 3 && y <= 16
			if got := img.RGBAAt(x, y) == white; got != want {
				t.Fatalf("pixel (%d,%d) drawn = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestStrokeLines_Clipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	white := color.RGBA{255, 255, 255, 255}

	// Centered just outside on the right; must not panic.
	strokeLines(vector.NewRasterizer(10, 10), img, []segment{{image.Pt(10, 0), image.Pt(10, 9)}}, white, 5)

	if img.RGBAAt(9, 5) != white {
		t.Error("thick line at x=10 should bleed into column 9")
	}
	if img.RGBAAt(7, 5).A != 0 {
		t.Error("thick line bled too far")
	}
}

func TestFillPolygon(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	blue := color.RGBA{0, 0, 255, 255}

	fillPolygon(vector.NewRasterizer(20, 20), img, []image.Point{{5, 5}, {15, 5}, {15, 15}, {5, 15}}, blue)

	if img.RGBAAt(10, 10) != blue {
		t.Error("interior not filled")
	}
	if img.RGBAAt(2, 2).A != 0 || img.RGBAAt(17, 17).A != 0 {
		t.Error("exterior filled")
	}
}

func TestFillPolygon_Degenerate(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	fillPolygon(vector.NewRasterizer(10, 10), img, []image.Point{{1, 1}, {8, 8}}, color.RGBA{255, 0, 0, 255})

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if img.RGBAAt(x, y).A != 0 {
				t.Fatalf("degenerate polygon drew at (%d,%d)", x, y)
			}
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

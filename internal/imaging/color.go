package imaging

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Default overlay colors.
var (
	// TickColor draws the guide tick marks.
	TickColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	// MarkerColor draws the hull vertex markers.
	MarkerColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}

	// TranslucentColor outlines and fills the hull before blending.
	TranslucentColor = color.RGBA{R: 80, G: 210, B: 230, A: 255}
)

// ParseColor parses a hex color string like "#50D2E6" or "50d2e6" into an
// opaque RGBA color.
//
// The short form "#RGB" is accepted as well. Alpha is not part of the format;
// overlay translucency is controlled by the blend factor instead.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return color.RGBA{}, fmt.Errorf("invalid hex color length: %q", s)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// HexColor formats an RGBA color as "#RRGGBB", dropping alpha.
func HexColor(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

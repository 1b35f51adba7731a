package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	bildsegment "github.com/anthonynsimon/bild/segment"
)

// SobelEdges builds a binary edge map in pure Go.
//
// It is the cgo-free counterpart of the OpenCV Canny pipeline and follows the
// same shape: grayscale, Gaussian blur, gradient, binarize, then dilate and
// erode to close small gaps in the document outline.
//
// The zero value is not useful; start from DefaultSobelEdges.
type SobelEdges struct {
	// BlurRadius is the Gaussian blur radius applied before the gradient.
	BlurRadius float64

	// Threshold is the gradient level (0-255) at or above which a pixel is
	// an edge.
	Threshold uint8

	// DilateRadius grows edge pixels to bridge gaps. 0 disables dilation.
	DilateRadius float64

	// ErodeRadius shrinks the dilated edges back. 0 disables erosion.
	ErodeRadius float64
}

// DefaultSobelEdges returns settings comparable to a 5x5 blur followed by two
// dilations and one erosion.
func DefaultSobelEdges() SobelEdges {
	return SobelEdges{
		BlurRadius:   1.0,
		Threshold:    48,
		DilateRadius: 2.0,
		ErodeRadius:  1.0,
	}
}

// Edges returns a grayscale image where edge pixels are white (255) and all
// other pixels are black (0).
//
// The result has the same dimensions as img with its origin at (0,0).
//
// # Algorithm
//
//  1. Grayscale conversion (bild effect.Grayscale)
//  2. Gaussian blur with BlurRadius
//  3. Sobel gradient magnitude of the image and of its inverse, merged with
//     a per-pixel maximum. bild clamps negative responses to zero, so a
//     single pass only sees dark-to-bright transitions.
//  4. Binarize at Threshold
//  5. Dilate by DilateRadius, then erode by ErodeRadius
func (s SobelEdges) Edges(img image.Image) (*image.Gray, error) {
	var work image.Image = effect.Grayscale(img)

	if s.BlurRadius > 0 {
		work = blur.Gaussian(work, s.BlurRadius)
	}

	work = blend.Lighten(effect.Sobel(work), effect.Sobel(effect.Invert(work)))
	work = bildsegment.Threshold(work, s.Threshold)

	if s.DilateRadius > 0 {
		work = effect.Dilate(work, s.DilateRadius)
	}
	if s.ErodeRadius > 0 {
		work = effect.Erode(work, s.ErodeRadius)
	}

	return toGray(work), nil
}

// toGray returns img as *image.Gray with its origin at (0,0), converting
// when needed.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

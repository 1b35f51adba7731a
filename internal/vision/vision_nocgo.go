//go:build !cgo

package vision

import (
	"image"
	"time"

	"github.com/ironsheep/scansense/internal/contour"
)

// Camera is unavailable without OpenCV support.
type Camera struct{}

// OpenCamera always fails with ErrUnavailable.
func OpenCamera(index int) (*Camera, error) {
	return nil, ErrUnavailable
}

func (c *Camera) IsOpened() bool                 { return false }
func (c *Camera) Grab() error                    { return ErrUnavailable }
func (c *Camera) Retrieve() (image.Image, error) { return nil, ErrUnavailable }
func (c *Camera) Close() error                   { return nil }

// Canny is unavailable without OpenCV support.
type Canny struct {
	Low, High  float32
	BlurSigma  float64
	KernelSize int
	Dilations  int
	Erosions   int
}

// DefaultCanny returns the same settings as the OpenCV build.
func DefaultCanny() Canny {
	return Canny{Low: 0, High: 255, BlurSigma: 1, KernelSize: 5, Dilations: 2, Erosions: 1}
}

// NewCanny always fails with ErrUnavailable.
func NewCanny() (Canny, error) {
	return Canny{}, ErrUnavailable
}

// Edges always fails with ErrUnavailable.
func (c Canny) Edges(img image.Image) (*image.Gray, error) {
	return nil, ErrUnavailable
}

// Tracer is unavailable without OpenCV support.
type Tracer struct{}

// NewTracer always fails with ErrUnavailable.
func NewTracer() (*Tracer, error) {
	return nil, ErrUnavailable
}

func (t *Tracer) Contours(edges *image.Gray) ([]contour.Candidate, error) {
	return nil, ErrUnavailable
}

func (t *Tracer) Hull(points []image.Point) ([]image.Point, error) {
	return nil, ErrUnavailable
}

// Window is unavailable without OpenCV support.
type Window struct{}

// NewWindow always fails with ErrUnavailable.
func NewWindow(title string) (*Window, error) {
	return nil, ErrUnavailable
}

func (w *Window) Show(img image.Image) error   { return ErrUnavailable }
func (w *Window) WaitKey(d time.Duration) bool { return false }
func (w *Window) Close() error                 { return nil }

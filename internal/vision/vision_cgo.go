//go:build cgo

package vision

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/ironsheep/scansense/internal/contour"
	"gocv.io/x/gocv"
)

// Camera is a capture device backed by an OpenCV VideoCapture.
//
// Grab and Retrieve are called from the acquisition goroutine only; the
// frame buffer is reused between calls.
type Camera struct {
	vc    *gocv.VideoCapture
	frame gocv.Mat
}

// OpenCamera opens the camera at the given device index.
func OpenCamera(index int) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", index, err)
	}
	return &Camera{vc: vc, frame: gocv.NewMat()}, nil
}

// IsOpened reports whether the device is ready to deliver frames.
func (c *Camera) IsOpened() bool {
	return c.vc.IsOpened()
}

// Grab advances the device to the next frame without decoding it.
func (c *Camera) Grab() error {
	c.vc.Grab(1)
	return nil
}

// Retrieve decodes the frame last grabbed into a new RGBA image.
func (c *Camera) Retrieve() (image.Image, error) {
	if ok := c.vc.Retrieve(&c.frame); !ok || c.frame.Empty() {
		return nil, ErrEmptyFrame
	}
	img, err := c.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}

// Close releases the device.
func (c *Camera) Close() error {
	c.frame.Close()
	return c.vc.Close()
}

// Canny builds the edge map with OpenCV: grayscale, Gaussian blur, Canny,
// then dilate and erode with a square kernel to close gaps in the outline.
type Canny struct {
	Low, High  float32
	BlurSigma  float64
	KernelSize int
	Dilations  int
	Erosions   int
}

// DefaultCanny returns a 5x5 blur with sigma 1, Canny thresholds 0/255, a
// 5x5 kernel, two dilations and one erosion.
func DefaultCanny() Canny {
	return Canny{
		Low:        0,
		High:       255,
		BlurSigma:  1,
		KernelSize: 5,
		Dilations:  2,
		Erosions:   1,
	}
}

// NewCanny returns the default OpenCV edge mapper.
func NewCanny() (Canny, error) {
	return DefaultCanny(), nil
}

// Edges returns a binary edge map of img, white on black.
func (c Canny) Edges(img image.Image) (*image.Gray, error) {
	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	ksize := image.Pt(c.KernelSize, c.KernelSize)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, ksize, c.BlurSigma, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blurred, &edges, c.Low, c.High)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, ksize)
	defer kernel.Close()

	work := edges.Clone()
	defer func() { work.Close() }()

	for i := 0; i < c.Dilations; i++ {
		next := gocv.NewMat()
		gocv.Dilate(work, &next, kernel)
		work.Close()
		work = next
	}
	for i := 0; i < c.Erosions; i++ {
		next := gocv.NewMat()
		gocv.Erode(work, &next, kernel)
		work.Close()
		work = next
	}

	out, err := work.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert edge map: %w", err)
	}
	return grayOf(out), nil
}

// Tracer finds external contours in an edge map and computes convex hulls.
type Tracer struct{}

// NewTracer returns an OpenCV contour tracer.
func NewTracer() (*Tracer, error) {
	return &Tracer{}, nil
}

// Contours traces the external contours of edges. Each candidate carries
// its area and its polygon approximation at ApproxFactor x perimeter.
func (t *Tracer) Contours(edges *image.Gray) ([]contour.Candidate, error) {
	m, err := gocv.ImageGrayToMatGray(edges)
	if err != nil {
		return nil, fmt.Errorf("failed to convert edge map: %w", err)
	}
	defer m.Close()

	traced := gocv.FindContours(m, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer traced.Close()

	candidates := make([]contour.Candidate, 0, traced.Size())
	for i := 0; i < traced.Size(); i++ {
		c := traced.At(i)

		perimeter := gocv.ArcLength(c, true)
		approx := gocv.ApproxPolyDP(c, ApproxFactor*perimeter, true)

		candidates = append(candidates, contour.Candidate{
			Points: c.ToPoints(),
			Approx: approx.ToPoints(),
			Area:   gocv.ContourArea(c),
		})
		approx.Close()
	}

	return candidates, nil
}

// Hull returns the convex hull of points as a subset of points.
func (t *Tracer) Hull(points []image.Point) ([]image.Point, error) {
	if len(points) == 0 {
		return nil, nil
	}

	pv := gocv.NewPointVectorFromPoints(points)
	defer pv.Close()

	indices := gocv.NewMat()
	defer indices.Close()
	gocv.ConvexHull(pv, &indices, false, false)

	hull := make([]image.Point, 0, indices.Rows())
	for i := 0; i < indices.Rows(); i++ {
		idx := int(indices.GetIntAt(i, 0))
		if idx < 0 || idx >= len(points) {
			return nil, fmt.Errorf("convex hull index %d out of range", idx)
		}
		hull = append(hull, points[idx])
	}
	return hull, nil
}

// Window is the on-screen preview.
type Window struct {
	w *gocv.Window
}

// NewWindow opens a preview window with the given title.
func NewWindow(title string) (*Window, error) {
	return &Window{w: gocv.NewWindow(title)}, nil
}

// Show displays img.
func (w *Window) Show(img image.Image) error {
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}
	defer m.Close()
	w.w.IMShow(m)
	return nil
}

// WaitKey pumps window events for up to d and reports whether the quit key
// was pressed.
func (w *Window) WaitKey(d time.Duration) bool {
	ms := int(d / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	key := w.w.WaitKey(ms)
	return key == QuitKey || key == QuitKey-'a'+'A'
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.w.Close()
}

// grayOf converts a single-channel image to *image.Gray.
func grayOf(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

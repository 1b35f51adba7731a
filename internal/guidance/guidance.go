// Package guidance runs the per-frame loop that tells an operator how to
// move a document until its whole outline is in view.
//
// Each iteration takes the latest camera frame, builds an edge map, keeps
// the largest document-like contour, reduces it to a convex hull and checks
// the hull against the frame margins. The resulting directional actions are
// logged, and the frame is rendered with the boundary guide and hull
// overlay, saved as an artifact and shown.
//
// # Failure handling
//
// No stage failure stops the loop. Every failure, including a panic in an
// external capability, becomes a *Skip carrying the stage Reason and the
// underlying error. Skips are logged only in debug mode.
package guidance

import (
	"image"
	"time"

	"github.com/ironsheep/scansense/internal/capture"
	"github.com/ironsheep/scansense/internal/contour"
	"github.com/ironsheep/scansense/internal/guide"
	"github.com/ironsheep/scansense/internal/violation"
)

// FrameSource supplies the most recent frame without blocking.
type FrameSource interface {
	Latest() capture.Frame
}

// EdgeMapper turns a frame into a binary edge map.
type EdgeMapper interface {
	Edges(img image.Image) (*image.Gray, error)
}

// Tracer finds outer contours in an edge map and computes convex hulls.
type Tracer interface {
	Contours(edges *image.Gray) ([]contour.Candidate, error)
	Hull(points []image.Point) ([]image.Point, error)
}

// Renderer draws the boundary guide and hull overlay onto a copy of a frame.
type Renderer interface {
	Render(img image.Image, ticks []guide.Tick, hull []image.Point) (image.Image, error)
}

// ArtifactSink stores a rendered frame and returns where it went.
type ArtifactSink interface {
	Write(img image.Image, at time.Time) (string, error)
}

// Display shows rendered frames and reports the quit key.
//
// WaitKey blocks for up to d and returns true if the operator asked to quit.
type Display interface {
	Show(img image.Image) error
	WaitKey(d time.Duration) bool
}

// Logger is the subset of the run logger the loop writes to.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Config holds the loop parameters.
type Config struct {
	// ThresholdArea is the area a contour must exceed to be a document.
	ThresholdArea float64

	// Margin is the distance from the frame edge inside which a hull
	// point counts as a violation.
	Margin int

	// PixelBoundary is reported in the log only.
	PixelBoundary int

	// Segments and Gap shape the boundary guide tick marks.
	Segments int
	Gap      int

	// ResizeWidth scales every frame to this width first; 0 keeps the
	// camera size.
	ResizeWidth int

	// Wait is how long each iteration waits for the quit key.
	Wait time.Duration

	// FPSWindow is the number of samples in the rolling FPS mean.
	FPSWindow int

	// Debug enables skip logging.
	Debug bool
}

// DefaultConfig returns the standard loop parameters.
func DefaultConfig() Config {
	return Config{
		ThresholdArea: 15000,
		Margin:        10,
		PixelBoundary: 40,
		Segments:      20,
		Gap:           20,
		Wait:          200 * time.Millisecond,
		FPSWindow:     30,
	}
}

// Report describes one completed iteration.
type Report struct {
	Seq             uint64
	Width           int
	Height          int
	AspectRatio     float64
	PixelBoundary   int
	Margin          int
	Candidates      int
	HullPoints      int
	MaxArea         float64
	Action          violation.Set
	ViolatingPoints int
	FPS             float64
	Ready           bool
	Artifact        string
}

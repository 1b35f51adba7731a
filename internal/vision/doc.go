// Package vision adapts OpenCV (via gocv) to the capabilities the guidance
// pipeline consumes: the camera device, the Canny edge map, contour tracing
// with polygon approximation and convex hull, and the preview window.
//
// # Prerequisites
//
// OpenCV 4 and its development headers must be installed, and the binary
// must be built with CGO enabled:
//   - Ubuntu/Debian: apt-get install libopencv-dev
//   - macOS: brew install opencv
//
// Without CGO every constructor and operation returns ErrUnavailable, so
// the rest of the module still builds and the pure-Go edge map and replay
// device remain usable.
//
// # Ownership
//
// Images returned by this package are fresh Go images; no OpenCV memory
// escapes an operation.
package vision

import "errors"

// ErrUnavailable is returned by every operation when the binary was built
// without OpenCV support.
var ErrUnavailable = errors.New("vision: OpenCV support not compiled in (build with CGO_ENABLED=1)")

// ErrEmptyFrame is returned when the camera produced no decodable frame.
var ErrEmptyFrame = errors.New("vision: empty frame")

// ApproxFactor scales a contour's perimeter into the polygon approximation
// tolerance.
const ApproxFactor = 0.02

// QuitKey ends the preview loop when pressed in the window.
const QuitKey = 'q'

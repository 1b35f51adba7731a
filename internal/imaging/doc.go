// Package imaging provides the pure-Go image operations of the guidance
// pipeline: loading frame files, a Sobel-based edge map, overlay rendering,
// color parsing, resizing and artifact writing.
//
// All operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Every other operation is
// stateless and never modifies its input image: rendering draws on a copy.
//
// # Libraries
//
//   - github.com/disintegration/imaging: file decoding with EXIF orientation,
//     JPEG encoding and resizing
//   - github.com/anthonynsimon/bild: grayscale, blur, Sobel, threshold,
//     dilate/erode and opacity blending
//   - golang.org/x/image/vector: overlay line and polygon rasterization
//   - github.com/lucasb-eyer/go-colorful: hex color parsing
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Malformed hex colors
//   - File I/O errors during frame loading or artifact writing
//   - Encoding errors during image output
package imaging

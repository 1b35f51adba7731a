package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
)

// ArtifactWriter saves one JPEG per processed frame into a directory.
//
// File names are the frame time in fractional Unix seconds, e.g.
// "1688745600.123456.jpg", so a directory listing sorts in capture order.
type ArtifactWriter struct {
	Dir     string
	Quality int
}

// NewArtifactWriter creates dir if absent and returns a writer for it.
// A quality outside 1-100 falls back to 90.
func NewArtifactWriter(dir string, quality int) (*ArtifactWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if quality < 1 || quality > 100 {
		quality = 90
	}
	return &ArtifactWriter{Dir: dir, Quality: quality}, nil
}

// Write encodes img as JPEG named after at and returns the file path.
func (w *ArtifactWriter) Write(img image.Image, at time.Time) (string, error) {
	path := filepath.Join(w.Dir, ArtifactName(at))
	if err := imaging.Save(img, path, imaging.JPEGQuality(w.Quality)); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

// ArtifactName returns the file name for a frame taken at t.
func ArtifactName(t time.Time) string {
	secs := float64(t.UnixNano()) / float64(time.Second)
	return strconv.FormatFloat(secs, 'f', 6, 64) + ".jpg"
}

// FitWidth scales img to the given width, keeping its aspect ratio.
//
// Images already at that width, and non-positive widths, are returned
// unchanged.
func FitWidth(img image.Image, width int) image.Image {
	if width <= 0 || img.Bounds().Dx() == width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// Package config resolves run settings from defaults, an optional YAML
// file, command-line flags and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/scansense/internal/capture"
	"github.com/ironsheep/scansense/internal/guidance"
	"github.com/ironsheep/scansense/internal/imaging"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Edge map backends.
const (
	EdgesCanny = "canny"
	EdgesSobel = "sobel"
)

// Contour tracers.
const (
	TracerOpenCV = "opencv"
	TracerNative = "native"
)

// LogLevelEnv enables debug mode when set to "debug".
const LogLevelEnv = "SCANSENSE_LOG_LEVEL"

// Config holds the full scansense configuration.
type Config struct {
	Debug    bool   `yaml:"debug"`
	Headless bool   `yaml:"headless"`
	Device   int    `yaml:"device"`
	Replay   string `yaml:"replay"`      // directory of frames to play instead of a camera
	Loop     bool   `yaml:"replay_loop"` // restart the replay at the end
	Edges    string `yaml:"edges"`       // canny | sobel
	Tracer   string `yaml:"tracer"`      // opencv | native

	ThresholdArea   float64 `yaml:"threshold_area"`
	Margin          int     `yaml:"margin"`
	PixelBoundary   int     `yaml:"pixel_boundary"`
	Segments        int     `yaml:"segments"`
	IntermediateGap int     `yaml:"intermediate_gap"`
	ResizeWidth     int     `yaml:"resize_width"`
	FPSWindow       int     `yaml:"fps_window"`

	Alpha        float64 `yaml:"alpha"`
	OverlayColor string  `yaml:"overlay_color"`

	Warmup       time.Duration `yaml:"warmup"`
	GrabInterval time.Duration `yaml:"grab_interval"`
	Wait         time.Duration `yaml:"wait"`

	OutputDir   string `yaml:"output_dir"`
	LogDir      string `yaml:"log_dir"`
	JPEGQuality int    `yaml:"jpeg_quality"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Device:          0,
		Edges:           EdgesCanny,
		Tracer:          TracerOpenCV,
		ThresholdArea:   15000,
		Margin:          10,
		PixelBoundary:   40,
		Segments:        20,
		IntermediateGap: 20,
		FPSWindow:       30,
		Alpha:           0.5,
		OverlayColor:    "#50D2E6",
		Warmup:          2 * time.Second,
		GrabInterval:    5 * time.Millisecond,
		Wait:            200 * time.Millisecond,
		OutputDir:       "outputs",
		LogDir:          "logs",
		JPEGQuality:     90,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values, unknown keys are an error and an empty file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies environment overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv(LogLevelEnv) == "debug" {
		c.Debug = true
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalid}, args...)...))
	}

	if c.Device < 0 {
		bad("device must be >= 0, got %d", c.Device)
	}
	switch c.Edges {
	case EdgesCanny, EdgesSobel:
	default:
		bad("unsupported edges %q (use %s or %s)", c.Edges, EdgesCanny, EdgesSobel)
	}
	switch c.Tracer {
	case TracerOpenCV, TracerNative:
	default:
		bad("unsupported tracer %q (use %s or %s)", c.Tracer, TracerOpenCV, TracerNative)
	}
	if c.ThresholdArea < 0 {
		bad("threshold_area must be >= 0, got %v", c.ThresholdArea)
	}
	if c.Margin < 0 {
		bad("margin must be >= 0, got %d", c.Margin)
	}
	if c.Segments < 1 {
		bad("segments must be >= 1, got %d", c.Segments)
	}
	if c.IntermediateGap < 0 {
		bad("intermediate_gap must be >= 0, got %d", c.IntermediateGap)
	}
	if c.ResizeWidth < 0 {
		bad("resize_width must be >= 0, got %d", c.ResizeWidth)
	}
	if c.FPSWindow < 1 {
		bad("fps_window must be >= 1, got %d", c.FPSWindow)
	}
	if c.Alpha < 0 || c.Alpha > 1 {
		bad("alpha must be within [0, 1], got %v", c.Alpha)
	}
	if _, err := imaging.ParseColor(c.OverlayColor); err != nil {
		bad("overlay_color: %v", err)
	}
	if c.Warmup < 0 {
		bad("warmup must be >= 0, got %v", c.Warmup)
	}
	if c.GrabInterval <= 0 {
		bad("grab_interval must be > 0, got %v", c.GrabInterval)
	}
	if c.Wait <= 0 {
		bad("wait must be > 0, got %v", c.Wait)
	}
	if c.OutputDir == "" {
		bad("output_dir is required")
	}
	if c.LogDir == "" {
		bad("log_dir is required")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		bad("jpeg_quality must be within [1, 100], got %d", c.JPEGQuality)
	}

	return errors.Join(errs...)
}

// Guidance returns the loop parameters.
func (c *Config) Guidance() guidance.Config {
	return guidance.Config{
		ThresholdArea: c.ThresholdArea,
		Margin:        c.Margin,
		PixelBoundary: c.PixelBoundary,
		Segments:      c.Segments,
		Gap:           c.IntermediateGap,
		ResizeWidth:   c.ResizeWidth,
		Wait:          c.Wait,
		FPSWindow:     c.FPSWindow,
		Debug:         c.Debug,
	}
}

// Capture returns the frame source options.
func (c *Config) Capture() capture.Options {
	return capture.Options{
		Warmup:   c.Warmup,
		Interval: c.GrabInterval,
	}
}

// Overlay returns the renderer with the configured hull color and blend
// weight.
func (c *Config) Overlay() (imaging.Overlay, error) {
	hull, err := imaging.ParseColor(c.OverlayColor)
	if err != nil {
		return imaging.Overlay{}, fmt.Errorf("%w: overlay_color: %v", ErrInvalid, err)
	}
	o := imaging.DefaultOverlay()
	o.HullColor = hull
	o.Alpha = c.Alpha
	return o, nil
}

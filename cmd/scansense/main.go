package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/scansense/internal/capture"
	"github.com/ironsheep/scansense/internal/config"
	"github.com/ironsheep/scansense/internal/detection"
	"github.com/ironsheep/scansense/internal/guidance"
	"github.com/ironsheep/scansense/internal/imaging"
	"github.com/ironsheep/scansense/internal/runlog"
	"github.com/ironsheep/scansense/internal/vision"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const windowTitle = "Display"

// OpenCV's highgui must run on the main OS thread on macOS.
func init() {
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			printVersion(os.Stdout)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	os.Exit(run(os.Args[1:]))
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "scansense %s\n", Version)
	fmt.Fprintf(w, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "scansense - live guidance for placing a document in front of a camera")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: scansense [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fs := flag.NewFlagSet("scansense", flag.ContinueOnError)
	config.BindFlags(fs)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Enable debug logging\n", config.LogLevelEnv)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press q in the preview window to quit, or Ctrl-C when running headless.")
}

// run is main without the exit, so deferred cleanup always happens.
func run(args []string) int {
	fs := flag.NewFlagSet("scansense", flag.ContinueOnError)
	cfg, flags, err := config.Resolve(fs, args, os.Getenv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "scansense: %v\n", err)
		return 1
	}
	if flags.Version {
		printVersion(os.Stdout)
		return 0
	}

	lg, logPath, err := runlog.Create(cfg.LogDir, os.Stderr, cfg.Debug, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "scansense: %v\n", err)
		return 1
	}
	defer lg.Close()

	lg.Infof("scansense %s (built %s, commit %s) session %s", Version, BuildTime, GitCommit, uuid.New())
	lg.Infof("Log file             : %s", logPath)
	lg.Debugf("Config               : %+v", *cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := guide(ctx, cfg, lg); err != nil {
		lg.Errorf("%v", err)
		return 1
	}
	return 0
}

// guide wires the capabilities selected by cfg and runs the guidance loop
// until quit. The frame source is opened last so a bad setting fails before
// the camera is claimed and warmed up.
func guide(ctx context.Context, cfg *config.Config, lg *runlog.Logger) error {
	edges, err := newEdgeMapper(cfg)
	if err != nil {
		return err
	}

	tracer, err := newTracer(cfg)
	if err != nil {
		return err
	}

	overlay, err := cfg.Overlay()
	if err != nil {
		return err
	}

	sink, err := imaging.NewArtifactWriter(cfg.OutputDir, cfg.JPEGQuality)
	if err != nil {
		return err
	}

	deps := guidance.Deps{
		Edges:    edges,
		Tracer:   tracer,
		Renderer: overlay,
		Sink:     sink,
		Log:      lg,
	}

	if !cfg.Headless {
		win, err := vision.NewWindow(windowTitle)
		if err != nil {
			return fmt.Errorf("failed to open display (use -headless to run without one): %w", err)
		}
		defer win.Close()
		deps.Display = win
	}

	dev, err := openDevice(cfg)
	if err != nil {
		return err
	}

	src, err := capture.Open(ctx, dev, cfg.Capture())
	if err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			lg.Errorf("failed to close device: %v", err)
		}
		st := src.Stats()
		lg.Infof("Frames grabbed %d, dropped %d, errors %d", st.Grabbed, st.Dropped, st.Errors)
	}()
	deps.Source = src

	loop, err := guidance.New(cfg.Guidance(), deps)
	if err != nil {
		return err
	}
	return loop.Run(ctx)
}

func openDevice(cfg *config.Config) (capture.Device, error) {
	if cfg.Replay != "" {
		dev, err := capture.OpenDir(cfg.Replay, cfg.Loop)
		if err != nil {
			return nil, err
		}
		return dev, nil
	}

	cam, err := vision.OpenCamera(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", cfg.Device, err)
	}
	return cam, nil
}

func newEdgeMapper(cfg *config.Config) (guidance.EdgeMapper, error) {
	if cfg.Edges == config.EdgesSobel {
		return imaging.DefaultSobelEdges(), nil
	}
	c, err := vision.NewCanny()
	if err != nil {
		return nil, fmt.Errorf("failed to create edge mapper (use -edges sobel without OpenCV): %w", err)
	}
	return c, nil
}

func newTracer(cfg *config.Config) (guidance.Tracer, error) {
	if cfg.Tracer == config.TracerNative {
		return detection.NewTracer(), nil
	}
	t, err := vision.NewTracer()
	if err != nil {
		return nil, fmt.Errorf("failed to create contour tracer (use -tracer native without OpenCV): %w", err)
	}
	return t, nil
}

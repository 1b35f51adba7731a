package guidance

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/ironsheep/scansense/internal/capture"
	"github.com/ironsheep/scansense/internal/contour"
	"github.com/ironsheep/scansense/internal/guide"
	"github.com/ironsheep/scansense/internal/imaging"
	"github.com/ironsheep/scansense/internal/violation"
)

// ReadyBanner is logged when the document is fully in view.
const ReadyBanner = "---------------------------- CAPTURE THE FRAME AND USE IT FOR OCR. ----------------------------"

const separator = "-----------------------------------------------------------------------------------------------"

// Deps are the capabilities a Loop drives. Display may be nil for headless
// runs; everything else is required.
type Deps struct {
	Source   FrameSource
	Edges    EdgeMapper
	Tracer   Tracer
	Renderer Renderer
	Sink     ArtifactSink
	Display  Display
	Log      Logger
}

// Loop is the guidance loop. It is driven from a single goroutine.
type Loop struct {
	cfg  Config
	deps Deps

	memo *guide.Memo
	fps  *FPS
	now  func() time.Time
}

// New returns a Loop over deps.
func New(cfg Config, deps Deps) (*Loop, error) {
	switch {
	case deps.Source == nil:
		return nil, fmt.Errorf("guidance: frame source is required")
	case deps.Edges == nil:
		return nil, fmt.Errorf("guidance: edge mapper is required")
	case deps.Tracer == nil:
		return nil, fmt.Errorf("guidance: tracer is required")
	case deps.Renderer == nil:
		return nil, fmt.Errorf("guidance: renderer is required")
	case deps.Sink == nil:
		return nil, fmt.Errorf("guidance: artifact sink is required")
	case deps.Log == nil:
		return nil, fmt.Errorf("guidance: logger is required")
	}

	return &Loop{
		cfg:  cfg,
		deps: deps,
		memo: guide.NewMemo(cfg.Segments, cfg.Gap),
		fps:  NewFPS(cfg.FPSWindow),
		now:  time.Now,
	}, nil
}

// Run iterates until the quit key is pressed or ctx is done. Per-frame
// failures never end the loop, so Run only returns nil.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		rep, err := l.Iterate()
		if err != nil {
			if l.cfg.Debug {
				l.deps.Log.Errorf("Error Code : %v", err)
			}
		} else {
			l.logResult(rep)
		}

		if l.wait(ctx) {
			return nil
		}
	}
}

// wait pauses between iterations and reports whether the loop should stop.
func (l *Loop) wait(ctx context.Context) bool {
	if l.deps.Display != nil {
		if l.deps.Display.WaitKey(l.cfg.Wait) {
			return true
		}
		return ctx.Err() != nil
	}

	timer := time.NewTimer(l.cfg.Wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-timer.C:
		return false
	}
}

// Iterate processes the latest frame once. A non-nil error is always a
// *Skip; a panic in any stage is recovered as ReasonPanic.
func (l *Loop) Iterate() (rep Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			rep = Report{}
			err = skip(ReasonPanic, fmt.Errorf("%v", r))
		}
	}()
	return l.iterate()
}

func (l *Loop) iterate() (Report, error) {
	start := l.now()

	frame := l.deps.Source.Latest()
	if frame.Empty() {
		return Report{}, skip(ReasonNoFrame, capture.ErrNoFrame)
	}

	img := imaging.FitWidth(frame.Image, l.cfg.ResizeWidth)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	rep := Report{
		Seq:           frame.Seq,
		Width:         w,
		Height:        h,
		AspectRatio:   float64(w) / float64(h),
		PixelBoundary: l.cfg.PixelBoundary,
		Margin:        l.cfg.Margin,
	}
	l.logFrame(rep)

	geom := l.memo.Get(w, h)

	edges, err := l.deps.Edges.Edges(img)
	if err != nil {
		return rep, skip(ReasonEdgeMap, err)
	}

	candidates, err := l.deps.Tracer.Contours(edges)
	if err != nil {
		return rep, skip(ReasonContours, err)
	}
	sel := contour.SelectMax(candidates, l.cfg.ThresholdArea)
	rep.Candidates = len(candidates)
	rep.MaxArea = sel.Area

	var hull []image.Point
	if !sel.IsEmpty() {
		hull, err = l.deps.Tracer.Hull(sel.Polygon)
		if err != nil {
			return rep, skip(ReasonHull, err)
		}
	}
	rep.HullPoints = len(hull)

	res := violation.Evaluate(hull, w, h, l.cfg.Margin)
	rep.Action = res.Set
	rep.ViolatingPoints = res.ViolatingPoints
	rep.Ready = res.Set.Empty() && !sel.IsEmpty()

	out, err := l.deps.Renderer.Render(img, guide.Ticks(geom, w, h, l.cfg.Segments), hull)
	if err != nil {
		return rep, skip(ReasonRender, err)
	}

	rep.FPS = l.fps.Add(l.now().Sub(start))

	path, err := l.deps.Sink.Write(out, l.now())
	if err != nil {
		return rep, skip(ReasonArtifact, err)
	}
	rep.Artifact = path

	if l.deps.Display != nil {
		if err := l.deps.Display.Show(out); err != nil {
			return rep, skip(ReasonDisplay, err)
		}
	}

	return rep, nil
}

func (l *Loop) logFrame(rep Report) {
	lg := l.deps.Log
	lg.Infof("Image Dimensions     : (%d, %d)", rep.Width, rep.Height)
	lg.Infof("Aspect Ratio         : %v", rep.AspectRatio)
	lg.Infof("Pixel Boundary       : %d", rep.PixelBoundary)
	lg.Infof("Margin               : %d", rep.Margin)
}

func (l *Loop) logResult(rep Report) {
	lg := l.deps.Log
	lg.Infof("Num. of Contours     : %d", rep.Candidates)
	lg.Infof("Hull Points          : %d", rep.HullPoints)
	lg.Infof("Max Area             : %v", rep.MaxArea)
	lg.Infof("Action               : %s", rep.Action)
	if !rep.Action.Empty() {
		lg.Infof("Guidance             : %s", strings.Join(rep.Action.Instructions(), ", "))
	}
	lg.Infof("FPS                  : %v", rep.FPS)
	if rep.Ready {
		lg.Infof(ReadyBanner)
	}
	lg.Infof(separator)
}

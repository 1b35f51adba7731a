package guidance

import (
	"errors"
	"fmt"
)

// Reason names the stage at which an iteration was skipped.
type Reason string

const (
	ReasonNoFrame  Reason = "no_frame"
	ReasonEdgeMap  Reason = "edge_map"
	ReasonContours Reason = "contours"
	ReasonHull     Reason = "hull"
	ReasonRender   Reason = "render"
	ReasonArtifact Reason = "artifact"
	ReasonDisplay  Reason = "display"
	ReasonPanic    Reason = "panic"
)

// Skip is the error returned for an abandoned iteration.
type Skip struct {
	Reason Reason
	Err    error
}

func (s *Skip) Error() string {
	if s.Err == nil {
		return fmt.Sprintf("frame skipped (%s)", s.Reason)
	}
	return fmt.Sprintf("frame skipped (%s): %v", s.Reason, s.Err)
}

func (s *Skip) Unwrap() error {
	return s.Err
}

func skip(reason Reason, err error) *Skip {
	return &Skip{Reason: reason, Err: err}
}

// SkipReason returns the Reason carried by err, or "" if err is not a Skip.
func SkipReason(err error) Reason {
	var s *Skip
	if errors.As(err, &s) {
		return s.Reason
	}
	return ""
}

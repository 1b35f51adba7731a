package guidance

import (
	"errors"
	"fmt"
	"testing"
)

func TestSkip_Error(t *testing.T) {
	tests := []struct {
		skip *Skip
		want string
	}{
		{&Skip{Reason: ReasonHull}, "frame skipped (hull)"},
		{&Skip{Reason: ReasonRender, Err: errors.New("bad")}, "frame skipped (render): bad"},
	}
	for _, tt := range tests {
		if got := tt.skip.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestSkipReason(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", skip(ReasonContours, errors.New("x")))
	if got := SkipReason(wrapped); got != ReasonContours {
		t.Errorf("SkipReason = %q, want %q", got, ReasonContours)
	}
	if got := SkipReason(errors.New("plain")); got != "" {
		t.Errorf("SkipReason(plain) = %q, want empty", got)
	}
	if got := SkipReason(nil); got != "" {
		t.Errorf("SkipReason(nil) = %q, want empty", got)
	}
}

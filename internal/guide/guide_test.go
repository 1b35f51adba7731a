package guide

import (
	"image"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		segments, gap int
		want          Geometry
	}{
		{"vga", 640, 480, 20, 20, Geometry{DistX: 32, DistY: 24, InterX: 31, InterY: 23}},
		{"hd", 1280, 720, 20, 20, Geometry{DistX: 64, DistY: 36, InterX: 63, InterY: 35}},
		{"truncates", 101, 99, 10, 5, Geometry{DistX: 10, DistY: 9, InterX: 9, InterY: 9}},
		{"zero segments", 640, 480, 0, 20, Geometry{}},
		{"negative segments", 640, 480, -3, 20, Geometry{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.width, tt.height, tt.segments, tt.gap)
			if got != tt.want {
				t.Errorf("Compute(%d, %d, %d, %d) = %+v, want %+v",
					tt.width, tt.height, tt.segments, tt.gap, got, tt.want)
			}
		})
	}
}

func TestCompute_Pure(t *testing.T) {
	first := Compute(640, 480, 20, 20)
	for i := 0; i < 10; i++ {
		if got := Compute(640, 480, 20, 20); got != first {
			t.Fatalf("call %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestTicks(t *testing.T) {
	g := Compute(640, 480, 20, 20)
	ticks := Ticks(g, 640, 480, 20)

	if len(ticks) != 4*19 {
		t.Fatalf("len(ticks) = %d, want %d", len(ticks), 4*19)
	}

	// First tick on the left edge: inter_y*1 + dist_y*0 to inter_y*1 + dist_y*1
	left := ticks[0]
	if left.A != image.Pt(0, 23) || left.B != image.Pt(0, 47) {
		t.Errorf("first left tick = %v-%v, want (0,23)-(0,47)", left.A, left.B)
	}

	right := ticks[19]
	if right.A.X != 640 || right.B.X != 640 {
		t.Errorf("right tick x = %d/%d, want 640", right.A.X, right.B.X)
	}

	top := ticks[38]
	if top.A != image.Pt(31, 0) || top.B != image.Pt(63, 0) {
		t.Errorf("first top tick = %v-%v, want (31,0)-(63,0)", top.A, top.B)
	}

	// Second bottom tick: inter_x*2 + dist_x*1 to inter_x*2 + dist_x*2
	bottom := ticks[58]
	if bottom.A != image.Pt(94, 480) || bottom.B != image.Pt(126, 480) {
		t.Errorf("second bottom tick = %v-%v, want (94,480)-(126,480)", bottom.A, bottom.B)
	}
}

func TestTicks_TooFewSegments(t *testing.T) {
	for _, segments := range []int{-1, 0, 1} {
		if ticks := Ticks(Compute(640, 480, segments, 20), 640, 480, segments); len(ticks) != 0 {
			t.Errorf("segments=%d: got %d ticks, want 0", segments, len(ticks))
		}
	}
}

func TestMemo_ComputesOnce(t *testing.T) {
	m := NewMemo(20, 20)

	first := m.Get(640, 480)
	want := Geometry{DistX: 32, DistY: 24, InterX: 31, InterY: 23}
	if first != want {
		t.Fatalf("first Get = %+v, want %+v", first, want)
	}

	// A later frame size does not change the memoized value.
	if got := m.Get(1920, 1080); got != want {
		t.Errorf("second Get = %+v, want memoized %+v", got, want)
	}
}

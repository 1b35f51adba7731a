package guidance

import (
	"math"
	"time"
)

// FPS keeps a rolling mean of per-iteration frame rates.
//
// Each sample is the whole number of frames per second an iteration's
// duration corresponds to. Only the last window samples count.
type FPS struct {
	samples []float64
	next    int
	full    bool
	sum     float64
}

// NewFPS returns a rolling mean over window samples. A window below 1 is
// treated as 1.
func NewFPS(window int) *FPS {
	if window < 1 {
		window = 1
	}
	return &FPS{samples: make([]float64, window)}
}

// Add records an iteration that took elapsed and returns the updated mean.
// Non-positive durations are ignored.
func (f *FPS) Add(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return f.Mean()
	}

	v := math.Floor(float64(time.Second) / float64(elapsed))
	f.sum += v - f.samples[f.next]
	f.samples[f.next] = v
	f.next++
	if f.next == len(f.samples) {
		f.next = 0
		f.full = true
	}
	return f.Mean()
}

// Mean returns the current rolling mean, 0 before any sample.
func (f *FPS) Mean() float64 {
	n := f.next
	if f.full {
		n = len(f.samples)
	}
	if n == 0 {
		return 0
	}
	return f.sum / float64(n)
}

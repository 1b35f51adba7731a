// Package capture keeps the most recent camera frame available without
// making consumers wait on device I/O.
//
// A Source owns exactly one background goroutine that grabs frames from a
// Device into a single-slot buffer. There is no queue and no backpressure:
// when the consumer is slow the slot is overwritten and the older frame is
// dropped silently. Latest returns whatever frame completed last, even if
// the consumer has already seen it.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"
)

// ErrNoFrame is reported when no frame has been acquired yet, or the frame
// is empty.
var ErrNoFrame = errors.New("no frame available")

// Device is the image-acquisition capability a Source reads from.
//
// Grab advances to the next frame without decoding it and Retrieve decodes
// the frame last grabbed. The Source hands retrieved images to consumers
// without copying, so a device must never modify an image after returning
// it.
type Device interface {
	IsOpened() bool
	Grab() error
	Retrieve() (image.Image, error)
	Close() error
}

// Frame is one acquired image.
//
// Image must be treated as read-only by every consumer.
type Frame struct {
	Image     image.Image
	Seq       uint64
	Timestamp time.Time
}

// Empty reports whether the frame carries no pixels.
func (f Frame) Empty() bool {
	return f.Image == nil || f.Image.Bounds().Empty()
}

// Size returns the frame width and height, zero for an empty frame.
func (f Frame) Size() (width, height int) {
	if f.Image == nil {
		return 0, 0
	}
	b := f.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Options tunes a Source.
type Options struct {
	// Warmup is how long Open blocks so the device can stabilize.
	Warmup time.Duration

	// Interval is the pause between grabs, so the loop does not saturate
	// the device.
	Interval time.Duration
}

// DefaultOptions returns a 2s warm-up and a 5ms grab interval.
func DefaultOptions() Options {
	return Options{
		Warmup:   2 * time.Second,
		Interval: 5 * time.Millisecond,
	}
}

// Stats are acquisition counters. Dropped counts frames overwritten before
// Latest observed them.
type Stats struct {
	Grabbed uint64 `json:"grabbed"`
	Dropped uint64 `json:"dropped"`
	Errors  uint64 `json:"errors"`
}

// Source runs background acquisition from a Device.
type Source struct {
	dev  Device
	opts Options

	mu       sync.Mutex // protects slot, seen
	slot     Frame
	seen     bool
	seq      uint64
	grabbed  uint64 // atomic
	dropped  uint64 // atomic
	errCount uint64 // atomic

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// Open starts background acquisition from dev and blocks for the warm-up
// delay before returning.
//
// The acquisition goroutine stops when ctx is cancelled or Close is called.
// If ctx is cancelled during warm-up, the source is closed and ctx.Err() is
// returned.
func Open(ctx context.Context, dev Device, opts Options) (*Source, error) {
	if dev == nil {
		return nil, fmt.Errorf("capture: nil device")
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultOptions().Interval
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s := &Source{
		dev:    dev,
		opts:   opts,
		cancel: cancel,
	}

	s.wg.Add(1)
	go s.run(loopCtx)

	if opts.Warmup > 0 {
		timer := time.NewTimer(opts.Warmup)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			s.Close()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return s, nil
}

func (s *Source) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s.dev.IsOpened() {
			s.acquire()
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Source) acquire() {
	if err := s.dev.Grab(); err != nil {
		atomic.AddUint64(&s.errCount, 1)
		return
	}
	img, err := s.dev.Retrieve()
	if err != nil || img == nil {
		atomic.AddUint64(&s.errCount, 1)
		return
	}
	atomic.AddUint64(&s.grabbed, 1)

	s.mu.Lock()
	if s.slot.Image != nil && !s.seen {
		atomic.AddUint64(&s.dropped, 1)
	}
	s.seq++
	s.slot = Frame{Image: img, Seq: s.seq, Timestamp: time.Now()}
	s.seen = false
	s.mu.Unlock()
}

// Latest returns the most recently completed frame, or the zero Frame if
// none has been acquired. It never waits on the device.
func (s *Source) Latest() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = true
	return s.slot
}

// Stats returns a snapshot of the acquisition counters.
func (s *Source) Stats() Stats {
	return Stats{
		Grabbed: atomic.LoadUint64(&s.grabbed),
		Dropped: atomic.LoadUint64(&s.dropped),
		Errors:  atomic.LoadUint64(&s.errCount),
	}
}

// Close stops the acquisition goroutine, waits for it to exit and then
// releases the device. It is safe to call more than once.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.closeErr = s.dev.Close()
	})
	return s.closeErr
}

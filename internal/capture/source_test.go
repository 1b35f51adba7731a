package capture

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeDevice produces numbered 4x4 frames. The frame number is encoded in
// the width so tests can tell frames apart.
type fakeDevice struct {
	opened   atomic.Bool
	grabs    atomic.Int64
	failGrab atomic.Bool
	closed   atomic.Bool

	mu  sync.Mutex
	cur int
}

func newFakeDevice() *fakeDevice {
	d := &fakeDevice{}
	d.opened.Store(true)
	return d
}

func (d *fakeDevice) IsOpened() bool { return d.opened.Load() && !d.closed.Load() }

func (d *fakeDevice) Grab() error {
	if d.closed.Load() {
		return errors.New("grab after close")
	}
	if d.failGrab.Load() {
		return errors.New("device error")
	}
	n := d.grabs.Add(1)
	d.mu.Lock()
	d.cur = int(n)
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) Retrieve() (image.Image, error) {
	if d.closed.Load() {
		return nil, errors.New("retrieve after close")
	}
	d.mu.Lock()
	n := d.cur
	d.mu.Unlock()
	return image.NewRGBA(image.Rect(0, 0, n, 4)), nil
}

func (d *fakeDevice) Close() error {
	d.closed.Store(true)
	return nil
}

func fastOptions() Options {
	return Options{Warmup: 0, Interval: time.Millisecond}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestSource_LatestBeforeFirstFrame(t *testing.T) {
	dev := newFakeDevice()
	dev.opened.Store(false)

	src, err := Open(context.Background(), dev, fastOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	time.Sleep(10 * time.Millisecond)

	f := src.Latest()
	if !f.Empty() {
		t.Errorf("expected empty frame from a device that never opened, got seq %d", f.Seq)
	}
	if dev.grabs.Load() != 0 {
		t.Errorf("grabbed %d frames from a closed device", dev.grabs.Load())
	}
}

func TestSource_DeliversLatest(t *testing.T) {
	dev := newFakeDevice()
	src, err := Open(context.Background(), dev, fastOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	waitFor(t, func() bool { return src.Latest().Seq >= 3 })

	f := src.Latest()
	if f.Empty() {
		t.Fatal("expected a frame")
	}
	if f.Timestamp.IsZero() {
		t.Error("frame has no timestamp")
	}
	w, h := f.Size()
	if w < 3 || h != 4 {
		t.Errorf("Size = %dx%d, want >=3x4", w, h)
	}
}

func TestSource_OverwritesAndCountsDrops(t *testing.T) {
	dev := newFakeDevice()
	src, err := Open(context.Background(), dev, fastOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	// Nobody reads for a while: every frame but the last is dropped.
	waitFor(t, func() bool { return src.Stats().Grabbed >= 5 })

	st := src.Stats()
	if st.Dropped == 0 {
		t.Errorf("expected drops with no reader, got %+v", st)
	}

	first := src.Latest()
	waitFor(t, func() bool { return src.Latest().Seq > first.Seq })
}

func TestSource_LatestNeverBlocks(t *testing.T) {
	dev := newFakeDevice()
	src, err := Open(context.Background(), dev, Options{Interval: time.Hour})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			src.Latest()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Latest blocked")
	}
}

func TestSource_GrabErrors(t *testing.T) {
	dev := newFakeDevice()
	dev.failGrab.Store(true)

	src, err := Open(context.Background(), dev, fastOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	waitFor(t, func() bool { return src.Stats().Errors >= 3 })
	if !src.Latest().Empty() {
		t.Error("expected no frame when every grab fails")
	}
}

func TestSource_WarmupBlocks(t *testing.T) {
	dev := newFakeDevice()

	start := time.Now()
	src, err := Open(context.Background(), dev, Options{Warmup: 50 * time.Millisecond, Interval: time.Millisecond})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Open returned after %v, want >= 50ms warm-up", elapsed)
	}
	if src.Latest().Empty() {
		t.Error("expected frames acquired during warm-up")
	}
}

func TestSource_WarmupCancelled(t *testing.T) {
	dev := newFakeDevice()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	src, err := Open(ctx, dev, Options{Warmup: time.Minute, Interval: time.Millisecond})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Open error = %v, want context.Canceled", err)
	}
	if src != nil {
		t.Error("expected nil source on cancelled warm-up")
	}
	if !dev.closed.Load() {
		t.Error("device not closed after cancelled warm-up")
	}
}

func TestSource_CloseJoinsBeforeDeviceClose(t *testing.T) {
	dev := newFakeDevice()
	src, err := Open(context.Background(), dev, fastOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	waitFor(t, func() bool { return src.Stats().Grabbed > 0 })

	if err := src.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !dev.closed.Load() {
		t.Error("device not closed")
	}

	// The acquisition goroutine has exited: no grab touched the closed
	// device, so no errors were counted after Close.
	before := src.Stats()
	time.Sleep(10 * time.Millisecond)
	if after := src.Stats(); after != before {
		t.Errorf("acquisition continued after Close: %+v -> %+v", before, after)
	}
	if before.Errors != 0 {
		t.Errorf("grab raced with device close: %+v", before)
	}

	// Idempotent.
	if err := src.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestSource_ParentContextStopsLoop(t *testing.T) {
	dev := newFakeDevice()
	ctx, cancel := context.WithCancel(context.Background())

	src, err := Open(ctx, dev, fastOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	waitFor(t, func() bool { return src.Stats().Grabbed > 0 })
	cancel()
	time.Sleep(5 * time.Millisecond)

	before := src.Stats().Grabbed
	time.Sleep(10 * time.Millisecond)
	if after := src.Stats().Grabbed; after != before {
		t.Errorf("loop kept grabbing after cancel: %d -> %d", before, after)
	}
}

func TestOpen_NilDevice(t *testing.T) {
	if _, err := Open(context.Background(), nil, fastOptions()); err == nil {
		t.Error("expected error for nil device")
	}
}

func TestFrame_Empty(t *testing.T) {
	if !(Frame{}).Empty() {
		t.Error("zero Frame not empty")
	}
	if !(Frame{Image: image.NewRGBA(image.Rect(0, 0, 0, 10))}).Empty() {
		t.Error("zero-width frame not empty")
	}
	if (Frame{Image: image.NewRGBA(image.Rect(0, 0, 2, 2))}).Empty() {
		t.Error("2x2 frame reported empty")
	}
	if w, h := (Frame{}).Size(); w != 0 || h != 0 {
		t.Errorf("zero Frame Size = %dx%d", w, h)
	}
}

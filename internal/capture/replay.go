package capture

import (
	"fmt"
	"image"
	"sync"

	"github.com/ironsheep/scansense/internal/imaging"
)

// DirDevice replays the image files of a directory as if they came from a
// camera, in file-name order.
//
// Without Loop the device reports itself closed once the last file has been
// grabbed, and the Source keeps serving that last frame.
type DirDevice struct {
	Loop bool

	mu     sync.Mutex
	paths  []string
	next   int
	cur    string
	closed bool
	cache  *imaging.ImageCache
}

// OpenDir lists the frames in dir. It fails if dir holds no image files.
func OpenDir(dir string, loop bool) (*DirDevice, error) {
	paths, err := imaging.ListFrames(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no image files in %s", dir)
	}
	return &DirDevice{
		Loop:  loop,
		paths: paths,
		cache: imaging.NewImageCache(),
	}, nil
}

// Len returns the number of frames in the replay.
func (d *DirDevice) Len() int {
	return len(d.paths)
}

// IsOpened reports whether frames remain to be grabbed.
func (d *DirDevice) IsOpened() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && (d.Loop || d.next < len(d.paths))
}

// Grab advances to the next file.
func (d *DirDevice) Grab() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return fmt.Errorf("replay device closed")
	}
	if d.next >= len(d.paths) {
		if !d.Loop {
			return fmt.Errorf("replay exhausted")
		}
		d.next = 0
	}
	d.cur = d.paths[d.next]
	d.next++
	return nil
}

// Retrieve decodes the file last grabbed. Decoded files are cached, so a
// looping replay reads each file from disk once.
func (d *DirDevice) Retrieve() (image.Image, error) {
	d.mu.Lock()
	path := d.cur
	d.mu.Unlock()

	if path == "" {
		return nil, ErrNoFrame
	}
	return d.cache.Load(path)
}

// Close marks the device closed and drops the decoded frames.
func (d *DirDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cache.Clear()
	return nil
}

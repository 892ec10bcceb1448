package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrNoMoreFrames is returned by a non-looping MockCamera once its frames are used up.
var ErrNoMoreFrames = errors.New("no more frames")

// MockCamera plays back a fixed set of frames. Each read is stamped with a
// synthetic clock that advances by Interval milliseconds, unless the frame is
// listed in repeats, in which case it keeps the previous timestamp.
type MockCamera struct {
	frames   []*gocv.Mat
	index    int
	loop     bool
	clock    int64
	interval int64
	repeats  map[int]bool
	fps      int
	mu       sync.Mutex
	running  bool
}

// NewMockCamera creates a mock camera over frames. Frames are cloned on read.
func NewMockCamera(frames []*gocv.Mat, loop bool) *MockCamera {
	return &MockCamera{
		frames:   frames,
		loop:     loop,
		interval: 33,
		fps:      DefaultFPS,
		repeats:  make(map[int]bool),
	}
}

func (c *MockCamera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.index = 0
	return nil
}

func (c *MockCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	return nil
}

func (c *MockCamera) ReadFrame() (*Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return nil, ErrCameraNotOpen
	}

	if len(c.frames) == 0 {
		return nil, errors.New("no frames available")
	}

	if c.index >= len(c.frames) {
		if !c.loop {
			return nil, ErrNoMoreFrames
		}
		c.index = 0
	}

	if !c.repeats[c.index] || c.clock == 0 {
		c.clock += c.interval
	}

	mat := c.frames[c.index].Clone()
	c.index++

	return &Frame{
		Mat:       &mat,
		Timestamp: c.clock,
		Width:     mat.Cols(),
		Height:    mat.Rows(),
	}, nil
}

func (c *MockCamera) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

func (c *MockCamera) FPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fps
}

func (c *MockCamera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// SetFrames replaces the frame sequence.
func (c *MockCamera) SetFrames(frames []*gocv.Mat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = frames
	c.index = 0
}

// RepeatTimestamp marks frame i as a duplicate of its predecessor.
func (c *MockCamera) RepeatTimestamp(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.repeats[i] = true
}

// Reset restarts playback from the beginning.
func (c *MockCamera) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
}

// Release closes every frame the camera was given and empties the sequence.
// Use it when the camera owns its frames, after the last ReadFrame.
func (c *MockCamera) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range c.frames {
		if m != nil {
			m.Close()
		}
	}
	c.frames = nil
	c.index = 0
}

package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// ReplayDetector returns previously recorded detections in order, ignoring the
// frame it is given. After the last recorded frame it reports no hands, or
// starts over when looping.
type ReplayDetector struct {
	mu     sync.Mutex
	frames [][]HandLandmarks
	index  int
	loop   bool
}

// NewReplayDetector creates a detector that plays back frames.
func NewReplayDetector(frames [][]HandLandmarks, loop bool) *ReplayDetector {
	return &ReplayDetector{frames: frames, loop: loop}
}

// Detect returns the next recorded frame.
func (r *ReplayDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index >= len(r.frames) {
		if !r.loop || len(r.frames) == 0 {
			return nil, nil
		}
		r.index = 0
	}
	hands := r.frames[r.index]
	r.index++
	return hands, nil
}

// Done reports whether a non-looping replay has run out of frames.
func (r *ReplayDetector) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.loop && r.index >= len(r.frames)
}

// Len returns the number of recorded frames.
func (r *ReplayDetector) Len() int {
	return len(r.frames)
}

// Close is a no-op.
func (r *ReplayDetector) Close() error {
	return nil
}

package capture

import "sync"

// FrameGate admits each distinct frame timestamp once. Cameras can hand back
// the same buffer when polled faster than they produce frames, and running
// inference on it again would only repeat the previous result.
type FrameGate struct {
	mu      sync.Mutex
	last    int64
	seen    bool
	dropped int
}

// Admit reports whether a frame with timestamp ts should be processed.
// Timestamps that do not advance past the last admitted one are rejected.
func (g *FrameGate) Admit(ts int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seen && ts <= g.last {
		g.dropped++
		return false
	}
	g.last = ts
	g.seen = true
	return true
}

// Dropped returns how many frames have been rejected.
func (g *FrameGate) Dropped() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dropped
}

// Reset forgets the last timestamp, e.g. after the camera is reopened and its
// clock restarts.
func (g *FrameGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen = false
	g.last = 0
}

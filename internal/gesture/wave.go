package gesture

import (
	"math"
	"time"

	"github.com/ayusman/particleflow/internal/detector"
)

// WaveState is the memory of the wave detector between frames.
type WaveState struct {
	// LastX is the last observed palm centre of the primary hand.
	LastX float64
	// Direction is the sign of the last movement above threshold: -1, 0 or +1.
	Direction int
	// LastTrigger is when the last wave event fired.
	LastTrigger time.Time
	// Primed is false until a first palm position has been observed.
	Primed bool
}

// WaveDetector emits a wave event on a direction reversal of the primary hand
// or on a single fast horizontal swipe. At most one event fires per cooldown window.
type WaveDetector struct {
	cfg   Config
	state WaveState
	now   func() time.Time
}

// NewWaveDetector creates a detector that reads time from now.
// A nil now uses time.Now.
func NewWaveDetector(cfg Config, now func() time.Time) *WaveDetector {
	if now == nil {
		now = time.Now
	}
	return &WaveDetector{cfg: cfg, now: now}
}

// State returns a copy of the detector state.
func (w *WaveDetector) State() WaveState {
	return w.state
}

// Observe consumes one detection and reports whether a wave event fired.
func (w *WaveDetector) Observe(hands []detector.HandLandmarks) bool {
	var fired bool
	w.state, fired = StepWave(w.cfg, w.state, hands, w.now())
	return fired
}

// StepWave is the pure transition function of the wave detector.
//
// A frame without hands un-primes the state so that a hand re-entering at a
// different position is not mistaken for a swipe.
func StepWave(cfg Config, s WaveState, hands []detector.HandLandmarks, now time.Time) (WaveState, bool) {
	if len(hands) == 0 {
		s.Primed = false
		return s, false
	}

	x := hands[0].PalmX()
	if !s.Primed {
		s.LastX = x
		s.Primed = true
		return s, false
	}

	if !s.LastTrigger.IsZero() && now.Sub(s.LastTrigger) < cfg.Cooldown {
		s.LastX = x
		return s, false
	}

	dx := x - s.LastX
	s.LastX = x

	if math.Abs(dx) > cfg.Threshold {
		dir := 1
		if dx < 0 {
			dir = -1
		}
		if s.Direction != 0 && dir != s.Direction {
			s.Direction = dir
			s.LastTrigger = now
			return s, true
		}
		s.Direction = dir
	}

	if math.Abs(dx) > cfg.FastThreshold {
		s.LastTrigger = now
		return s, true
	}

	return s, false
}

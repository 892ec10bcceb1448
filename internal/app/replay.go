package app

import (
	"fmt"

	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/store"
)

// LoadReplay builds a detector that plays back a stored recording.
func LoadReplay(s *store.Store, recordingID string, loop bool) (*detector.ReplayDetector, error) {
	frames, err := s.Recordings().Frames(recordingID)
	if err != nil {
		return nil, fmt.Errorf("load recording %s: %w", recordingID, err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("recording %s has no frames", recordingID)
	}
	return detector.NewReplayDetector(storeFramesToDetector(frames), loop), nil
}

// DemoFrames generates a synthetic session: one hand sweeping side to side
// with a slowly opening pinch, then both hands spreading apart. It drives the
// swarm when no camera is available.
func DemoFrames(n int) [][]detector.HandLandmarks {
	frames := make([][]detector.HandLandmarks, 0, n)
	for i := 0; i < n; i++ {
		phase := i % 120
		switch {
		case phase < 60:
			// Sweep between x=0.35 and x=0.65 in steps large enough to count as a wave.
			step := phase % 20
			x := 0.35 + 0.03*float64(step)
			if step >= 10 {
				x = 0.65 - 0.03*float64(step-10)
			}
			h := detector.PinchLandmarks(0.02 + 0.002*float64(phase))
			frames = append(frames, []detector.HandLandmarks{h.Translate(x-h.PalmX(), 0)})
		case phase < 100:
			spread := 0.1 + 0.01*float64(phase-60)
			left := detector.OpenPalmAt(0.5-spread/2, 0.8)
			right := detector.OpenPalmAt(0.5+spread/2, 0.8)
			frames = append(frames, []detector.HandLandmarks{left, right})
		default:
			frames = append(frames, nil)
		}
	}
	return frames
}

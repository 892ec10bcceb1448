package detector

import (
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrNoScript is returned when the MediaPipe hand landmarker service script cannot be found.
var ErrNoScript = errors.New("hand_landmarker.py not found")

// Detector turns one camera frame into at most two sets of hand landmarks.
// A frame without hands yields an empty slice and a nil error.
type Detector interface {
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)
	Close() error
}

// Config drives the landmarker subprocess.
type Config struct {
	// ScriptPath overrides the search for scripts/hand_landmarker.py.
	ScriptPath string
	// Python overrides the interpreter; a venv next to the binary is tried first, then python3.
	Python string

	// MaxHands caps the hands per frame. Expansion and waves use at most two.
	MaxHands int
	// MinDetection, MinPresence and MinTracking are the MediaPipe confidence thresholds.
	MinDetection float64
	MinPresence  float64
	MinTracking  float64

	// IdleShutdown stops the subprocess after this long without a frame.
	IdleShutdown time.Duration
}

// DefaultConfig returns the settings used by the camera tracker.
func DefaultConfig() Config {
	return Config{
		MaxHands:     2,
		MinDetection: 0.5,
		MinPresence:  0.5,
		MinTracking:  0.5,
		IdleShutdown: 30 * time.Second,
	}
}

// normalize fills unset or out-of-range fields from DefaultConfig.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.MaxHands <= 0 || c.MaxHands > 2 {
		c.MaxHands = def.MaxHands
	}
	c.MinDetection = unitOr(c.MinDetection, def.MinDetection)
	c.MinPresence = unitOr(c.MinPresence, def.MinPresence)
	c.MinTracking = unitOr(c.MinTracking, def.MinTracking)
	if c.IdleShutdown <= 0 {
		c.IdleShutdown = def.IdleShutdown
	}
	return c
}

func unitOr(v, fallback float64) float64 {
	if v <= 0 || v > 1 {
		return fallback
	}
	return v
}

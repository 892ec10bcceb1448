// Package gesture turns per-frame hand landmarks into a smoothed expansion signal
// and debounced wave events.
package gesture

import "time"

// Config holds the tuning constants of the interpreter.
type Config struct {
	// Smoothing is the fraction of the gap to the target covered per frame while hands are visible.
	Smoothing float64
	// Decay multiplies the expansion on frames with no hands.
	Decay float64

	// SpreadOffset and SpreadGain map the distance between two wrists to a target:
	// clamp01((d - SpreadOffset) * SpreadGain).
	SpreadOffset float64
	SpreadGain   float64
	// PinchOffset and PinchGain map the thumb-index distance of a single hand.
	PinchOffset float64
	PinchGain   float64

	// Cooldown is the minimum interval between two wave events.
	Cooldown time.Duration
	// Threshold is the minimum per-frame palm movement that counts as a direction.
	Threshold float64
	// FastThreshold is the per-frame palm movement that fires a wave by itself.
	FastThreshold float64
}

// DefaultConfig returns the interpreter constants.
func DefaultConfig() Config {
	return Config{
		Smoothing:     0.05,
		Decay:         0.95,
		SpreadOffset:  0.2,
		SpreadGain:    2,
		PinchOffset:   0.05,
		PinchGain:     6,
		Cooldown:      1000 * time.Millisecond,
		Threshold:     0.02,
		FastThreshold: 0.08,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

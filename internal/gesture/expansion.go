package gesture

import "github.com/ayusman/particleflow/internal/detector"

// TargetExpansion maps the detected hands to an expansion target in [0,1].
//
// Two hands: the wrist-to-wrist distance. One hand: the thumb-to-index pinch
// distance. Any other count yields 0.
func TargetExpansion(cfg Config, hands []detector.HandLandmarks) float64 {
	switch len(hands) {
	case 2:
		d := detector.Distance2D(hands[0].Points[detector.Wrist], hands[1].Points[detector.Wrist])
		return clamp01((d - cfg.SpreadOffset) * cfg.SpreadGain)
	case 1:
		return clamp01((hands[0].PinchDistance() - cfg.PinchOffset) * cfg.PinchGain)
	default:
		return 0
	}
}

// ExpansionFilter low-pass filters the expansion target across frames.
type ExpansionFilter struct {
	cfg   Config
	value float64
}

// NewExpansionFilter creates a filter starting at zero.
func NewExpansionFilter(cfg Config) *ExpansionFilter {
	return &ExpansionFilter{cfg: cfg}
}

// Update folds one detection into the signal and returns the new value.
// With hands present the value moves a fixed fraction toward the target;
// without hands it decays geometrically toward zero.
func (f *ExpansionFilter) Update(hands []detector.HandLandmarks) float64 {
	if len(hands) == 0 {
		f.value *= f.cfg.Decay
	} else {
		target := TargetExpansion(f.cfg, hands)
		f.value += (target - f.value) * f.cfg.Smoothing
	}
	f.value = clamp01(f.value)
	return f.value
}

// Value returns the current signal.
func (f *ExpansionFilter) Value() float64 {
	return f.value
}

// Reset sets the signal back to zero.
func (f *ExpansionFilter) Reset() {
	f.value = 0
}

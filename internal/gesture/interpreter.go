package gesture

import (
	"time"

	"github.com/ayusman/particleflow/internal/detector"
)

// Reading is the interpretation of one detection.
type Reading struct {
	Expansion float64
	Wave      bool
	Hands     int
}

// Interpreter owns the expansion filter and the wave detector for one input stream.
type Interpreter struct {
	expansion *ExpansionFilter
	wave      *WaveDetector
	lastHands int
}

// NewInterpreter creates an interpreter. A nil now uses time.Now.
func NewInterpreter(cfg Config, now func() time.Time) *Interpreter {
	return &Interpreter{
		expansion: NewExpansionFilter(cfg),
		wave:      NewWaveDetector(cfg, now),
	}
}

// Interpret folds the hands of one fresh detection into both signals.
func (in *Interpreter) Interpret(hands []detector.HandLandmarks) Reading {
	in.lastHands = len(hands)
	return Reading{
		Expansion: in.expansion.Update(hands),
		Wave:      in.wave.Observe(hands),
		Hands:     len(hands),
	}
}

// Coast advances the expansion signal by one frame that brought no fresh
// detection. If the last detection saw no hands the signal keeps decaying;
// otherwise it holds. Wave state is untouched.
func (in *Interpreter) Coast() float64 {
	if in.lastHands == 0 {
		return in.expansion.Update(nil)
	}
	return in.expansion.Value()
}

// Expansion returns the current expansion without consuming a frame.
func (in *Interpreter) Expansion() float64 {
	return in.expansion.Value()
}

// WaveState exposes the wave detector memory for diagnostics.
func (in *Interpreter) WaveState() WaveState {
	return in.wave.State()
}

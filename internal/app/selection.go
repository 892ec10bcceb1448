package app

import (
	"time"

	"github.com/ayusman/particleflow/internal/particle"
	"github.com/ayusman/particleflow/internal/render"
)

// Labels shown to the user.
const (
	LabelWave        = "👋 Wave Detected!"
	LabelCameraError = "Camera Error: Check Permissions"
	HintWave         = "Wave hand to switch shape"
)

// Selection is the user-facing state the swarm is drawn from.
type Selection struct {
	Shape particle.Shape `json:"shape"`
	Color string         `json:"color"`
	Debug bool           `json:"debug"`
	// Label is the current gesture label, empty when none is shown.
	Label string `json:"label"`

	// labelUntil is when Label clears. Zero keeps it until replaced.
	labelUntil time.Time
}

// DefaultSelection is the state at startup.
func DefaultSelection() Selection {
	return Selection{
		Shape: particle.Heart,
		Color: render.DefaultColor,
		Debug: true,
	}
}

// setLabel shows text until now+ttl, or indefinitely for ttl <= 0.
func (s *Selection) setLabel(text string, now time.Time, ttl time.Duration) {
	s.Label = text
	if ttl > 0 {
		s.labelUntil = now.Add(ttl)
	} else {
		s.labelUntil = time.Time{}
	}
}

// expireLabel clears a timed label once its deadline has passed.
func (s *Selection) expireLabel(now time.Time) {
	if s.Label != "" && !s.labelUntil.IsZero() && !now.Before(s.labelUntil) {
		s.Label = ""
		s.labelUntil = time.Time{}
	}
}

// advance moves to the next shape and palette colour, as a wave does.
func (s *Selection) advance() {
	s.Shape = s.Shape.Next()
	s.Color = render.NextColor(s.Color)
}

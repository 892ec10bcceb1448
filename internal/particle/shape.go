// Package particle holds the particle pool, the target shape fields and the
// per-frame physics integration.
package particle

import (
	"fmt"
	"strings"
)

// Shape identifies the formation the swarm is pursuing.
type Shape int

const (
	// Heart is a closed 3D heart surface.
	Heart Shape = iota
	// Flower is a five-petal rose curve with a cupped depth profile.
	Flower
	// Fireworks is an endless ballistic burst from the viewport centre.
	Fireworks
)

// Shapes lists every shape in cycle order.
var Shapes = []Shape{Heart, Flower, Fireworks}

// String returns the upper-case shape name.
func (s Shape) String() string {
	switch s {
	case Heart:
		return "HEART"
	case Flower:
		return "FLOWER"
	case Fireworks:
		return "FIREWORKS"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Next returns the following shape in the cycle HEART -> FLOWER -> FIREWORKS -> HEART.
func (s Shape) Next() Shape {
	switch s {
	case Heart:
		return Flower
	case Flower:
		return Fireworks
	default:
		return Heart
	}
}

// Static reports whether particles settle on a fixed surface for this shape.
func (s Shape) Static() bool {
	return s == Heart || s == Flower
}

// ParseShape parses a shape name, case-insensitively.
func ParseShape(name string) (Shape, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "HEART":
		return Heart, nil
	case "FLOWER":
		return Flower, nil
	case "FIREWORKS":
		return Fireworks, nil
	}
	return Heart, fmt.Errorf("unknown shape %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the fixed colour cycle stepped through on each wave.
var Palette = []string{"#ff007f", "#00f3ff", "#9d00ff"}

// DefaultColor is the colour the swarm starts with.
const DefaultColor = "#ff007f"

// ParseHex parses a "#rrggbb" or "#rgb" colour into an opaque RGBA value.
func ParseHex(hex string) (color.RGBA, error) {
	hex = strings.TrimSpace(hex)
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// NextColor returns the palette entry after hex. Colours outside the palette
// restart the cycle at its first entry.
func NextColor(hex string) string {
	hex = strings.ToLower(strings.TrimSpace(hex))
	for i, c := range Palette {
		if c == hex {
			return Palette[(i+1)%len(Palette)]
		}
	}
	return Palette[0]
}

// Lighten returns c blended toward white by t in CIE-L*u*v* space. The debug
// overlay uses it to keep the skeleton readable over same-coloured particles.
func Lighten(c color.RGBA, t float64) color.RGBA {
	base, ok := colorful.MakeColor(c)
	if !ok {
		return c
	}
	r, g, b := base.BlendLuv(colorful.Color{R: 1, G: 1, B: 1}, t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: c.A}
}

// Package render projects particles onto a 2D drawing surface with motion trails
// and additive blending.
package render

import "image/color"

// BlendMode selects how painted pixels combine with the surface.
type BlendMode int

const (
	// BlendSourceOver paints over the destination weighted by alpha.
	BlendSourceOver BlendMode = iota
	// BlendLighter adds the painted colour to the destination so overlaps brighten.
	BlendLighter
)

// Surface is a drawing target for the renderer.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (int, int)
	// Fade darkens the whole surface by painting black with the given alpha.
	Fade(alpha float64)
	// SetBlend switches the compositing mode for subsequent fills.
	SetBlend(mode BlendMode)
	// FillCircle paints a filled circle of radius r centred at (x, y).
	FillCircle(x, y, r float64, c color.RGBA, alpha float64)
}

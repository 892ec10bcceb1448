package render

import "github.com/ayusman/particleflow/internal/particle"

// Config holds the projection and trail constants.
type Config struct {
	// FocalLength is the distance from the viewer to the z=0 plane.
	FocalLength float64
	// TrailAlpha is the opacity of the black wash applied before each frame.
	TrailAlpha float64
}

// DefaultConfig returns the projection and trail constants.
func DefaultConfig() Config {
	return Config{
		FocalLength: 800,
		TrailAlpha:  0.2,
	}
}

// Project returns the perspective scale of a point at depth z. Points on or
// behind the viewer plane project to 0.
func Project(z, focalLength float64) float64 {
	d := focalLength + z
	if d <= 0 {
		return 0
	}
	return focalLength / d
}

// Renderer draws a particle pool onto a Surface.
type Renderer struct {
	cfg Config
}

// NewRenderer creates a renderer.
func NewRenderer(cfg Config) *Renderer {
	return &Renderer{cfg: cfg}
}

// Render draws one frame and returns the number of particles painted.
//
// The surface is washed with translucent black, particles are composited
// additively, and the surface is left in source-over mode for the next frame.
func (r *Renderer) Render(s Surface, particles []particle.Particle) int {
	s.Fade(r.cfg.TrailAlpha)
	if len(particles) == 0 {
		return 0
	}

	s.SetBlend(BlendLighter)
	defer s.SetBlend(BlendSourceOver)

	drawn := 0
	for i := range particles {
		p := &particles[i]
		scale := Project(p.Z, r.cfg.FocalLength)
		if scale <= 0 {
			continue
		}
		s.FillCircle(p.X, p.Y, p.Size*scale, p.Color, p.Alpha)
		drawn++
	}
	return drawn
}

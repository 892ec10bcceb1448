package particle

import (
	"math"
	"math/rand/v2"
)

// Viewport is the drawing area the swarm is centred in.
type Viewport struct {
	Width, Height float64
}

// Center returns the viewport centre.
func (v Viewport) Center() (float64, float64) {
	return v.Width / 2, v.Height / 2
}

// Integrator advances particles by one frame.
type Integrator struct {
	cfg Config
	rnd *rand.Rand
}

// NewIntegrator creates an integrator whose respawn draws come from a PCG source seeded with seed.
func NewIntegrator(cfg Config, seed uint64) *Integrator {
	return &Integrator{
		cfg: cfg,
		rnd: rand.New(rand.NewPCG(seed, ^seed)),
	}
}

// Scale returns how many pixels one local unit spans for the given expansion.
func (in *Integrator) Scale(vp Viewport, expansion float64) float64 {
	return math.Min(vp.Width, vp.Height) * in.cfg.BaseScale * (1 + expansion*in.cfg.ExpansionGain)
}

// Step advances every particle by one tick.
func (in *Integrator) Step(particles []Particle, shape Shape, vp Viewport, expansion float64) {
	cx, cy := vp.Center()
	if shape == Fireworks {
		for i := range particles {
			in.stepFirework(&particles[i], cx, cy)
		}
		return
	}

	scale := in.Scale(vp, expansion)
	for i := range particles {
		in.stepSpring(&particles[i], cx, cy, scale)
	}
}

// stepSpring pursues the particle's static target with a damped spring.
func (in *Integrator) stepSpring(p *Particle, cx, cy, scale float64) {
	tx := cx + p.LX*scale
	ty := cy + p.LY*scale
	tz := p.LZ * scale

	p.VX = (p.VX + (tx-p.X)*in.cfg.SpringGain) * in.cfg.Damping
	p.VY = (p.VY + (ty-p.Y)*in.cfg.SpringGain) * in.cfg.Damping
	p.VZ = (p.VZ + (tz-p.Z)*in.cfg.SpringGain) * in.cfg.Damping

	p.X += p.VX
	p.Y += p.VY
	p.Z += p.VZ
	p.Alpha = in.cfg.StaticAlpha
}

// stepFirework moves the particle along its ballistic velocity and respawns it at
// the centre when its life runs out.
func (in *Integrator) stepFirework(p *Particle, cx, cy float64) {
	p.X += p.LX
	p.Y += p.LY
	p.Z += p.LZ

	p.LX *= in.cfg.Drag
	p.LY *= in.cfg.Drag
	p.LZ *= in.cfg.Drag
	p.LY += in.cfg.Gravity

	p.Life--
	p.Alpha = math.Max(0, p.Life/in.cfg.Life)

	if p.Life <= 0 {
		p.Life = in.cfg.Life
		p.X, p.Y, p.Z = cx, cy, 0
		v := LaunchVelocity(in.rnd)
		p.LX, p.LY, p.LZ = v.X, v.Y, v.Z
	}
}

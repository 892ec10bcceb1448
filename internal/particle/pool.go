package particle

import (
	"image/color"
	"log"
	"math/rand/v2"
)

// Config holds the pool and physics constants.
type Config struct {
	Count int

	// ShellProb is the probability that a static-shape particle lands in the outer shell band.
	ShellProb float64
	// MinSize and SizeSpread give particle radii in [MinSize, MinSize+SizeSpread).
	MinSize    float64
	SizeSpread float64
	// StaticAlpha is the paint alpha of particles settled on a static shape.
	StaticAlpha float64
	// ResetDamping multiplies every velocity when the pool is reconfigured.
	ResetDamping float64

	// SpringGain and Damping drive the pursuit of static targets.
	SpringGain float64
	Damping    float64
	// BaseScale is the fraction of min(width, height) one local unit spans at zero expansion.
	BaseScale float64
	// ExpansionGain is how much a full expansion signal enlarges the shape.
	ExpansionGain float64

	// Drag multiplies the firework velocity each tick; Gravity is added to its Y velocity.
	Drag    float64
	Gravity float64
	// Life is the number of ticks a respawned firework particle lives.
	Life float64
	// MaxLifeSpread gives the initial maxLife range [Life, Life+MaxLifeSpread).
	MaxLifeSpread float64
}

// DefaultConfig returns the pool and physics constants.
func DefaultConfig() Config {
	return Config{
		Count:         4000,
		ShellProb:     0.9,
		MinSize:       1.0,
		SizeSpread:    2.0,
		StaticAlpha:   0.8,
		ResetDamping:  0.1,
		SpringGain:    0.2,
		Damping:       0.80,
		BaseScale:     0.015,
		ExpansionGain: 1.5,
		Drag:          0.96,
		Gravity:       0.15,
		Life:          100,
		MaxLifeSpread: 50,
	}
}

// Particle is one member of the pool.
//
// For static shapes L holds the resting offset from the viewport centre. For
// fireworks L holds the current ballistic velocity.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	LX, LY, LZ float64

	Size  float64
	Alpha float64
	Color color.RGBA

	Life    float64
	MaxLife float64
	Shell   bool
}

// Pool is the fixed-size particle collection. Particles are never added or
// removed after Initialize; they are only re-targeted or respawned in place.
type Pool struct {
	cfg       Config
	rnd       *rand.Rand
	particles []Particle
}

// NewPool creates an empty pool whose random draws come from a PCG source seeded with seed.
func NewPool(cfg Config, seed uint64) *Pool {
	return &Pool{
		cfg: cfg,
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Reseed restarts the pool's random source.
func (p *Pool) Reseed(seed uint64) {
	p.rnd = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Initialize fills the pool once with Count particles resting at the centre.
// It reports whether particles were created; later calls are no-ops.
func (p *Pool) Initialize(centerX, centerY float64, c color.RGBA) bool {
	if len(p.particles) > 0 || p.cfg.Count <= 0 {
		return false
	}

	log.Printf("Initializing %d particles", p.cfg.Count)
	particles := make([]Particle, p.cfg.Count)
	for i := range particles {
		particles[i] = Particle{
			X:       centerX,
			Y:       centerY,
			Size:    p.cfg.MinSize + p.rnd.Float64()*p.cfg.SizeSpread,
			Color:   c,
			Alpha:   0.5 + p.rnd.Float64()*0.5,
			MaxLife: p.cfg.Life,
		}
	}
	p.particles = particles
	return true
}

// Reconfigure re-targets every particle for shape and paints it with c.
// Velocities are damped rather than zeroed so the swarm flows into the new shape.
// Fireworks re-centre the swarm with staggered lives and fresh launch velocities.
func (p *Pool) Reconfigure(shape Shape, c color.RGBA, centerX, centerY float64) {
	log.Printf("Configuring shape %s (%d particles)", shape, len(p.particles))

	for i := range p.particles {
		pt := &p.particles[i]
		pt.VX *= p.cfg.ResetDamping
		pt.VY *= p.cfg.ResetDamping
		pt.VZ *= p.cfg.ResetDamping
		pt.Color = c

		if shape == Fireworks {
			pt.Life = p.rnd.Float64() * p.cfg.Life
			pt.MaxLife = p.cfg.Life + p.rnd.Float64()*p.cfg.MaxLifeSpread
			pt.X, pt.Y, pt.Z = centerX, centerY, 0
		}

		target, shell := Target(shape, p.cfg.ShellProb, p.rnd)
		pt.LX, pt.LY, pt.LZ = target.X, target.Y, target.Z
		pt.Shell = shell
	}
}

// Particles returns the live particle slice. Callers may mutate elements but
// must not change its length.
func (p *Pool) Particles() []Particle {
	return p.particles
}

// Len returns the pool size.
func (p *Pool) Len() int {
	return len(p.particles)
}

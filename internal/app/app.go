// Package app runs the particle swarm: each tick it folds the latest hand
// detection into the gesture signals, applies any selection change to the pool,
// advances the physics and renders onto the canvas.
package app

import (
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/gesture"
	"github.com/ayusman/particleflow/internal/particle"
	"github.com/ayusman/particleflow/internal/render"
)

// ErrNotRunning is returned by operations that need a started tracker.
var ErrNotRunning = errors.New("tracker is not running")

// Source supplies detections to the tick loop. Poll returns false when no
// fresh detection is available since the previous call.
type Source interface {
	Poll() (detector.Detection, bool)
}

// Config holds configuration options for the application.
type Config struct {
	Width  int
	Height int
	// Seed drives every random draw of the pool and integrator.
	Seed uint64

	Particle particle.Config
	Gesture  gesture.Config
	Render   render.Config

	// LabelTTL is how long the wave label stays up.
	LabelTTL time.Duration
	// Initial is the selection at startup.
	Initial Selection
	// Now is the clock used for labels and wave debouncing. Nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns the standard application configuration.
func DefaultConfig() Config {
	return Config{
		Width:    800,
		Height:   600,
		Seed:     1,
		Particle: particle.DefaultConfig(),
		Gesture:  gesture.DefaultConfig(),
		Render:   render.DefaultConfig(),
		LabelTTL: 2 * time.Second,
		Initial:  DefaultSelection(),
	}
}

// WaveEvent describes a wave and the selection it switched to.
type WaveEvent struct {
	Time  time.Time      `json:"time"`
	Shape particle.Shape `json:"shape"`
	Color string         `json:"color"`
}

// State is a point-in-time view of the application for observers.
type State struct {
	Selection
	Expansion float64                  `json:"expansion"`
	Hands     []detector.HandLandmarks `json:"hands"`
	Frame     uint64                   `json:"frame"`
	Particles int                      `json:"particles"`
	Width     int                      `json:"width"`
	Height    int                      `json:"height"`
}

type applied struct {
	shape particle.Shape
	color string
	valid bool
}

// App owns the simulation. All methods are safe for concurrent use; ticks are
// serialized so one frame never observes a half-applied reconfiguration.
type App struct {
	config     Config
	now        func() time.Time
	pool       *particle.Pool
	integrator *particle.Integrator
	renderer   *render.Renderer
	interp     *gesture.Interpreter
	canvas     *render.Canvas

	mu        sync.Mutex
	source    Source
	sel       Selection
	applied   applied
	hands     []detector.HandLandmarks
	frame     uint64
	listeners []func(WaveEvent)
}

// New creates a new App. A nil src runs the swarm without hand input.
func New(config Config, src Source) *App {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	if config.LabelTTL <= 0 {
		config.LabelTTL = 2 * time.Second
	}
	sel := config.Initial
	if sel.Color == "" {
		sel.Color = render.DefaultColor
	}

	return &App{
		config:     config,
		now:        now,
		pool:       particle.NewPool(config.Particle, config.Seed),
		integrator: particle.NewIntegrator(config.Particle, config.Seed+1),
		renderer:   render.NewRenderer(config.Render),
		interp:     gesture.NewInterpreter(config.Gesture, now),
		canvas:     render.NewCanvas(config.Width, config.Height),
		source:     src,
		sel:        sel,
	}
}

// SetSource replaces the detection source.
func (a *App) SetSource(src Source) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.source = src
}

// Tick polls the source and runs one step.
func (a *App) Tick() {
	a.mu.Lock()
	src := a.source
	a.mu.Unlock()

	if src == nil {
		a.Step(nil)
		return
	}
	if det, ok := src.Poll(); ok {
		a.Step(&det)
		return
	}
	a.Step(nil)
}

// Step runs one tick. A nil det means no fresh detection arrived: the wave
// detector is left alone, and expansion keeps decaying if the last detection
// had no hands or holds while hands were last seen.
//
// Order within a tick: interpret gestures, apply the selection (including a
// full reconfiguration when shape or colour changed), integrate, render.
func (a *App) Step(det *detector.Detection) {
	var events []WaveEvent

	a.mu.Lock()
	now := a.now()

	if det != nil {
		a.hands = det.Hands
		reading := a.interp.Interpret(det.Hands)
		if reading.Wave {
			a.sel.advance()
			a.sel.setLabel(LabelWave, now, a.config.LabelTTL)
			log.Printf("Wave detected, switching to %s %s", a.sel.Shape, a.sel.Color)
			events = append(events, WaveEvent{Time: now, Shape: a.sel.Shape, Color: a.sel.Color})
		}
	} else {
		a.interp.Coast()
	}
	a.sel.expireLabel(now)

	a.applySelection()

	w, h := a.canvas.Size()
	vp := particle.Viewport{Width: float64(w), Height: float64(h)}
	a.integrator.Step(a.pool.Particles(), a.sel.Shape, vp, a.interp.Expansion())
	a.renderer.Render(a.canvas, a.pool.Particles())
	a.frame++

	listeners := a.listeners
	a.mu.Unlock()

	for _, e := range events {
		for _, fn := range listeners {
			fn(e)
		}
	}
}

// applySelection creates the pool on first use and reconfigures it when the
// shape or colour differs from what the particles were last given.
func (a *App) applySelection() {
	w, h := a.canvas.Size()
	cx, cy := float64(w)/2, float64(h)/2

	col, err := render.ParseHex(a.sel.Color)
	if err != nil {
		log.Printf("Invalid color %q: %v", a.sel.Color, err)
		a.sel.Color = render.DefaultColor
		col, _ = render.ParseHex(a.sel.Color)
	}

	a.pool.Initialize(cx, cy, col)

	if a.applied.valid && a.applied.shape == a.sel.Shape && a.applied.color == a.sel.Color {
		return
	}
	a.pool.Reconfigure(a.sel.Shape, col, cx, cy)
	a.applied = applied{shape: a.sel.Shape, color: a.sel.Color, valid: true}
}

// Resize changes the canvas size. The swarm re-centres on the next tick.
func (a *App) Resize(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if w, h := a.canvas.Size(); w == width && h == height {
		return
	}
	a.canvas.Resize(width, height)
}

// OnWave registers fn to be called after each tick that detected a wave.
func (a *App) OnWave(fn func(WaveEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Selection returns the current selection.
func (a *App) Selection() Selection {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sel
}

// State returns a snapshot for observers.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, h := a.canvas.Size()
	hands := make([]detector.HandLandmarks, len(a.hands))
	copy(hands, a.hands)
	return State{
		Selection: a.sel,
		Expansion: a.interp.Expansion(),
		Hands:     hands,
		Frame:     a.frame,
		Particles: a.pool.Len(),
		Width:     w,
		Height:    h,
	}
}

// Frame returns a copy of the last rendered frame.
func (a *App) Frame() *image.RGBA {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.canvas.Snapshot()
}

// ViewFrame calls fn with the live canvas. fn must not retain img.
func (a *App) ViewFrame(fn func(img *image.RGBA)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(a.canvas.Image())
}

// Particles returns a copy of the particle pool.
func (a *App) Particles() []particle.Particle {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]particle.Particle, a.pool.Len())
	copy(out, a.pool.Particles())
	return out
}

// ShowError puts up a label that stays until replaced.
func (a *App) ShowError(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sel.setLabel(text, a.now(), 0)
}

package app

import (
	"image"
	"math"
	"testing"
	"time"

	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/particle"
	"github.com/ayusman/particleflow/internal/render"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type queueSource struct {
	queue []detector.Detection
	polls int
}

func (s *queueSource) Poll() (detector.Detection, bool) {
	s.polls++
	if len(s.queue) == 0 {
		return detector.Detection{}, false
	}
	d := s.queue[0]
	s.queue = s.queue[1:]
	return d, true
}

func testConfig(clock *fakeClock) Config {
	cfg := DefaultConfig()
	cfg.Particle.Count = 500
	cfg.Width = 400
	cfg.Height = 300
	cfg.Now = clock.Now
	return cfg
}

func palm(x float64) *detector.Detection {
	return &detector.Detection{Hands: []detector.HandLandmarks{detector.OpenPalmAt(x, 0.8)}}
}

// wave feeds the three palm positions that make one wave, one per tick.
func wave(a *App, clock *fakeClock) {
	for _, x := range []float64{0.50, 0.55, 0.50} {
		a.Step(palm(x))
		clock.Advance(33 * time.Millisecond)
	}
}

func TestApp_InitialState(t *testing.T) {
	clock := newFakeClock()
	a := New(testConfig(clock), nil)

	sel := a.Selection()
	if sel.Shape != particle.Heart || sel.Color != "#ff007f" || !sel.Debug || sel.Label != "" {
		t.Errorf("initial selection = %+v", sel)
	}

	if n := len(a.Particles()); n != 0 {
		t.Fatalf("pool has %d particles before the first tick", n)
	}

	a.Step(nil)

	st := a.State()
	if st.Particles != 500 {
		t.Errorf("Particles = %d, want 500", st.Particles)
	}
	if st.Expansion != 0 {
		t.Errorf("Expansion = %f, want 0", st.Expansion)
	}
	if st.Width != 400 || st.Height != 300 {
		t.Errorf("size = %dx%d", st.Width, st.Height)
	}
	pink, _ := render.ParseHex("#ff007f")
	for i, p := range a.Particles() {
		if p.Color != pink {
			t.Fatalf("particle %d colour = %v, want %v", i, p.Color, pink)
		}
	}
}

func TestApp_WaveAdvancesShapeAndColor(t *testing.T) {
	clock := newFakeClock()
	a := New(testConfig(clock), nil)

	var events []WaveEvent
	a.OnWave(func(e WaveEvent) { events = append(events, e) })

	wave(a, clock)

	sel := a.Selection()
	if sel.Shape != particle.Flower {
		t.Errorf("Shape = %s, want FLOWER", sel.Shape)
	}
	if sel.Color != "#00f3ff" {
		t.Errorf("Color = %s, want #00f3ff", sel.Color)
	}
	if sel.Label != LabelWave {
		t.Errorf("Label = %q, want %q", sel.Label, LabelWave)
	}

	if len(events) != 1 {
		t.Fatalf("got %d wave events, want 1", len(events))
	}
	if events[0].Shape != particle.Flower || events[0].Color != "#00f3ff" {
		t.Errorf("event = %+v", events[0])
	}

	cyan, _ := render.ParseHex("#00f3ff")
	for i, p := range a.Particles() {
		if p.Color != cyan {
			t.Fatalf("particle %d colour = %v after wave, want %v", i, p.Color, cyan)
		}
		if r := math.Hypot(p.LX, p.LY); r > 25+1e-9 {
			t.Fatalf("particle %d target radius %f outside the flower", i, r)
		}
	}
}

func TestApp_WaveCycle(t *testing.T) {
	clock := newFakeClock()
	a := New(testConfig(clock), nil)

	want := []struct {
		shape particle.Shape
		color string
	}{
		{particle.Flower, "#00f3ff"},
		{particle.Fireworks, "#9d00ff"},
		{particle.Heart, "#ff007f"},
	}
	for i, w := range want {
		wave(a, clock)
		clock.Advance(time.Second)

		sel := a.Selection()
		if sel.Shape != w.shape || sel.Color != w.color {
			t.Errorf("after wave %d: %s %s, want %s %s", i+1, sel.Shape, sel.Color, w.shape, w.color)
		}
	}
}

func TestApp_LabelExpires(t *testing.T) {
	clock := newFakeClock()
	a := New(testConfig(clock), nil)

	wave(a, clock)
	clock.Advance(-33 * time.Millisecond) // back to the wave tick

	clock.Advance(1999 * time.Millisecond)
	a.Step(nil)
	if a.Selection().Label != LabelWave {
		t.Fatal("label cleared before its time")
	}

	clock.Advance(time.Millisecond)
	a.Step(nil)
	if got := a.Selection().Label; got != "" {
		t.Errorf("Label = %q after 2s, want empty", got)
	}
}

func TestApp_ShowErrorPersists(t *testing.T) {
	clock := newFakeClock()
	a := New(testConfig(clock), nil)

	a.ShowError(LabelCameraError)
	clock.Advance(time.Minute)
	a.Step(nil)

	if got := a.Selection().Label; got != LabelCameraError {
		t.Errorf("Label = %q, want %q", got, LabelCameraError)
	}
}

func TestApp_MissingDetection(t *testing.T) {
	spread := &detector.Detection{Hands: []detector.HandLandmarks{
		detector.OpenPalmAt(0.2, 0.8),
		detector.OpenPalmAt(0.8, 0.8),
	}}

	t.Run("holds while hands were last seen", func(t *testing.T) {
		a := New(testConfig(newFakeClock()), nil)
		for i := 0; i < 30; i++ {
			a.Step(spread)
		}
		held := a.State().Expansion
		if held <= 0 {
			t.Fatalf("Expansion = %f, want > 0 with spread hands", held)
		}

		for i := 0; i < 10; i++ {
			a.Step(nil)
		}
		if got := a.State().Expansion; got != held {
			t.Errorf("Expansion changed without a detection: %f -> %f", held, got)
		}
	})

	t.Run("keeps decaying after an empty detection", func(t *testing.T) {
		a := New(testConfig(newFakeClock()), nil)
		for i := 0; i < 60; i++ {
			a.Step(spread)
		}
		held := a.State().Expansion

		a.Step(&detector.Detection{})
		prev := a.State().Expansion
		if math.Abs(prev-held*0.95) > 1e-9 {
			t.Fatalf("Expansion = %f after an empty detection, want %f", prev, held*0.95)
		}
		if got := a.State().Hands; len(got) != 0 {
			t.Errorf("Hands = %d, want 0", len(got))
		}

		for i := 0; i < 20; i++ {
			a.Step(nil)
			got := a.State().Expansion
			if math.Abs(got-prev*0.95) > 1e-9 {
				t.Fatalf("tick %d: Expansion = %f, want %f", i, got, prev*0.95)
			}
			prev = got
		}
		for i := 0; i < 500; i++ {
			a.Step(nil)
		}
		if got := a.State().Expansion; got > 1e-9 {
			t.Errorf("Expansion = %g after a long empty stretch, want ~0", got)
		}
	})

	t.Run("source without fresh detections", func(t *testing.T) {
		a := New(testConfig(newFakeClock()), nil)
		for i := 0; i < 60; i++ {
			a.Step(spread)
		}
		src := &queueSource{queue: []detector.Detection{{}}}
		a.SetSource(src)

		a.Tick()
		first := a.State().Expansion
		for i := 0; i < 10; i++ {
			a.Tick()
		}
		if got := a.State().Expansion; got >= first {
			t.Errorf("Expansion = %f, want below %f once the source goes quiet", got, first)
		}
	})
}

func TestApp_Tick(t *testing.T) {
	clock := newFakeClock()
	src := &queueSource{queue: []detector.Detection{*palm(0.5), *palm(0.55), *palm(0.5)}}
	a := New(testConfig(clock), src)

	for i := 0; i < 5; i++ {
		a.Tick()
		clock.Advance(33 * time.Millisecond)
	}

	if src.polls != 5 {
		t.Errorf("polled %d times, want 5", src.polls)
	}
	if a.Selection().Shape != particle.Flower {
		t.Errorf("Shape = %s, want FLOWER", a.Selection().Shape)
	}
	if a.State().Frame != 5 {
		t.Errorf("Frame = %d, want 5", a.State().Frame)
	}

	a.SetSource(nil)
	a.Tick()
	if a.State().Frame != 6 {
		t.Errorf("Frame = %d, want 6", a.State().Frame)
	}
}

func TestApp_Apply(t *testing.T) {
	tests := []struct {
		name    string
		intents []Intent
		check   func(t *testing.T, sel Selection)
		wantErr bool
	}{
		{
			name:    "set shape",
			intents: []Intent{{Action: ActionSetShape, Shape: "fireworks"}},
			check: func(t *testing.T, sel Selection) {
				if sel.Shape != particle.Fireworks {
					t.Errorf("Shape = %s", sel.Shape)
				}
			},
		},
		{
			name:    "next shape",
			intents: []Intent{{Action: ActionNextShape}, {Action: ActionNextShape}},
			check: func(t *testing.T, sel Selection) {
				if sel.Shape != particle.Fireworks {
					t.Errorf("Shape = %s", sel.Shape)
				}
			},
		},
		{
			name:    "set colour normalizes case",
			intents: []Intent{{Action: ActionSetColor, Color: " #9D00FF "}},
			check: func(t *testing.T, sel Selection) {
				if sel.Color != "#9d00ff" {
					t.Errorf("Color = %q", sel.Color)
				}
			},
		},
		{
			name:    "cycle colour",
			intents: []Intent{{Action: ActionCycleColor}},
			check: func(t *testing.T, sel Selection) {
				if sel.Color != "#00f3ff" {
					t.Errorf("Color = %q", sel.Color)
				}
			},
		},
		{
			name:    "debug",
			intents: []Intent{{Action: ActionSetDebug, Debug: false}},
			check: func(t *testing.T, sel Selection) {
				if sel.Debug {
					t.Error("Debug still on")
				}
			},
		},
		{
			name:    "toggle debug twice",
			intents: []Intent{{Action: ActionToggleDebug}, {Action: ActionToggleDebug}},
			check: func(t *testing.T, sel Selection) {
				if !sel.Debug {
					t.Error("Debug should be back on")
				}
			},
		},
		{name: "bad shape", intents: []Intent{{Action: ActionSetShape, Shape: "cube"}}, wantErr: true},
		{name: "bad colour", intents: []Intent{{Action: ActionSetColor, Color: "pink"}}, wantErr: true},
		{name: "unknown action", intents: []Intent{{Action: "explode"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(testConfig(newFakeClock()), nil)
			before := a.Selection()

			var err error
			for _, in := range tt.intents {
				if err = a.Apply(in); err != nil {
					break
				}
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if a.Selection() != before {
					t.Error("failed intent changed the selection")
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			tt.check(t, a.Selection())
		})
	}
}

func TestApp_ColorIntentRecolorsPool(t *testing.T) {
	a := New(testConfig(newFakeClock()), nil)
	a.Step(nil)

	if err := a.Apply(Intent{Action: ActionSetColor, Color: "#00f3ff"}); err != nil {
		t.Fatal(err)
	}
	a.Step(nil)

	cyan, _ := render.ParseHex("#00f3ff")
	for i, p := range a.Particles() {
		if p.Color != cyan {
			t.Fatalf("particle %d colour = %v, want %v", i, p.Color, cyan)
		}
	}
	if a.Selection().Shape != particle.Heart {
		t.Error("colour change should not change the shape")
	}
}

func TestApp_Resize(t *testing.T) {
	a := New(testConfig(newFakeClock()), nil)
	a.Step(nil)

	a.Resize(200, 100)
	a.Step(nil)

	st := a.State()
	if st.Width != 200 || st.Height != 100 {
		t.Errorf("size = %dx%d, want 200x100", st.Width, st.Height)
	}
	if b := a.Frame().Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("frame bounds = %v", b)
	}
}

func TestApp_RendersFrame(t *testing.T) {
	a := New(testConfig(newFakeClock()), nil)
	for i := 0; i < 20; i++ {
		a.Step(nil)
	}

	lit := 0
	a.ViewFrame(func(img *image.RGBA) {
		for i := 0; i < len(img.Pix); i += 4 {
			if img.Pix[i] > 0 || img.Pix[i+2] > 0 {
				lit++
			}
		}
	})
	if lit == 0 {
		t.Error("no pixels painted after 20 ticks")
	}

	snap := a.Frame()
	a.Resize(10, 10)
	if snap.Bounds().Dx() != 400 {
		t.Error("Frame() should be a copy unaffected by later resizes")
	}
}

func TestApp_HeartConverges(t *testing.T) {
	cfg := testConfig(newFakeClock())
	cfg.Particle.Count = 1000
	cfg.Width, cfg.Height = 800, 600
	a := New(cfg, nil)

	for i := 0; i < 200; i++ {
		a.Step(&detector.Detection{})
	}

	particles := a.Particles()
	integ := particle.NewIntegrator(cfg.Particle, 0)
	scale := integ.Scale(particle.Viewport{Width: 800, Height: 600}, 0)

	var mx, my, tx, ty float64
	for _, p := range particles {
		mx += p.X
		my += p.Y
		tx += 400 + p.LX*scale
		ty += 300 + p.LY*scale
	}
	n := float64(len(particles))
	mx, my, tx, ty = mx/n, my/n, tx/n, ty/n

	tol := 0.01 * 600
	if math.Abs(mx-tx) > tol || math.Abs(my-ty) > tol {
		t.Errorf("mean position (%f, %f), want within %f of (%f, %f)", mx, my, tol, tx, ty)
	}
	if math.Abs(tx-400) > 0.25*600 || math.Abs(ty-300) > 0.25*600 {
		t.Errorf("heart centroid (%f, %f) far from viewport centre", tx, ty)
	}
}

package view

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/detector"
	"github.com/ayusman/particleflow/internal/particle"
)

func newTestApp() *app.App {
	cfg := app.DefaultConfig()
	cfg.Particle.Count = 100
	cfg.Width = 80
	cfg.Height = 60
	return app.New(cfg, nil)
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  rune
		want Command
	}{
		{'1', Command{Intent: app.Intent{Action: app.ActionSetShape, Shape: "HEART"}, HasIntent: true}},
		{'2', Command{Intent: app.Intent{Action: app.ActionSetShape, Shape: "FLOWER"}, HasIntent: true}},
		{'3', Command{Intent: app.Intent{Action: app.ActionSetShape, Shape: "FIREWORKS"}, HasIntent: true}},
		{'c', Command{Intent: app.Intent{Action: app.ActionCycleColor}, HasIntent: true}},
		{'D', Command{Intent: app.Intent{Action: app.ActionToggleDebug}, HasIntent: true}},
		{'f', Command{Fullscreen: true}},
		{'Q', Command{Quit: true}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got, ok := KeyCommand(tt.key)
			if !ok {
				t.Fatal("key not mapped")
			}
			if got != tt.want {
				t.Errorf("KeyCommand(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}

	if _, ok := KeyCommand('x'); ok {
		t.Error("unmapped key reported as mapped")
	}
}

func TestDispatch(t *testing.T) {
	a := newTestApp()

	for _, r := range "3cd" {
		cmd, _ := KeyCommand(r)
		if dispatch(a, cmd) {
			t.Fatalf("key %q asked to quit", r)
		}
	}

	sel := a.Selection()
	if sel.Shape != particle.Fireworks || sel.Color != "#00f3ff" || sel.Debug {
		t.Errorf("selection = %+v", sel)
	}

	cmd, _ := KeyCommand('q')
	if !dispatch(a, cmd) {
		t.Error("q did not quit")
	}
}

func TestOverlayText(t *testing.T) {
	if got := overlayText(app.State{}); got != app.HintWave {
		t.Errorf("overlayText() = %q, want hint", got)
	}
	st := app.State{Selection: app.Selection{Label: app.LabelWave}}
	if got := overlayText(st); got != app.LabelWave {
		t.Errorf("overlayText() = %q, want label", got)
	}
}

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func TestTerminal_Draw(t *testing.T) {
	a := newTestApp()
	a.Step(&detector.Detection{Hands: []detector.HandLandmarks{detector.OpenPalmAt(0.5, 0.5)}})

	s := newSimScreen(t, 20, 10)
	term := NewTerminal(a, s, 30)
	term.draw()

	const cols, rows = 20, 10
	if r, _, _, _ := s.GetContent(0, 0); r != '▀' {
		t.Errorf("cell 0 = %q, want half block", r)
	}

	// Debug is on by default, so the bottom row holds the hint.
	var bottom []rune
	for x := 0; x < 4; x++ {
		r, _, _, _ := s.GetContent(x, rows-1)
		bottom = append(bottom, r)
	}
	if got := string(bottom); got != "Wave" {
		t.Errorf("status row starts %q", got)
	}

	joints := 0
	for y := 0; y < rows-1; y++ {
		for x := 0; x < cols; x++ {
			if r, _, _, _ := s.GetContent(x, y); r == '•' {
				joints++
			}
		}
	}
	if joints == 0 {
		t.Error("no hand joints drawn")
	}
}

func TestTerminal_Handle(t *testing.T) {
	a := newTestApp()
	s := newSimScreen(t, 20, 10)
	term := NewTerminal(a, s, 0)

	if term.handleKey(tcell.KeyRune, '2') {
		t.Fatal("'2' asked to quit")
	}
	if a.Selection().Shape != particle.Flower {
		t.Errorf("shape = %v, want FLOWER", a.Selection().Shape)
	}
	if term.handleKey(tcell.KeyRune, 'x') {
		t.Error("unmapped key asked to quit")
	}
	if term.handleKey(tcell.KeyUp, 0) {
		t.Error("arrow key asked to quit")
	}
	if !term.handleKey(tcell.KeyEscape, 0) {
		t.Error("Esc did not quit")
	}
	if !term.handleKey(tcell.KeyRune, 'q') {
		t.Error("q did not quit")
	}
}

package view

import (
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/render"
)

var keyRunes = map[ebiten.Key]rune{
	ebiten.KeyDigit1:  '1',
	ebiten.KeyDigit2:  '2',
	ebiten.KeyDigit3:  '3',
	ebiten.KeyNumpad1: '1',
	ebiten.KeyNumpad2: '2',
	ebiten.KeyNumpad3: '3',
	ebiten.KeyC:       'c',
	ebiten.KeyD:       'd',
	ebiten.KeyF:       'f',
	ebiten.KeyQ:       'q',
	ebiten.KeyEscape:  'q',
}

// Game drives the App from ebiten's update loop and draws its canvas.
type Game struct {
	app    *app.App
	width  int
	height int
	quit   atomic.Bool
}

// NewGame creates a window front end for a.
func NewGame(a *app.App) *Game {
	st := a.State()
	return &Game{app: a, width: st.Width, height: st.Height}
}

// Update handles key presses and advances the swarm by one tick.
func (g *Game) Update() error {
	for key, r := range keyRunes {
		if !inpututil.IsKeyJustPressed(key) {
			continue
		}
		cmd, _ := KeyCommand(r)
		if cmd.Fullscreen {
			ebiten.SetFullscreen(!ebiten.IsFullscreen())
		}
		if dispatch(g.app, cmd) {
			g.quit.Store(true)
		}
	}
	if g.quit.Load() {
		return ebiten.Termination
	}

	g.app.Tick()
	return nil
}

// Quit ends the run loop at the next update. It is safe to call from any goroutine.
func (g *Game) Quit() {
	g.quit.Store(true)
}

// Draw uploads the canvas and, in debug mode, the hand overlay and label.
func (g *Game) Draw(screen *ebiten.Image) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	g.app.ViewFrame(func(img *image.RGBA) {
		// The canvas lags a resize by one tick.
		if len(img.Pix) == 4*sw*sh {
			screen.WritePixels(img.Pix)
		}
	})

	st := g.app.State()
	if !st.Debug {
		return
	}
	drawOverlay(screen, st)
}

// Layout resizes the canvas to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.app.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func drawOverlay(screen *ebiten.Image, st app.State) {
	base, err := render.ParseHex(st.Color)
	if err != nil {
		base = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	line := render.Lighten(base, 0.6)

	segs, joints := render.Skeleton(st.Hands, st.Width, st.Height, true)
	for _, s := range segs {
		vector.StrokeLine(screen, float32(s.X1), float32(s.Y1), float32(s.X2), float32(s.Y2), 2, line, true)
	}
	for _, j := range joints {
		vector.DrawFilledCircle(screen, float32(j[0]), float32(j[1]), 3, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
	}

	ebitenutil.DebugPrintAt(screen, overlayText(st), 10, 10)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %s  expansion %.2f  %d particles  %.0f TPS",
		st.Shape, st.Color, st.Expansion, st.Particles, ebiten.ActualTPS()), 10, 26)
}

// overlayText is the gesture label when one is showing, otherwise the hint.
func overlayText(st app.State) string {
	if st.Label != "" {
		return st.Label
	}
	return app.HintWave
}

// RunWindow opens a window and runs g until it quits or the window closes.
func RunWindow(g *Game, title string) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}

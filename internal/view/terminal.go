package view

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/render"
)

// Terminal drives the App at a fixed rate and draws it with half-block
// characters, two canvas samples per cell.
type Terminal struct {
	app      *app.App
	screen   tcell.Screen
	interval time.Duration
}

// NewTerminal creates a terminal front end. The screen must not be initialised.
func NewTerminal(a *app.App, screen tcell.Screen, fps int) *Terminal {
	if fps <= 0 {
		fps = 30
	}
	return &Terminal{app: a, screen: screen, interval: time.Second / time.Duration(fps)}
}

// Run draws until ctx is done or the user quits.
func (t *Terminal) Run(ctx context.Context) error {
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer t.screen.Fini()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if t.handle(ev) {
				return nil
			}
		case <-ticker.C:
			t.app.Tick()
			t.draw()
		}
	}
}

// handle processes one event and reports whether to quit.
func (t *Terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return t.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return false
}

func (t *Terminal) handleKey(key tcell.Key, r rune) bool {
	if key == tcell.KeyEscape || key == tcell.KeyCtrlC {
		return true
	}
	if key != tcell.KeyRune {
		return false
	}
	cmd, ok := KeyCommand(r)
	if !ok {
		return false
	}
	return dispatch(t.app, cmd)
}

func (t *Terminal) draw() {
	cols, rows := t.screen.Size()
	st := t.app.State()
	canvasRows := rows
	if st.Debug && rows > 1 {
		canvasRows = rows - 1
	}

	var cells []render.Cell
	t.app.ViewFrame(func(img *image.RGBA) {
		cells = render.HalfBlocks(img, cols, canvasRows)
	})

	t.screen.Clear()
	for i, c := range cells {
		style := tcell.StyleDefault.
			Foreground(tcell.NewRGBColor(int32(c.Top.R), int32(c.Top.G), int32(c.Top.B))).
			Background(tcell.NewRGBColor(int32(c.Bottom.R), int32(c.Bottom.G), int32(c.Bottom.B)))
		t.screen.SetContent(i%cols, i/cols, '▀', nil, style)
	}

	if st.Debug && st.Width > 0 && st.Height > 0 {
		_, joints := render.Skeleton(st.Hands, st.Width, st.Height, true)
		jointStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
		for _, j := range joints {
			x := int(j[0] * float64(cols) / float64(st.Width))
			y := int(j[1] * float64(canvasRows) / float64(st.Height))
			if x >= 0 && x < cols && y >= 0 && y < canvasRows {
				t.screen.SetContent(x, y, '•', nil, jointStyle)
			}
		}
		drawText(t.screen, 0, rows-1, fmt.Sprintf("%s  %s %s  expansion %.2f", overlayText(st), st.Shape, st.Color, st.Expansion))
	}
	t.screen.Show()
}

func drawText(s tcell.Screen, x, y int, text string) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// Package tray provides a system tray menu for switching the swarm's shape,
// colour and debug overlay without the keyboard.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/particle"
)

// Tray represents the system tray application.
type Tray struct {
	onIntent   func(in app.Intent)
	onSettings func()
	onQuit     func()
	sel        app.Selection
	mu         sync.RWMutex

	// Menu items stored for later updates
	menuShapes   map[particle.Shape]*systray.MenuItem
	menuDebug    *systray.MenuItem
	menuLastWave *systray.MenuItem
}

// New creates a new Tray reflecting the given selection.
func New(sel app.Selection) *Tray {
	return &Tray{
		sel:        sel,
		menuShapes: make(map[particle.Shape]*systray.MenuItem),
	}
}

// OnIntent sets the callback invoked with each menu command.
func (t *Tray) OnIntent(fn func(in app.Intent)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onIntent = fn
}

// OnSettings sets the callback function to be called when the settings menu item is clicked.
func (t *Tray) OnSettings(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettings = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and unblocks Run.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Particleflow")
	systray.SetTooltip("Particleflow gesture swarm")

	t.mu.Lock()
	shapes := []particle.Shape{particle.Heart, particle.Flower, particle.Fireworks}
	for _, s := range shapes {
		t.menuShapes[s] = systray.AddMenuItemCheckbox(s.String(), "Switch to "+s.String(), s == t.sel.Shape)
	}
	systray.AddSeparator()

	menuColor := systray.AddMenuItem("Next Colour", "Cycle the particle colour")
	t.menuDebug = systray.AddMenuItemCheckbox("Debug Overlay", "Show hand skeleton and gesture label", t.sel.Debug)
	systray.AddSeparator()

	t.menuLastWave = systray.AddMenuItem("Last wave: none", "Last detected wave")
	t.menuLastWave.Disable()
	systray.AddSeparator()

	menuSettings := systray.AddMenuItem("Open in Browser...", "Open the web preview")
	menuQuit := systray.AddMenuItem("Quit", "Quit Particleflow")
	t.mu.Unlock()

	for _, s := range shapes {
		go func(s particle.Shape, item *systray.MenuItem) {
			for range item.ClickedCh {
				t.handleShape(s)
			}
		}(s, t.menuShapes[s])
	}

	go func() {
		for {
			select {
			case <-menuColor.ClickedCh:
				t.emit(app.Intent{Action: app.ActionCycleColor})
			case <-t.menuDebug.ClickedCh:
				t.handleDebug()
			case <-menuSettings.ClickedCh:
				t.handleSettings()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func (t *Tray) handleShape(s particle.Shape) {
	t.emit(app.Intent{Action: app.ActionSetShape, Shape: s.String()})
}

func (t *Tray) handleDebug() {
	t.mu.RLock()
	debug := !t.sel.Debug
	t.mu.RUnlock()
	t.emit(app.Intent{Action: app.ActionSetDebug, Debug: debug})
}

// emit calls the intent callback outside the lock.
func (t *Tray) emit(in app.Intent) {
	t.mu.RLock()
	callback := t.onIntent
	t.mu.RUnlock()

	if callback != nil {
		callback(in)
	}
}

func (t *Tray) handleSettings() {
	t.mu.RLock()
	callback := t.onSettings
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetSelection updates the check marks to match sel.
func (t *Tray) SetSelection(sel app.Selection) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sel = sel

	for s, item := range t.menuShapes {
		if s == sel.Shape {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	if t.menuDebug != nil {
		if sel.Debug {
			t.menuDebug.Check()
		} else {
			t.menuDebug.Uncheck()
		}
	}
}

// SetLastWave updates the last wave display in the menu.
func (t *Tray) SetLastWave(e app.WaveEvent) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastWave != nil {
		t.menuLastWave.SetTitle(lastWaveTitle(e))
	}
}

// Selection returns the selection the menu currently shows.
func (t *Tray) Selection() app.Selection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sel
}

func lastWaveTitle(e app.WaveEvent) string {
	if e.Time.IsZero() {
		return "Last wave: none"
	}
	return "Last wave: " + e.Time.Format("15:04:05") + " → " + e.Shape.String()
}

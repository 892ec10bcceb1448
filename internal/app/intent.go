package app

import (
	"fmt"
	"strings"

	"github.com/ayusman/particleflow/internal/particle"
	"github.com/ayusman/particleflow/internal/render"
)

// Action names a manual change to the selection.
type Action string

const (
	ActionSetShape    Action = "shape"
	ActionNextShape   Action = "next_shape"
	ActionSetColor    Action = "color"
	ActionCycleColor  Action = "cycle_color"
	ActionSetDebug    Action = "debug"
	ActionToggleDebug Action = "toggle_debug"
)

// Intent is a manual command from the keyboard, the tray or the HTTP API.
type Intent struct {
	Action Action `json:"action"`
	Shape  string `json:"shape,omitempty"`
	Color  string `json:"color,omitempty"`
	Debug  bool   `json:"debug,omitempty"`
}

// Apply changes the selection. The pool picks up shape and colour changes on
// the next tick.
func (a *App) Apply(in Intent) error {
	var (
		shape particle.Shape
		err   error
	)
	switch in.Action {
	case ActionSetShape:
		if shape, err = particle.ParseShape(in.Shape); err != nil {
			return err
		}
	case ActionSetColor:
		if _, err = render.ParseHex(in.Color); err != nil {
			return err
		}
	case ActionNextShape, ActionCycleColor, ActionSetDebug, ActionToggleDebug:
	default:
		return fmt.Errorf("unknown action %q", in.Action)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch in.Action {
	case ActionSetShape:
		a.sel.Shape = shape
	case ActionNextShape:
		a.sel.Shape = a.sel.Shape.Next()
	case ActionSetColor:
		a.sel.Color = strings.ToLower(strings.TrimSpace(in.Color))
	case ActionCycleColor:
		a.sel.Color = render.NextColor(a.sel.Color)
	case ActionSetDebug:
		a.sel.Debug = in.Debug
	case ActionToggleDebug:
		a.sel.Debug = !a.sel.Debug
	}
	return nil
}

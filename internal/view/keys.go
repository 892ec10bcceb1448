// Package view presents the swarm in a window (ebiten) or a terminal (tcell)
// and turns key presses into intents.
package view

import (
	"log"
	"unicode"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/particle"
)

// Command is what a key press asks for.
type Command struct {
	Intent     app.Intent
	HasIntent  bool
	Quit       bool
	Fullscreen bool
}

// KeyCommand maps a key to a command. Letters are case-insensitive.
func KeyCommand(r rune) (Command, bool) {
	switch unicode.ToLower(r) {
	case '1':
		return shapeCommand(particle.Heart), true
	case '2':
		return shapeCommand(particle.Flower), true
	case '3':
		return shapeCommand(particle.Fireworks), true
	case 'c':
		return Command{Intent: app.Intent{Action: app.ActionCycleColor}, HasIntent: true}, true
	case 'd':
		return Command{Intent: app.Intent{Action: app.ActionToggleDebug}, HasIntent: true}, true
	case 'f':
		return Command{Fullscreen: true}, true
	case 'q':
		return Command{Quit: true}, true
	}
	return Command{}, false
}

func shapeCommand(s particle.Shape) Command {
	return Command{Intent: app.Intent{Action: app.ActionSetShape, Shape: s.String()}, HasIntent: true}
}

// dispatch applies the command's intent and reports whether it asks to quit.
func dispatch(a *app.App, cmd Command) bool {
	if cmd.HasIntent {
		if err := a.Apply(cmd.Intent); err != nil {
			log.Printf("Key intent %s: %v", cmd.Intent.Action, err)
		}
	}
	return cmd.Quit
}

// Package plugin runs external programs in response to swarm events. Each
// plugin lives in its own directory with a plugin.json manifest and receives
// one JSON request on stdin per event.
package plugin

import "encoding/json"

// EventWave is sent after a wave switches the shape.
const EventWave = "wave"

// Manifest describes a plugin's metadata and the events it handles.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Request is written to the plugin's stdin.
type Request struct {
	Event  string          `json:"event"`
	Shape  string          `json:"shape"`
	Color  string          `json:"color"`
	TimeMs int64           `json:"time_ms"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the plugin subscribes to event. A manifest with no
// events subscribes to all of them.
func (p *Plugin) Handles(event string) bool {
	if len(p.Manifest.Events) == 0 {
		return true
	}
	for _, e := range p.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}

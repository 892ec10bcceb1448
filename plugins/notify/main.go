// Package main is a plugin that shows a desktop notification when a wave
// switches the swarm's shape.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ncruces/zenity"
)

// Request is the input from the plugin executor.
type Request struct {
	Event  string          `json:"event"`
	Shape  string          `json:"shape"`
	Color  string          `json:"color"`
	TimeMs int64           `json:"time_ms"`
	Config json.RawMessage `json:"config"`
}

// Response is the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config is read from the manifest.
type Config struct {
	// Title overrides the notification title.
	Title string `json:"title"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg := Config{Title: "Particleflow"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	if req.Event != "wave" {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}

	text := message(req)
	if err := zenity.Notify(text, zenity.Title(cfg.Title), zenity.InfoIcon); err != nil {
		writeErrorResponse(fmt.Sprintf("notify failed: %v", err))
		return
	}
	writeSuccessResponse(text)
}

// message is the notification body for a wave.
func message(req Request) string {
	shape := strings.ToLower(req.Shape)
	if shape == "" {
		shape = "next shape"
	}
	msg := fmt.Sprintf("Wave detected: switched to %s", shape)
	if req.Color != "" {
		msg += " in " + req.Color
	}
	if req.TimeMs > 0 {
		msg += " at " + time.UnixMilli(req.TimeMs).Format("15:04:05")
	}
	return msg
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse(text string) {
	data, _ := json.Marshal(map[string]string{"message": text})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

// Package server exposes the running swarm over HTTP: state and control,
// a websocket feed of hand landmarks and MJPEG streams of the canvas and camera.
package server

import (
	"encoding/json"
	"image"
	"net/http"
	"time"

	"github.com/ayusman/particleflow/internal/app"
	"github.com/ayusman/particleflow/internal/server/api"
	"github.com/ayusman/particleflow/internal/store"
)

// Controller is the part of the application the server drives.
type Controller interface {
	State() app.State
	Apply(in app.Intent) error
	Frame() *image.RGBA
}

// PreviewSource supplies annotated camera frames as JPEG.
type PreviewSource interface {
	Preview() ([]byte, error)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       Controller
	Preview   PreviewSource
	// StreamInterval is the delay between MJPEG and websocket frames.
	StreamInterval time.Duration
}

// Server is the HTTP front end.
type Server struct {
	config    Config
	mux       *http.ServeMux
	start     time.Time
	landmarks *LandmarksHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	if config.StreamInterval <= 0 {
		config.StreamInterval = 66 * time.Millisecond
	}
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Store != nil {
		recordings := api.NewRecordingHandler(s.config.Store)
		s.mux.Handle("/api/recordings", recordings)
		s.mux.Handle("/api/recordings/", recordings)
		s.mux.Handle("/api/events", api.NewEventsHandler(s.config.Store))
	}

	if s.config.App != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/control", s.handleControl)

		s.landmarks = NewLandmarksHandler(s.config.App, s.config.StreamInterval)
		s.mux.Handle("/api/landmarks", s.landmarks)

		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App, s.config.Preview, s.config.StreamInterval))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// NotifyWave pushes a wave event to websocket clients.
func (s *Server) NotifyWave(e app.WaveEvent) {
	if s.landmarks != nil {
		s.landmarks.NotifyWave(e)
	}
}

// Close stops background broadcasting.
func (s *Server) Close() {
	if s.landmarks != nil {
		s.landmarks.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.config.App.State())
}

// handleControl applies a manual intent, e.g. {"action":"shape","shape":"FLOWER"}.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var in app.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}
	if err := s.config.App.Apply(in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.config.App.State().Selection)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

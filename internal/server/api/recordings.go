// Package api provides the REST handlers for stored recordings and gesture events.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/particleflow/internal/store"
)

// RecordingHandler handles HTTP requests for recording resources.
type RecordingHandler struct {
	store *store.Store
}

// NewRecordingHandler creates a new RecordingHandler with the given store.
func NewRecordingHandler(s *store.Store) *RecordingHandler {
	return &RecordingHandler{store: s}
}

// ServeHTTP routes requests.
//
//	GET    /api/recordings              list
//	POST   /api/recordings              import a recording with its frames
//	GET    /api/recordings/{id}         metadata
//	PUT    /api/recordings/{id}         rename
//	DELETE /api/recordings/{id}         delete
//	GET    /api/recordings/{id}/frames  recorded frames
//	GET    /api/recordings/{id}/events  wave events
func (h *RecordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/recordings")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]

	if len(parts) == 2 {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		switch parts[1] {
		case "frames":
			h.frames(w, r, id)
		case "events":
			h.events(w, r, id)
		default:
			writeError(w, http.StatusNotFound, "Not found")
		}
		return
	}
	if len(parts) > 2 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.rename(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createRecordingRequest struct {
	Name   string        `json:"name"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Frames []store.Frame `json:"frames"`
}

type renameRecordingRequest struct {
	Name string `json:"name"`
}

type recordingResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Frames     int    `json:"frames"`
	DurationMs int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type listRecordingsResponse struct {
	Recordings []recordingResponse `json:"recordings"`
}

type framesResponse struct {
	RecordingID string        `json:"recording_id"`
	Frames      []store.Frame `json:"frames"`
}

type eventsResponse struct {
	Events []store.Event `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *RecordingHandler) toResponse(rec *store.Recording) recordingResponse {
	resp := recordingResponse{
		ID:        rec.ID,
		Name:      rec.Name,
		Width:     rec.Width,
		Height:    rec.Height,
		Frames:    rec.Frames,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}
	if span, err := h.store.Recordings().Span(rec.ID); err == nil {
		resp.DurationMs = span.Duration().Milliseconds()
	}
	return resp
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// notFoundOr500 maps store errors onto a response.
func notFoundOr500(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Recording not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to "+action)
}

func (h *RecordingHandler) list(w http.ResponseWriter, r *http.Request) {
	recordings, err := h.store.Recordings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list recordings")
		return
	}

	response := listRecordingsResponse{
		Recordings: make([]recordingResponse, 0, len(recordings)),
	}
	for _, rec := range recordings {
		response.Recordings = append(response.Recordings, h.toResponse(rec))
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *RecordingHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	rec, err := h.store.Recordings().GetByID(id)
	if err != nil {
		notFoundOr500(w, err, "get recording")
		return
	}
	writeJSON(w, http.StatusOK, h.toResponse(rec))
}

func (h *RecordingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	for _, f := range req.Frames {
		for _, hand := range f.Hands {
			if len(hand.Landmarks) != 21 {
				writeError(w, http.StatusBadRequest, "Each hand needs 21 landmarks")
				return
			}
		}
	}

	rec := &store.Recording{Name: req.Name, Width: req.Width, Height: req.Height}
	if err := h.store.Recordings().Create(rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create recording")
		return
	}
	for i := range req.Frames {
		if _, err := h.store.Recordings().AppendFrame(rec.ID, &req.Frames[i]); err != nil {
			h.store.Recordings().Delete(rec.ID)
			writeError(w, http.StatusInternalServerError, "Failed to store frames")
			return
		}
	}
	rec.Frames = len(req.Frames)

	writeJSON(w, http.StatusCreated, h.toResponse(rec))
}

func (h *RecordingHandler) rename(w http.ResponseWriter, r *http.Request, id string) {
	var req renameRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := h.store.Recordings().Rename(id, req.Name); err != nil {
		notFoundOr500(w, err, "rename recording")
		return
	}
	h.get(w, r, id)
}

func (h *RecordingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Recordings().Delete(id); err != nil {
		notFoundOr500(w, err, "delete recording")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecordingHandler) frames(w http.ResponseWriter, r *http.Request, id string) {
	frames, err := h.store.Recordings().Frames(id)
	if err != nil {
		notFoundOr500(w, err, "load frames")
		return
	}
	if frames == nil {
		frames = []store.Frame{}
	}
	writeJSON(w, http.StatusOK, framesResponse{RecordingID: id, Frames: frames})
}

func (h *RecordingHandler) events(w http.ResponseWriter, r *http.Request, id string) {
	if _, err := h.store.Recordings().GetByID(id); err != nil {
		notFoundOr500(w, err, "get recording")
		return
	}
	events, err := h.store.Events().ByRecording(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	if events == nil {
		events = []store.Event{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

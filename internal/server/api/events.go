package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/particleflow/internal/store"
)

// EventsHandler serves the most recent gesture events across all sessions.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

// ServeHTTP handles GET /api/events?limit=N.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 1000 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	events, err := h.store.Events().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	if events == nil {
		events = []store.Event{}
	}
	writeJSON(w, http.StatusOK, eventsResponse{Events: events})
}

package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/particleflow/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// writeWait bounds each websocket write so a stalled client cannot block the broadcast.
const writeWait = time.Second

// Message is the envelope sent to websocket clients.
type Message struct {
	Type      string         `json:"type"`
	State     *app.State     `json:"state,omitempty"`
	Wave      *app.WaveEvent `json:"wave,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// LandmarksHandler broadcasts the application state, including the tracked
// hands, to websocket clients and pushes wave events as they happen.
type LandmarksHandler struct {
	app      Controller
	interval time.Duration
	clients  map[*websocket.Conn]*sync.Mutex
	mu       sync.RWMutex
	stop     chan struct{}
	once     sync.Once
}

// NewLandmarksHandler creates a handler and starts its broadcast loop.
func NewLandmarksHandler(a Controller, interval time.Duration) *LandmarksHandler {
	h := &LandmarksHandler{
		app:      a,
		interval: interval,
		clients:  make(map[*websocket.Conn]*sync.Mutex),
		stop:     make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LandmarksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = &sync.Mutex{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Clients returns the number of connected clients.
func (h *LandmarksHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NotifyWave sends a wave message to every client.
func (h *LandmarksHandler) NotifyWave(e app.WaveEvent) {
	h.send(Message{Type: "wave", Wave: &e, Timestamp: e.Time.UnixMilli()})
}

// Close stops the broadcast loop.
func (h *LandmarksHandler) Close() {
	h.once.Do(func() { close(h.stop) })
}

func (h *LandmarksHandler) broadcast() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stop:
			return
		case <-ticker.C:
			if h.Clients() == 0 {
				continue
			}
			st := h.app.State()
			h.send(Message{Type: "state", State: &st, Timestamp: time.Now().UnixMilli()})
		}
	}
}

func (h *LandmarksHandler) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("websocket encode error: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn, wmu := range h.clients {
		wmu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("websocket write error: %v", err)
		}
		wmu.Unlock()
	}
}

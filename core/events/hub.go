package events

import (
	"sync"

	"github.com/Abhi-2104/Auralis/logger"
	"github.com/Abhi-2104/Auralis/model"

	"github.com/gorilla/websocket"
)

// EventType names a catalog event.
type EventType string

const (
	// EventSongCreated is published when the extractor writes a new song record.
	EventSongCreated EventType = "song_created"
)

// Event is the message broadcast to connected subscribers.
type Event struct {
	Type EventType   `json:"type"`
	Song *model.Song `json:"song,omitempty"`
}

// Hub fans catalog events out to websocket subscribers. It is a one-way feed;
// client messages are ignored.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// Register adds a subscriber connection.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	logger.Debug("Event subscriber connected", logger.Int("subscribers", len(h.clients)))
}

// Unregister removes a subscriber connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// Publish sends an event to every subscriber. Connections that fail to write
// are dropped. Writes happen under the hub lock, which also satisfies the
// one-writer-per-connection rule of gorilla/websocket.
func (h *Hub) Publish(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteJSON(event); err != nil {
			logger.Warn("Dropping event subscriber", logger.ErrorField(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

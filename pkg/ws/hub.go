// Package ws maintains the set of live websocket subscribers and broadcasts
// twin events to them.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// writeTimeout bounds a single broadcast write so one stuck client cannot
// block the rest.
const writeTimeout = 3 * time.Second

// Event is one named push message.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Hub tracks connected clients. Broadcast drops clients whose writes fail.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// Add registers a connection and returns the new subscriber count.
func (h *Hub) Add(conn *websocket.Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	return len(h.clients)
}

// Remove unregisters a connection and returns the remaining count.
func (h *Hub) Remove(conn *websocket.Conn) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	return len(h.clients)
}

// Count returns the current subscriber count.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends an event to every client, closing and dropping any
// connection whose write fails.
func (h *Hub) Broadcast(event string, payload any) {
	message, err := json.Marshal(Event{Event: event, Payload: payload})
	if err != nil {
		return
	}

	h.mu.Lock()
	for conn := range h.clients {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "")
			delete(h.clients, conn)
		}
	}
	h.mu.Unlock()
}

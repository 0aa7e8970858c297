package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client
type Client struct {
	Hub    *Hub
	UserID string
	Role   string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Event is a complaint lifecycle notification pushed to dashboards.
type Event struct {
	Type        string    `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	ActorID     string    `json:"actor_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	EventComplaintCreated   = "complaint_created"
	EventComplaintReferred  = "complaint_referred"
	EventComplaintResponded = "complaint_responded"
	EventComplaintReturned  = "complaint_returned"
	EventComplaintClosed    = "complaint_closed"
)

// Hub manages all WebSocket connections, one client per user id.
type Hub struct {
	Clients map[string]*Client

	Register   chan *Client
	Unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			if old, ok := h.Clients[client.UserID]; ok {
				close(old.Send)
			}
			h.Clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("WebSocket client connected: %s (%s)", client.UserID, client.Role)

		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.UserID]; ok && current == client {
				delete(h.Clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
			log.Printf("WebSocket client disconnected: %s", client.UserID)
		}
	}
}

// NotifyUsers fans an event out to the given user ids. Sends are
// non-blocking; a client with a full buffer is skipped.
func (h *Hub) NotifyUsers(userIDs []string, evt *Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range userIDs {
		client, ok := h.Clients[id]
		if !ok {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			log.Printf("⚠️ Dropping event for slow client %s", id)
		}
	}
}

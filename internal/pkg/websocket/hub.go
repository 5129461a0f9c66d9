package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/registrar/internal/app/models"
)

// publishBuffer bounds the events waiting for the hub loop
const publishBuffer = 256

// Hub maintains the set of active clients and broadcasts registration events to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Events published by the registration service
	broadcast chan models.Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Token ids whose connections must be closed
	revoke chan string

	// Closed when Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan models.Event, publishBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		revoke:     make(chan string),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run handles client registrations and broadcasts until ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case tokenID := <-h.revoke:
			h.closeToken(tokenID)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues an event for broadcast. It never blocks; events are dropped when the queue is full.
func (h *Hub) Publish(event models.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().
			Str("type", string(event.Type)).
			Msg("Event queue full, dropping event")
	}
}

// Register adds a client unless the hub has stopped
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client unless the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// CloseToken disconnects every client opened with the token id. It is a no-op
// once the hub has stopped.
func (h *Hub) CloseToken(tokenID string) {
	if tokenID == "" {
		return
	}
	select {
	case h.revoke <- tokenID:
	case <-h.done:
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("clientID", client.id).
		Str("role", string(client.session.Role())).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
}

// removeLocked drops a client and closes its send channel. Caller holds mu.
func (h *Hub) removeLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	h.logger.Info().
		Str("clientID", client.id).
		Msg("Client unregistered")
}

func (h *Hub) closeToken(tokenID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	closed := 0
	for client := range h.clients {
		if client.tokenID == tokenID {
			h.removeLocked(client)
			closed++
		}
	}
	if closed > 0 {
		h.logger.Info().Int("clients", closed).Msg("Closed connections of a revoked token")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		h.removeLocked(client)
	}
}

// broadcastEvent sends the event to every client allowed to see it
func (h *Hub) broadcastEvent(event models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for client := range h.clients {
		visible, ok := client.visible(event)
		if !ok {
			continue
		}

		data, err := json.Marshal(visible)
		if err != nil {
			h.logger.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to marshal event")
			return
		}

		select {
		case client.send <- data:
			delivered++
		default:
			// slow consumer
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Str("type", string(event.Type)).
		Int("clientCount", delivered).
		Msg("Event broadcasted")
}

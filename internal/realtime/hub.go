package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Hub fans row-change events out to the websocket clients of the row's
// owner. Clients of other users never see the event.
type Hub struct {
	clients    map[*Client]bool
	byUser     map[uuid.UUID][]*Client
	register   chan *Client
	unregister chan *Client
	changes    chan *ChangeMessage
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		changes:    make(chan *ChangeMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.changes:
			h.dispatchChange(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.byUser[client.user.ID] = append(h.byUser[client.user.ID], client)

	log.Info().
		Str("userId", client.user.ID.String()).
		Int("totalClients", len(h.clients)).
		Msg("[WS] Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	userClients := h.byUser[client.user.ID]
	for i, c := range userClients {
		if c == client {
			h.byUser[client.user.ID] = append(userClients[:i], userClients[i+1:]...)
			break
		}
	}
	if len(h.byUser[client.user.ID]) == 0 {
		delete(h.byUser, client.user.ID)
	}

	log.Info().
		Str("userId", client.user.ID.String()).
		Int("totalClients", len(h.clients)).
		Msg("[WS] Client unregistered")
}

func (h *Hub) dispatchChange(msg *ChangeMessage) {
	if msg.Application == nil {
		return
	}

	h.mu.RLock()
	owned := h.byUser[msg.Application.UserID]
	clients := make([]*Client, len(owned))
	copy(clients, owned)
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	for _, client := range clients {
		select {
		case client.send <- msg:
		default:
			// Client buffer full, skip this message
			log.Warn().
				Str("userId", client.user.ID.String()).
				Str("action", string(msg.Action)).
				Msg("[WS] Client send buffer full, dropping message")
		}
	}

	log.Debug().
		Str("action", string(msg.Action)).
		Int64("applicationId", msg.Application.ID).
		Int("recipients", len(clients)).
		Msg("[WS] Change dispatched")
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PublishChange queues a row-change event for delivery to the owning
// user's clients.
func (h *Hub) PublishChange(msg *ChangeMessage) {
	h.changes <- msg
}

func (h *Hub) GetStats() (totalClients, totalUsers int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients), len(h.byUser)
}

package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models"
)

// MessageTypeNotification marks a pushed notification frame
const MessageTypeNotification = "notification"

// Message is the frame written to connected clients
type Message struct {
	Type         string               `json:"type"`
	Notification *models.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

type delivery struct {
	userID int64
	data   []byte
}

// Hub maintains the set of active clients and delivers frames to the
// connections of a single user
type Hub struct {
	// Registered clients organized by user ID
	clients map[int64]map[*Client]bool

	deliveries chan delivery
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		deliveries: make(chan delivery, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles registrations and deliveries until ctx is cancelled, then
// closes every remaining client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case d := <-h.deliveries:
			h.deliver(d)
		}
	}
}

// attach hands client to the running hub. It reports false once the hub
// has stopped.
func (h *Hub) attach(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Debug().
		Int64("userID", client.userID).
		Int("connections", len(h.clients[client.userID])).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}

	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Debug().
		Int64("userID", client.userID).
		Msg("Client unregistered")
}

func (h *Hub) deliver(d delivery) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[d.userID]
	if !ok {
		return
	}

	for client := range conns {
		select {
		case client.send <- d.data:
		default:
			// Slow consumer; drop the connection rather than block the hub
			h.logger.Warn().
				Int64("userID", d.userID).
				Msg("Dropping slow websocket client")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, conns := range h.clients {
		for client := range conns {
			h.removeLocked(client)
		}
	}
}

// PushNotification queues n for every open connection of its recipient.
// Delivery is best-effort: a full queue drops the frame.
func (h *Hub) PushNotification(n *models.Notification) {
	if n == nil {
		return
	}

	data, err := json.Marshal(Message{
		Type:         MessageTypeNotification,
		Notification: n,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		h.logger.Error().Err(err).Int64("notificationID", n.ID).Msg("Failed to marshal notification frame")
		return
	}

	select {
	case h.deliveries <- delivery{userID: n.UserID, data: data}:
	default:
		h.logger.Warn().
			Int64("userID", n.UserID).
			Int64("notificationID", n.ID).
			Msg("Websocket delivery queue full, notification not pushed")
	}
}

// GetClientsCount returns the number of open connections for a user
func (h *Hub) GetClientsCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID])
}

package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"offerless/internal/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Event is the envelope of every message pushed to clients.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Hub struct {
	clients   map[*Client]bool
	broadcast chan []byte
	stopped   bool
	mutex     sync.RWMutex
	logger    logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logger.Discard()
	}
	return &Hub{
		clients:   make(map[*Client]bool),
		broadcast: make(chan []byte, 256),
		logger:    log,
	}
}

// Run fans out broadcasts until ctx is cancelled, then closes every client.
// Clients registered after that are closed immediately.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			h.stopped = true
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mutex.Unlock()
			return

		case message := <-h.broadcast:
			h.mutex.RLock()
			snapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				snapshot = append(snapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range snapshot {
				select {
				case client.send <- message:
				default:
					// slow consumer
					h.remove(client)
				}
			}
			h.logger.WithField("clients", len(snapshot)).Debug("ws broadcast")
		}
	}
}

func (h *Hub) remove(client *Client) {
	if client == nil {
		return
	}
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.WithField("total_clients", total).Debug("ws disconnected")
}

func (h *Hub) Register(client *Client) {
	if h == nil || client == nil {
		return
	}
	h.mutex.Lock()
	if h.stopped {
		h.mutex.Unlock()
		close(client.send)
		return
	}
	h.clients[client] = true
	total := len(h.clients)
	h.mutex.Unlock()
	h.logger.WithField("total_clients", total).Debug("ws connected")
}

// Unregister is idempotent and never blocks, also after Run has returned.
func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.remove(client)
}

// Broadcast queues an event for every connected client. It never blocks; a
// full queue drops the event.
func (h *Hub) Broadcast(eventType string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(Event{
		Type:      eventType,
		Data:      payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.WithError(err).Warn("ws event encode failed")
		return
	}

	select {
	case h.broadcast <- b:
	default:
		h.logger.WithField("type", eventType).Warn("ws broadcast dropped, buffer full")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

package ws

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub fans session events out to every connected browser tab. The chat UI
// subscribes so that state written by one tab (or by the server's own timer)
// is reflected everywhere.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	logger *zap.Logger
}

// NewHub creates a hub and starts its dispatch loop
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
	}
	h.logger = logger
	go h.run()
	return h
}

// Broadcast marshals an event envelope and queues it for every client.
// Slow clients are dropped rather than allowed to stall the loop.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		h.logger.Error("failed to marshal ws message", zap.String("event", event), zap.Error(err))
		return
	}
	h.broadcast <- data
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("ws client connected", zap.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("ws client disconnected", zap.Int("clients", len(h.clients)))
			}

		case data := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Package notify fans ticket change events out to connected dashboards.
// Events published on the in-process dispatcher are relayed through a redis
// channel, so every service instance broadcasts to its own websocket
// clients regardless of which instance handled the mutation. Clients treat
// any message as "re-fetch the collection".
package notify

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// client wraps a connection with its write lock. The websocket library
// forbids concurrent writers on one connection, and broadcasts arrive both
// from the redis listener and from request goroutines in the no-redis
// fallback.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks connected websocket clients and broadcasts payloads to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		logger:  logger,
	}
}

// Handle serves one dashboard connection until the client disconnects.
// The read loop only exists to detect closure; clients never send.
func (h *Hub) Handle(conn *websocket.Conn) {
	h.register(conn)
	defer h.unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Broadcast sends the payload to every connected client. Failed clients are
// dropped; a dashboard that lost its socket reconnects and re-fetches.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.write(payload); err != nil {
			h.logger.Debug("dropping websocket client", zap.Error(err))
			h.unregister(c.conn)
			_ = c.conn.Close()
		}
	}
}

// ClientCount reports connected dashboards.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &client{conn: conn}
	h.mu.Unlock()
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

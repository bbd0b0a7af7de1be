// Package relay holds live client sockets and fans post-commit events out to
// them. It keeps no history: a client that is not connected misses the event.
package relay

import (
	"sync"

	"go.uber.org/zap"
)

const defaultClientBuffer = 16

// Client is one registered connection with its own bounded send queue.
type Client struct {
	id   uint64
	send chan []byte
	once sync.Once
}

// Messages yields the payloads queued for this client. It is closed when the
// hub drops or unregisters the client.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

func (c *Client) ID() uint64 {
	return c.id
}

func (c *Client) close() {
	c.once.Do(func() { close(c.send) })
}

type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	nextID  uint64
	buffer  int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultClientBuffer
	}
	return &Hub{clients: make(map[*Client]struct{}), buffer: buffer}
}

func (h *Hub) Register() *Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	client := &Client{id: h.nextID, send: make(chan []byte, h.buffer)}
	h.clients[client] = struct{}{}
	zap.L().Info("relay client connected", zap.Uint64("client_id", client.id), zap.Int("clients", len(h.clients)))
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.close()
	zap.L().Info("relay client disconnected", zap.Uint64("client_id", client.id), zap.Int("clients", len(h.clients)))
}

// Broadcast queues payload for every client without blocking. A client whose
// queue is full is dropped so it cannot hold back the others.
func (h *Hub) Broadcast(payload []byte) (delivered, dropped int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
			delivered++
		default:
			delete(h.clients, client)
			client.close()
			dropped++
			zap.L().Warn("dropping slow relay client", zap.Uint64("client_id", client.id))
		}
	}
	return delivered, dropped
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

package host

import (
	"log/slog"
	"sync"

	"github.com/vango-dev/todoview/pkg/view"
)

// Hub implements todo.Host. It keeps the latest rendered document and fans
// it out to websocket clients.
type Hub struct {
	mu       sync.RWMutex
	html     string
	headline string
	version  uint64
	clients map[string]*client

	metrics *hostMetrics
	logger  *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger.With("component", "hub"),
	}
}

// Render stores node as the current document and queues it for every
// client. It never blocks on a slow client: a client whose buffer is full
// is dropped and reloads on reconnect.
func (h *Hub) Render(node *view.Node) {
	html := view.RenderString(node)
	headline := headlineText(node)

	h.mu.Lock()
	h.html = html
	h.headline = headline
	h.version++
	msg := renderMessage(h.version, html, headline)
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	h.metrics.rendered()

	for _, c := range clients {
		if !c.enqueue(msg) {
			h.logger.Warn("client too slow, dropping", "client_id", c.id)
			h.unregister(c)
			c.close()
		}
	}
}

// Document returns the current document and its version.
func (h *Hub) Document() (string, uint64) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.html, h.version
}

// Headline returns the text of the current document's headline.
func (h *Hub) Headline() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.headline
}

// headlineText is the text below the node with id "headline", or "".
func headlineText(root *view.Node) string {
	return view.TextContent(view.Find(root, func(n *view.Node) bool {
		return n.Props["id"] == "headline"
	}))
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// register adds c and queues the current document for it.
func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	msg := renderMessage(h.version, h.html, h.headline)
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.setClients(n)
	c.enqueue(msg)
	h.logger.Debug("client connected", "client_id", c.id, "clients", n)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c.id]
	delete(h.clients, c.id)
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.metrics.setClients(n)
		h.logger.Debug("client disconnected", "client_id", c.id, "clients", n)
	}
}

// closeAll disconnects every client.
func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.metrics.setClients(0)
}

// Package transport carries server events over websockets.
package transport

import (
	"context"
	"log/slog"
	"sync"

	"goom-server/internal/protocol"
)

const (
	DefaultMaxConnsPerIP = 5
	DefaultMaxConns      = 1000
)

// HubConfig configures a Hub.
type HubConfig struct {
	MaxConnsPerIP int
	MaxConns      int
	Logger        *slog.Logger
	// OnEvent receives every inbound event, including the connection
	// event emitted on register. It must not block.
	OnEvent func(protocol.Event)
	// OnDisconnect is called once per unregistered client.
	OnDisconnect func(id string)
}

// Hub tracks connected clients by connection id.
type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client
	unregister chan *Client
	done       chan struct{}

	// Connection limiting, accessed from HTTP handlers
	connMu     sync.Mutex
	ipConns    map[string]int
	totalConns int

	maxPerIP     int
	maxTotal     int
	logger       *slog.Logger
	onEvent      func(protocol.Event)
	onDisconnect func(id string)
}

// NewHub creates a Hub. Zero limits use the defaults.
func NewHub(cfg HubConfig) *Hub {
	h := &Hub{
		clients:      make(map[string]*Client),
		unregister:   make(chan *Client, 64),
		done:         make(chan struct{}),
		ipConns:      make(map[string]int),
		maxPerIP:     cfg.MaxConnsPerIP,
		maxTotal:     cfg.MaxConns,
		logger:       cfg.Logger,
		onEvent:      cfg.OnEvent,
		onDisconnect: cfg.OnDisconnect,
	}
	if h.maxPerIP <= 0 {
		h.maxPerIP = DefaultMaxConnsPerIP
	}
	if h.maxTotal <= 0 {
		h.maxTotal = DefaultMaxConns
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.onEvent == nil {
		h.onEvent = func(protocol.Event) {}
	}
	if h.onDisconnect == nil {
		h.onDisconnect = func(string) {}
	}
	return h
}

// TryAcquire reserves a connection slot for ip. It reports false when the
// per-IP or total limit is reached. Every successful call must be paired
// with one Release.
func (h *Hub) TryAcquire(ip string) bool {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	if h.totalConns >= h.maxTotal || h.ipConns[ip] >= h.maxPerIP {
		return false
	}
	h.ipConns[ip]++
	h.totalConns++
	return true
}

// Release frees a slot taken by TryAcquire.
func (h *Hub) Release(ip string) {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	h.ipConns[ip]--
	if h.ipConns[ip] <= 0 {
		delete(h.ipConns, ip)
	}
	h.totalConns--
}

// Register adds a client and announces its connection. It runs before the
// client's pumps start so that the connection event precedes its input.
// A client reusing a connected id replaces the old one.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	old := h.clients[client.id]
	h.clients[client.id] = client
	if old != nil {
		close(old.send)
	}
	h.mu.Unlock()
	h.logger.Info("client connected", "id", client.id, "addr", client.remoteAddr)
	h.onEvent(protocol.Event{Type: protocol.TypeConnection, From: client.id})
}

// Run processes unregister requests until ctx is cancelled, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.unregister:
			h.mu.Lock()
			current, ok := h.clients[client.id]
			if ok && current == client {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			if ok && current == client {
				h.logger.Info("client disconnected", "id", client.id)
				h.onDisconnect(client.id)
			}

		case <-ctx.Done():
			h.mu.Lock()
			for id, c := range h.clients {
				close(c.send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast encodes ev once and queues it for every client. Slow clients
// drop the frame.
func (h *Hub) Broadcast(ev protocol.Outgoing) {
	frame, err := encodeFrame(ev)
	if err != nil {
		h.logger.Warn("encode failed", "type", ev.EventType(), "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.trySend(frame)
	}
}

// SendTo queues ev for a single client. Unknown ids are ignored.
func (h *Hub) SendTo(ev protocol.Outgoing, to string) {
	frame, err := encodeFrame(ev)
	if err != nil {
		h.logger.Warn("encode failed", "type", ev.EventType(), "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.clients[to]; ok {
		c.trySend(frame)
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TotalConns returns the tracked connection count.
func (h *Hub) TotalConns() int {
	h.connMu.Lock()
	defer h.connMu.Unlock()
	return h.totalConns
}

// encodeFrame prefixes binary payloads with binaryMarker so the write pump
// can choose the frame type.
func encodeFrame(ev protocol.Outgoing) ([]byte, error) {
	data, binary, err := protocol.Encode(ev)
	if err != nil {
		return nil, err
	}
	if !binary {
		return data, nil
	}
	msg := make([]byte, len(data)+1)
	msg[0] = binaryMarker
	copy(msg[1:], data)
	return msg, nil
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

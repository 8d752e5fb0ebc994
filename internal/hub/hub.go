package hub

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zonera/scoreboard-service/internal/logging"
	"github.com/zonera/scoreboard-service/internal/metrics"
	"github.com/zonera/scoreboard-service/internal/poller"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16

	// MessageTypeRefresh tells clients a new refresh is available.
	MessageTypeRefresh = "refresh"
)

// Message is pushed to every connected client after each refresh.
type Message struct {
	Type        string    `json:"type"`
	Seq         int64     `json:"seq"`
	GeneratedAt time.Time `json:"generatedAt"`
	Count       int       `json:"count"`
	Failed      []string  `json:"failed,omitempty"`
}

// Hub tracks WebSocket clients and fans refresh notifications out to them.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *metrics.Recorder

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// New constructs a Hub. Origins lists allowed browser origins; "*" or an
// empty list accepts any origin.
func New(logger *slog.Logger, recorder *metrics.Recorder, origins ...string) *Hub {
	h := &Hub{
		logger:  logger,
		metrics: recorder,
		clients: make(map[*client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		allowed[o] = struct{}{}
	}
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := allowed[origin]
		return ok
	}
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), h.logger)
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		logging.Warn(logger, "websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Message, sendBufferSize),
		hub:  h,
	}
	if !h.register(c) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	logging.Info(logger, "websocket client connected", slog.String(logging.FieldClientID, c.id))

	go c.writePump()
	go c.readPump()
}

// Publish implements poller.Sink.
func (h *Hub) Publish(_ context.Context, c poller.Cycle) {
	failed := make([]string, 0, len(c.Failed))
	for _, s := range c.Failed {
		failed = append(failed, string(s))
	}
	h.Broadcast(Message{
		Type:        MessageTypeRefresh,
		Seq:         c.Seq,
		GeneratedAt: c.CompletedAt,
		Count:       c.Sources.Len(),
		Failed:      failed,
	})
}

// Broadcast queues msg for every client and returns how many accepted it.
// Clients whose buffer is full are disconnected.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range targets {
		if c.trySend(msg) {
			sent++
			continue
		}
		logging.Warn(h.logger, "websocket client too slow, disconnecting", slog.String(logging.FieldClientID, c.id))
		h.unregister(c)
	}
	return sent
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.closed = true
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		h.unregister(c)
	}
	return nil
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	h.metrics.RecordWSClients(1)
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if !ok {
		return
	}
	h.metrics.RecordWSClients(-1)
	c.stop()
	logging.Debug(h.logger, "websocket client disconnected", slog.String(logging.FieldClientID, c.id))
}

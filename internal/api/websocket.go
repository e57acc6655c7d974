package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/BYGGOLDENSTONE/TrinityFlow-sub000/internal/events"

	"github.com/gorilla/websocket"
)

const (
	MaxWSConnectionsTotal = 200
	MaxWSConnectionsPerIP = 10

	snapshotInterval = 100 * time.Millisecond
	clientBuffer     = 64
	writeTimeout     = 5 * time.Second
)

// wsMessage is the frame sent to clients: {"event": "...", "data": ...}.
type wsMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type wsClient struct {
	conn *websocket.Conn
	ip   string
	send chan []byte
}

// WebSocketHub fans world snapshots and combat events out to clients.
// Each client has its own writer goroutine, so a slow socket only drops
// its own frames.
type WebSocketHub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader
	perIP    *connLimiter

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	closed  bool
}

// NewWebSocketHub creates an idle hub.
func NewWebSocketHub(logger *slog.Logger) *WebSocketHub {
	if logger == nil {
		logger = slog.Default()
	}
	h := &WebSocketHub{
		logger:  logger,
		perIP:   newConnLimiter(MaxWSConnectionsPerIP),
		clients: make(map[*wsClient]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if isAllowedOrigin(origin) {
				return true
			}
			h.logger.Warn("websocket origin rejected", "origin", origin)
			RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Broadcast queues event for every client. Full client buffers drop the frame.
func (h *WebSocketHub) Broadcast(event string, data interface{}) {
	b, err := json.Marshal(wsMessage{Event: event, Data: data})
	if err != nil {
		h.logger.Error("websocket marshal failed", "event", event, "err", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
		}
	}
	IncrementWSMessages()
}

// ForwardEvent is a bus handler. Tick events are dropped; snapshots carry time.
func (h *WebSocketHub) ForwardEvent(ev events.Event) {
	if ev.Type == events.EventTypeTick {
		return
	}
	h.Broadcast("combat:"+ev.Type.String(), ev)
}

// ClientCount returns the number of open connections.
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RunSnapshots broadcasts snap() until ctx is done, skipping idle periods.
func (h *WebSocketHub) RunSnapshots(ctx context.Context, snap func() interface{}) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.ClientCount() == 0 {
				continue
			}
			h.Broadcast("world:snapshot", snap())
		}
	}
}

// Close disconnects every client and refuses new ones.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.drop(c)
	}
}

func (h *WebSocketHub) add(c *wsClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	UpdateWSConnections(len(h.clients))
	return true
}

// drop is idempotent; both pumps call it on exit.
func (h *WebSocketHub) drop(c *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.conn.Close()
	h.perIP.Release(c.ip)
	UpdateWSConnections(n)
	h.logger.Info("websocket client disconnected", "ip", c.ip, "remaining", n)
}

// HandleWebSocket upgrades the request and serves the client until it leaves.
func (h *WebSocketHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	if n := h.ClientCount(); n >= MaxWSConnectionsTotal {
		h.logger.Warn("websocket rejected: total limit", "count", n)
		RecordConnectionRejected("ws_total_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	if !h.perIP.Acquire(ip) {
		h.logger.Warn("websocket rejected: per-IP limit", "ip", ip)
		RecordConnectionRejected("ws_ip_limit")
		http.Error(w, "Too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "ip", ip, "err", err)
		h.perIP.Release(ip)
		return
	}

	c := &wsClient{conn: conn, ip: ip, send: make(chan []byte, clientBuffer)}
	if !h.add(c) {
		conn.Close()
		h.perIP.Release(ip)
		return
	}
	h.logger.Info("websocket client connected", "ip", ip, "total", h.ClientCount())

	go h.writePump(c)
	h.readPump(c)
}

func (h *WebSocketHub) writePump(c *wsClient) {
	defer h.drop(c)
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards client frames; commands go through the HTTP API.
func (h *WebSocketHub) readPump(c *wsClient) {
	defer h.drop(c)
	c.conn.SetReadLimit(4096)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

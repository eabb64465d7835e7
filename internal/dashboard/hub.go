// Package dashboard serves the web console: a JSON API over the console
// service and a websocket stream of session snapshots.
package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"TradeConsole/internal/model"
	"TradeConsole/internal/session"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 32
)

// Message is one frame pushed to dashboard clients.
type Message struct {
	Type     string            `json:"type"` // "render" or "logs"
	View     session.View      `json:"view,omitempty"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Logs     []model.LogEntry  `json:"logs,omitempty"`
	Filter   string            `json:"filter,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans session redraws out to every connected browser. It implements
// session.Renderer.
type Hub struct {
	upgrader websocket.Upgrader
	initial  func() session.Snapshot
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates a hub. initial supplies the snapshot sent on connect.
func NewHub(initial func() session.Snapshot, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		initial: initial,
		logger:  logger.Named("dashboard"),
		clients: make(map[*client]struct{}),
	}
}

// Render implements session.Renderer.
func (h *Hub) Render(view session.View, snap session.Snapshot) {
	h.broadcast(Message{Type: "render", View: view, Snapshot: &snap})
}

// RenderLogs implements session.Renderer.
func (h *Hub) RenderLogs(entries []model.LogEntry, filter string) {
	h.broadcast(Message{Type: "logs", Logs: entries, Filter: filter})
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeWS upgrades the request and streams messages until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	if h.initial != nil {
		snap := h.initial()
		if data, err := json.Marshal(Message{Type: "render", View: session.ViewAll, Snapshot: &snap}); err == nil {
			c.send <- data
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client connected", zap.String("remote", r.RemoteAddr))

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.dropLocked(c)
	}
}

func (h *Hub) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode dashboard message", zap.String("type", msg.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow dashboard client")
			h.dropLocked(c)
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// readPump discards client frames; it only exists to notice disconnects and
// answer pings.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

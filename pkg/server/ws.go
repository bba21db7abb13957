package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Message types pushed to WebSocket clients.
const (
	messageLayout = "layout"
)

// message is the envelope of every WebSocket frame.
type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The server binds to loopback by default and only serves read-only data.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client serializes writes to one connection.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(msgType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(msgType, data)
}

// hub tracks connected clients.
type hub struct {
	logger  *log.Logger
	mu      sync.RWMutex
	clients map[*client]struct{}
}

func newHub(logger *log.Logger) *hub {
	return &hub{logger: logger, clients: make(map[*client]struct{})}
}

func (h *hub) add(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	return len(h.clients)
}

func (h *hub) remove(c *client) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.conn.Close()
	}
	return len(h.clients)
}

func (h *hub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) snapshot() []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}

// broadcast sends msg to every client and drops those that fail. It returns
// the number of clients reached and the last write error.
func (h *hub) broadcast(msg message) (int, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, err
	}
	var lastErr error
	sent := 0
	for _, c := range h.snapshot() {
		if err := c.write(websocket.TextMessage, data); err != nil {
			h.logger.Debug("dropping websocket client", "err", err)
			h.remove(c)
			lastErr = err
			continue
		}
		sent++
	}
	return sent, lastErr
}

func (h *hub) closeAll() {
	for _, c := range h.snapshot() {
		_ = c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		h.remove(c)
	}
}

// handleWebSocket upgrades the connection, sends the current layout, and
// keeps the client registered until it disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	c := &client{conn: conn}
	n := s.hub.add(c)
	s.logger.Debug("websocket client connected", "clients", n)

	if snap := s.snapshot(); snap != nil {
		data, err := json.Marshal(message{Type: messageLayout, Data: snap.layoutJSON})
		if err == nil {
			err = c.write(websocket.TextMessage, data)
		}
		if err != nil {
			s.hub.remove(c)
			return
		}
	}

	done := make(chan struct{})
	go s.keepAlive(c, done)
	defer close(done)

	// Clients only listen; reading detects disconnects and handles pongs.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	n = s.hub.remove(c)
	s.logger.Debug("websocket client disconnected", "clients", n)
}

func (s *Server) keepAlive(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

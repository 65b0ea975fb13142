package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"SignalForge/internal/domain/models"
	"SignalForge/pkg/logger"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Message is a client command. Type is "subscribe" or "unsubscribe"; an
// empty subscription receives every symbol.
type Message struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte

	mu      sync.RWMutex
	symbols map[string]bool
}

func (c *client) wants(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.symbols) == 0 || c.symbols[strings.ToUpper(symbol)]
}

func (c *client) apply(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range m.Symbols {
		switch m.Type {
		case "subscribe":
			c.symbols[strings.ToUpper(s)] = true
		case "unsubscribe":
			delete(c.symbols, strings.ToUpper(s))
		}
	}
}

// Hub pushes every AnalysisResult to connected websocket clients. A client
// that cannot keep up is dropped rather than blocking the analysis loop.
type Hub struct {
	l *logger.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(l *logger.Logger) *Hub {
	if l == nil {
		l = logger.Nop()
	}
	return &Hub{l: l, clients: map[*client]struct{}{}}
}

func (h *Hub) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/signals", h.Serve)
}

func (h *Hub) Name() string { return "websocket" }

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleResult broadcasts r to every interested client.
func (h *Hub) HandleResult(_ context.Context, r *models.AnalysisResult) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if !c.wants(r.Symbol) {
			continue
		}
		select {
		case c.send <- b:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.l.Warn("ws client too slow, dropping")
		h.remove(c)
	}
	return nil
}

// Serve upgrades the request and pumps results until the client leaves.
func (h *Hub) Serve(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		h.l.Warn("ws upgrade failed", logger.Error(err))
		return nil
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), symbols: map[string]bool{}}
	for _, s := range strings.Split(ctx.QueryParam("symbols"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			c.symbols[strings.ToUpper(s)] = true
		}
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.l.Info("ws client connected", logger.String("remote", ctx.RealIP()))

	go h.readLoop(c)
	h.writeLoop(c)
	return nil
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.l.Debug("ws read error", logger.Error(err))
			}
			return
		}
		c.apply(m)
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case b, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// Package monitor exposes live round events over WebSocket for external
// observers. The simulation never blocks on it: events are fanned out
// best-effort and slow clients are dropped.
package monitor

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjackforbots/internal/game"
)

// Event is the wire form of a game event.
type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      game.GameEvent `json:"data"`
}

// Monitor broadcasts game events to connected WebSocket clients. It
// implements game.EventSubscriber and can be attached to any table's bus.
type Monitor struct {
	logger   *log.Logger
	upgrader websocket.Upgrader
	server   *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a monitor that will serve on addr.
func New(addr string, logger *log.Logger) *Monitor {
	m := &Monitor{
		logger:  logger.WithPrefix("monitor"),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", m.handleEvents)
	m.server = &http.Server{Addr: addr, Handler: mux}
	return m
}

// Start serves WebSocket clients in the background.
func (m *Monitor) Start() {
	go func() {
		m.logger.Info("monitor listening", "addr", m.server.Addr)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("monitor server failed", "error", err)
		}
	}()
}

// Close shuts the server down and disconnects all clients.
func (m *Monitor) Close() error {
	m.mu.Lock()
	for c := range m.clients {
		close(c.send)
		delete(m.clients, c)
	}
	m.mu.Unlock()
	return m.server.Close()
}

// OnEvent implements game.EventSubscriber. Encoding happens once per event;
// clients that cannot keep up are dropped rather than slowing the engine.
func (m *Monitor) OnEvent(event game.GameEvent) {
	m.mu.Lock()
	if len(m.clients) == 0 {
		m.mu.Unlock()
		return
	}
	payload, err := json.Marshal(Event{
		Type:      event.EventType().String(),
		Timestamp: event.Timestamp(),
		Data:      event,
	})
	if err != nil {
		m.mu.Unlock()
		m.logger.Error("failed to encode event", "type", event.EventType(), "error", err)
		return
	}
	for c := range m.clients {
		select {
		case c.send <- payload:
		default:
			m.logger.Warn("client send buffer full, dropping client")
			close(c.send)
			delete(m.clients, c)
		}
	}
	m.mu.Unlock()
}

func (m *Monitor) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 256)}
	m.mu.Lock()
	m.clients[c] = struct{}{}
	m.mu.Unlock()
	m.logger.Info("client connected", "remote", conn.RemoteAddr())

	go c.writePump()
}

// writePump drains the client's send channel onto the socket. The channel is
// closed by the monitor when the client is dropped.
func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

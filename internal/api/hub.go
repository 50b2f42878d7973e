package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/udisondev/tycoon/internal/engine"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must be less than pongWait
	maxMessageSize = 512

	clientSendBuffer = 256
	broadcastBuffer  = 16
)

// Message types pushed to websocket clients.
const (
	MessageState = "state"
	MessageTick  = "tick"
)

// Message is the JSON frame sent to websocket clients.
type Message struct {
	Type   string             `json:"type"`
	Report *engine.TickReport `json:"report,omitempty"`
	State  engine.Snapshot    `json:"state"`
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans tick updates out to connected websocket clients.
// The client set is owned by the Run goroutine.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	clients atomic.Int32
}

// NewHub creates a hub. Call Run before serving /ws.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
	}
}

// Run handles registrations and broadcasts until ctx is canceled.
func (h *Hub) Run(ctx context.Context) error {
	clients := make(map[*client]struct{})
	defer func() {
		close(h.done)
		for c := range clients {
			close(c.send)
		}
		h.clients.Store(0)
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("websocket hub stopped", "clients", len(clients))
			return ctx.Err()

		case c := <-h.register:
			clients[c] = struct{}{}
			h.clients.Store(int32(len(clients)))
			slog.Debug("websocket client connected", "remoteAddr", c.conn.RemoteAddr().String())

		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
				h.clients.Store(int32(len(clients)))
				slog.Debug("websocket client disconnected", "remoteAddr", c.conn.RemoteAddr().String())
			}

		case msg := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					// slow consumer
					delete(clients, c)
					close(c.send)
					slog.Warn("dropping slow websocket client", "remoteAddr", c.conn.RemoteAddr().String())
				}
			}
			h.clients.Store(int32(len(clients)))
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.clients.Load())
}

// Broadcast queues a tick update for all clients. It never blocks:
// when the queue is full the update is dropped, the next one carries full state.
func (h *Hub) Broadcast(rep engine.TickReport, snap engine.Snapshot) {
	payload, err := json.Marshal(Message{Type: MessageTick, Report: &rep, State: snap})
	if err != nil {
		slog.Error("failed to encode tick message", "error", err)
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		slog.Warn("websocket broadcast queue full, dropping tick", "at", rep.At)
	}
}

func (h *Hub) join(c *client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("websocket upgrade failed", "error", err)
		return
	}

	initial, err := json.Marshal(Message{Type: MessageState, State: s.engine.Snapshot()})
	if err != nil {
		slog.Error("failed to encode state message", "error", err)
		conn.Close()
		return
	}

	c := &client{hub: s.hub, conn: conn, send: make(chan []byte, clientSendBuffer)}
	c.send <- initial

	if !s.hub.join(c) {
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames; it only keeps the read deadline alive
// and detects disconnects.
func (c *client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

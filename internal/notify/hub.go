package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes events to WebSocket subscribers keyed by user.
// Events for uuid.Nil are broadcast to everyone.
type Hub struct {
	clients map[uuid.UUID]map[*client]struct{}
	mutex   sync.RWMutex
	logger  *logrus.Logger
}

// NewHub creates an empty hub
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*client]struct{}),
		logger:  logger,
	}
}

// ServeWS upgrades the request and subscribes the connection to userID's events
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade to websocket: %w", err)
	}

	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.register(userID, c)

	go h.writePump(c)
	go h.readPump(userID, c)
	return nil
}

func (h *Hub) register(userID uuid.UUID, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"total":   len(h.clients[userID]),
	}).Debug("WebSocket client connected")
}

func (h *Hub) unregister(userID uuid.UUID, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	set, ok := h.clients[userID]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.send)
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// readPump only watches for disconnects; clients never send payloads
func (h *Hub) readPump(userID uuid.UUID, c *client) {
	defer func() {
		h.unregister(userID, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithField("error", err.Error()).Warn("WebSocket read error")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Notify queues the event for the user's subscribers, or everyone for uuid.Nil.
// Slow subscribers drop messages rather than block the caller.
func (h *Hub) Notify(ctx context.Context, event Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	deliver := func(set map[*client]struct{}) {
		for c := range set {
			select {
			case c.send <- msg:
			default:
				h.logger.WithField("type", event.Type).Warn("WebSocket send buffer full, dropping message")
			}
		}
	}

	if event.UserID == uuid.Nil {
		for _, set := range h.clients {
			deliver(set)
		}
		return nil
	}
	deliver(h.clients[event.UserID])
	return nil
}

// Subscribers returns the number of open connections for userID
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}

// Close disconnects every subscriber
func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for userID, set := range h.clients {
		for c := range set {
			close(c.send)
		}
		delete(h.clients, userID)
	}
}

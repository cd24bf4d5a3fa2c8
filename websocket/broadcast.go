// file: websocket/broadcast.go
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"founders-fest/logger"

	"github.com/gorilla/websocket"
)

// Hub tracks admin dashboard connections and fans events out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[*Connection]bool
	broadcast   chan []byte
	upgrader    websocket.Upgrader
	origins     map[string]bool
}

// NewHub returns a hub accepting same-host origins plus allowedOrigins.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{
		connections: make(map[*Connection]bool),
		broadcast:   make(chan []byte, 256),
		origins:     make(map[string]bool, len(allowedOrigins)),
	}
	for _, o := range allowedOrigins {
		h.origins[strings.TrimRight(o, "/")] = true
	}
	h.upgrader = websocket.Upgrader{CheckOrigin: h.checkOrigin}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.origins[origin] {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// Publish queues ev for every subscribed connection. A full queue drops the event.
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		logger.Error.Printf("[Hub.Publish] Error marshalling %s event: %v", ev.Action, err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		logger.Warn.Printf("[Hub.Publish] Broadcast queue full, dropping %s event", ev.Action)
	}
}

// Run distributes queued events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.dispatch(msg)
		}
	}
}

func (h *Hub) dispatch(msg []byte) {
	var head struct {
		Topic string `json:"topic"`
	}
	_ = json.Unmarshal(msg, &head)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if !c.wants(head.Topic) {
			continue
		}
		select {
		case c.send <- msg:
		default:
			logger.Warn.Printf("[Hub] Dropping message for connection %v", c.conn.RemoteAddr())
		}
	}
}

// sendTo queues msg for c if it is still registered.
func (h *Hub) sendTo(c *Connection, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.connections[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// Count returns the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) register(c *Connection) {
	h.mu.Lock()
	h.connections[c] = true
	h.mu.Unlock()
}

func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	if h.connections[c] {
		delete(h.connections, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	for c := range h.connections {
		delete(h.connections, c)
		close(c.send)
	}
	h.mu.Unlock()
}

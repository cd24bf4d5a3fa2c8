// file: websocket/connection.go
package websocket

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"founders-fest/logger"

	"github.com/gorilla/websocket"
)

// WSConn is the subset of *websocket.Conn the pumps use.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	ReadMessage() (int, []byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetPongHandler(h func(string) error)
}

// Connection is one dashboard client.
type Connection struct {
	hub  *Hub
	conn WSConn
	send chan []byte

	mu     sync.RWMutex
	topics map[string]bool // empty means everything
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 2048
)

// pingPeriod must stay below pongWait.
var pingPeriod = (pongWait * 9) / 10

// ClientMessage is what a dashboard may send.
type ClientMessage struct {
	Action string   `json:"action"`
	Topics []string `json:"topics"`
}

// ServeWs upgrades the request and starts the read and write pumps.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already written an error response
		logger.Error.Printf("[ServeWs] WebSocket upgrade error: %v", err)
		return
	}
	logger.Info.Printf("[ServeWs] Admin feed connected: remoteAddr=%v", r.RemoteAddr)

	c := newConnection(h, wsConn)
	h.register(c)
	go c.readPump()
	go c.writePump()
}

func newConnection(h *Hub, conn WSConn) *Connection {
	return &Connection{hub: h, conn: conn, send: make(chan []byte, 64), topics: map[string]bool{}}
}

func (c *Connection) wants(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.topics) == 0 || topic == "" || c.topics[topic]
}

func (c *Connection) subscribe(topics []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = make(map[string]bool, len(topics))
	for _, t := range topics {
		c.topics[t] = true
	}
}

// readPump handles inbound messages from the client.
func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Debug.Printf("[readPump] Read error from %v: %v", c.conn.RemoteAddr(), err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		var cm ClientMessage
		if err := json.Unmarshal(message, &cm); err != nil {
			logger.Warn.Printf("[readPump] Invalid JSON from %v: %v", c.conn.RemoteAddr(), err)
			continue
		}
		c.handleIncoming(cm)
	}
}

func (c *Connection) handleIncoming(cm ClientMessage) {
	switch cm.Action {
	case "subscribe":
		c.subscribe(cm.Topics)
		logger.Debug.Printf("[handleIncoming] %v subscribed to %v", c.conn.RemoteAddr(), cm.Topics)
	case "ping":
		out, _ := json.Marshal(Event{Action: "pong", At: time.Now().UTC()})
		c.hub.sendTo(c, out)
	default:
		logger.Debug.Printf("[handleIncoming] Unhandled action: %s", cm.Action)
	}
}

// writePump handles outbound messages to the client, including periodic pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn.Printf("[writePump] Error writing to %v: %v", c.conn.RemoteAddr(), err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Warn.Printf("[writePump] Ping error for %v: %v", c.conn.RemoteAddr(), err)
				return
			}
		}
	}
}

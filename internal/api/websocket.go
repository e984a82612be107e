/*
PURPOSE:
  WebSocket hub streaming completed simulation runs to connected
  browser pages.

REQUIREMENTS:
  User-specified:
  - Every completed run is pushed as a {type:"run", data:RunResult}
    envelope so open pages update without polling.

  Implementation-discovered:
  - Slow or dead clients must not block a broadcast; their buffered
    send channel fills up and they get dropped.
  - Ping/pong keepalive per the gorilla/websocket chat pattern.

ARCHITECTURE INTEGRATION:
  - Owned by: internal/api/server.go
  - Fed by: the REST handlers after each completed run.

ERROR HANDLING:
  - Write failures unregister the client; nothing propagates.

IMPLEMENTATION RULES:
  - All client-set mutation happens on the hub goroutine.

USAGE:
  hub := NewHub()
  go hub.run()
  hub.BroadcastRun(run)

RELATED FILES:
  - internal/api/handlers.go

MAINTENANCE:
  - Add envelope types here as the frontend grows.
*/

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sidereal-labs/powertrace/internal/model"
	"github.com/sidereal-labs/powertrace/internal/output"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Size of client send buffer.
	sendBufferSize = 16
)

// Event types for WebSocket messages.
const (
	EventTypeRun = "run"
)

// WSMessage is the standard WebSocket message envelope.
type WSMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected WebSocket clients and fans out broadcasts.
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
}

// NewHub creates a Hub; run() must be started before broadcasting.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 8),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
	}
}

func (h *Hub) run() {
	for {
		select {
		case <-h.done:
			for c := range h.clients {
				close(c.send)
				c.conn.Close()
			}
			return
		case c := <-h.register:
			h.clients[c] = true
		case c := <-h.unregister:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow client; drop it.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

func (h *Hub) stop() {
	close(h.done)
}

// BroadcastRun pushes a completed run to every connected page.
func (h *Hub) BroadcastRun(run *model.RunResult) {
	msg, err := json.Marshal(WSMessage{Type: EventTypeRun, Data: run})
	if err != nil {
		output.Logger.Error("failed to encode run broadcast", "error", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		output.Logger.Warn("broadcast queue full, dropping run update")
	}
}

// handleUpgrade upgrades the connection and starts the client pumps.
func (h *Hub) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		output.Logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

// readPump discards inbound messages but keeps the keepalive state.
func (c *wsClient) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
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

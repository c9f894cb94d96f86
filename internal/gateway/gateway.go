// Package gateway is the WebSocket transport: it upgrades HTTP connections,
// decodes/encodes the JSON wire protocol, and hands every inbound frame to
// internal/session.HandleClientMessage.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hanabi-lite/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to known origins before a public deploy
	},
}

const (
	readLimitBytes  = 65536
	pongWait        = 60 * time.Second
	pingInterval    = 30 * time.Second
	writeWait       = 10 * time.Second
	sendBufferDepth = 64
)

// Connection is one client's WebSocket session. It implements
// session.Transport so the session package can push state updates without
// importing gorilla/websocket.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	outbox  chan session.ServerMessage
	Gateway *Gateway

	mu        sync.Mutex
	name      string
	sessionID string
}

// Send enqueues msg for delivery, dropping it if the connection's buffer is
// full rather than blocking the session actor that produced it. This is
// the method that satisfies session.Transport.
func (c *Connection) Send(msg session.ServerMessage) error {
	select {
	case c.outbox <- msg:
		return nil
	default:
		return fmt.Errorf("gateway: connection %s send buffer full, dropped %s", c.ID, msg.Type)
	}
}

func (c *Connection) setIdentity(name, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
	c.sessionID = sessionID
}

func (c *Connection) identity() (name, sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.name, c.sessionID
}

// Gateway tracks every live connection and owns the lobby they talk to.
type Gateway struct {
	mu          sync.Mutex
	connections map[string]*Connection
	lobby       *session.Lobby
}

// New constructs a Gateway serving lobby.
func New(lobby *session.Lobby) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		lobby:       lobby,
	}
}

// HandleWebSocket upgrades the request and starts the connection's read and
// write pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[gateway] upgrade error: %v", err)
		return
	}

	connID := uuid.NewString()

	g.mu.Lock()
	c := &Connection{
		ID:      connID,
		Conn:    conn,
		outbox:  make(chan session.ServerMessage, sendBufferDepth),
		Gateway: g,
	}
	g.connections[connID] = c
	g.mu.Unlock()

	log.Printf("[gateway] client connected: %s, total: %d", connID, g.connectionCount())

	go c.readPump()
	go c.writePump()
}

func (g *Gateway) connectionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.connections)
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	remaining := len(g.connections)
	g.mu.Unlock()
	log.Printf("[gateway] client disconnected: %s, total: %d", c.ID, remaining)

	name, sessionID := c.identity()
	if name == "" || sessionID == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := g.lobby.Get(ctx, sessionID)
	if err != nil {
		return
	}
	_ = s.Disconnect(name)
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(readLimitBytes)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[gateway] read error on %s: %v", c.ID, err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.handleFrame(data)
	}
}

func (c *Connection) handleFrame(data []byte) {
	var msg session.ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("[gateway] malformed message on %s, dropping connection: %v", c.ID, err)
		c.Conn.Close()
		return
	}
	switch msg.Type {
	case session.MsgCreateGame, session.MsgJoin, session.MsgSpectate, session.MsgStartGame, session.MsgPlayerAction:
	default:
		log.Printf("[gateway] unknown message type %q on %s, dropping connection", msg.Type, c.ID)
		c.Conn.Close()
		return
	}
	// Frames after create_game/join may omit player_name and session_id;
	// they default to the identity this connection last used.
	if name, sessionID := c.identity(); name != "" {
		if msg.PlayerName == "" {
			msg.PlayerName = name
		}
		if msg.SessionID == "" {
			msg.SessionID = sessionID
		}
	}
	if msg.PlayerName == "" {
		_ = c.Send(session.ServerMessage{Type: session.MsgError, Message: "player_name is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	reply := session.HandleClientMessage(ctx, c.Gateway.lobby, msg.PlayerName, c, msg)

	if msg.SessionID != "" {
		c.setIdentity(msg.PlayerName, msg.SessionID)
	} else if reply.SessionID != "" {
		c.setIdentity(msg.PlayerName, reply.SessionID)
	}

	if reply.Type != "" {
		_ = c.Send(reply)
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.outbox:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				log.Printf("[gateway] marshal error on %s: %v", c.ID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}


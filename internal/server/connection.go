package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lox/sambridge/internal/provider"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = websocket.ErrCloseSent

// Connection is one WebSocket client streaming decision requests
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	sendMu    sync.Mutex
	closed    bool
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("Failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(conn, s)
	s.register(client)
	client.start()

	go func() {
		<-client.ctx.Done()
		s.unregister(client)
	}()
}

func newConnection(conn *websocket.Conn, s *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: s,
		logger: s.logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Connection) start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client
func (c *Connection) SendMessage(msg *Message) error {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, dropping message", "id", msg.ID, "type", msg.Type)
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage answers one request. The reply carries the request id.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "id", msg.ID, "type", msg.Type)

	switch msg.Type {
	case MessageTypeDeclare:
		var req provider.DeclarationRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendError(msg.ID, "invalid_message", "Failed to parse declaration request")
			return
		}
		if err := ValidateDeclaration(&req); err != nil {
			c.sendError(msg.ID, "invalid_request", err.Error())
			return
		}
		c.reply(msg.ID, MessageTypeDeclareResult, c.server.bridge.Declare(c.ctx, req))

	case MessageTypeMove:
		var req provider.MoveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendError(msg.ID, "invalid_message", "Failed to parse move request")
			return
		}
		if err := ValidateMove(&req); err != nil {
			c.sendError(msg.ID, "invalid_request", err.Error())
			return
		}
		c.reply(msg.ID, MessageTypeMoveResult, c.server.bot.Play(c.ctx, req))

	default:
		c.sendError(msg.ID, "unknown_message_type", "Unknown message type: "+string(msg.Type))
	}
}

func (c *Connection) reply(id string, t MessageType, payload any) {
	msg, err := NewMessage(id, t, payload)
	if err != nil {
		c.logger.Error("Failed to encode reply", "error", err)
		c.sendError(id, "internal", http.StatusText(http.StatusInternalServerError))
		return
	}
	_ = c.SendMessage(msg) // Ignore send errors; the read loop notices a dead peer
}

func (c *Connection) sendError(id, code, message string) {
	msg, err := NewMessage(id, MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(msg) // Ignore send errors during error handling
}

package ws

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// MessageHandler routes parsed inbound messages. Implemented by the
// websocket HTTP handler, which has access to the query services.
type MessageHandler interface {
	HandleMessage(client *Client, msg ClientMessage)
}

// Client is one websocket connection. All writes go through the buffered
// Send channel drained by WritePump; the hub never blocks on the socket.
type Client struct {
	ID   uuid.UUID
	Hub  *Hub
	Conn *websocket.Conn
	Send chan []byte

	mu       sync.Mutex
	isClosed bool

	logger *slog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		ID:     uuid.New(),
		Hub:    hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		logger: logger,
	}
}

// SendJSON queues a payload for this connection only.
func (c *Client) SendJSON(payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error("failed to marshal ws payload",
			slog.String("client_id", c.ID.String()), slog.Any("error", err))
		return
	}
	c.enqueue(data)
}

// enqueue drops the message when the buffer is full rather than blocking.
func (c *Client) enqueue(message []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isClosed {
		return
	}
	select {
	case c.Send <- message:
	default:
		c.logger.Warn("ws send buffer full, dropping message",
			slog.String("client_id", c.ID.String()))
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.isClosed {
		close(c.Send)
		c.isClosed = true
	}
}

// ReadPump parses inbound messages and hands them to the handler. On any
// read error the client unregisters, which also clears every subscription.
func (c *Client) ReadPump(handler MessageHandler) {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("ws unexpected close",
					slog.String("client_id", c.ID.String()), slog.Any("error", err))
			}
			return
		}

		var msg ClientMessage
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&msg); err != nil {
			c.SendJSON(AckMessage{Type: TypeError, Payload: "invalid message"})
			continue
		}
		handler.HandleMessage(c, msg)
	}
}

// WritePump drains Send onto the socket and keeps the connection alive with
// pings. Exactly one per client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("ws write failed",
					slog.String("client_id", c.ID.String()), slog.Any("error", err))
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

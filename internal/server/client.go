package server

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

// Client is one websocket connection, optionally bound to a player in
// a game.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	playerID string
	gameID   string
}

func newClient(conn *websocket.Conn) *Client {
	return &Client{
		conn: conn,
		send: make(chan []byte, 64),
	}
}

// enqueue drops the message if the client's buffer is full; a stalled
// reader must not block the game.
func (c *Client) enqueue(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendJSON(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.enqueue(data)
}

func (c *Client) readPump(s *Server) {
	defer func() {
		s.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("bad client message", zap.Error(err))
			c.sendJSON(Message{Type: "error", Error: "malformed message"})
			continue
		}
		s.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage, nil)
}

package transport

import (
	"time"

	"github.com/gorilla/websocket"

	"goom-server/internal/protocol"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 50
	binaryMarker      = 0xFF // never the first byte of a JSON text frame
)

// Client is one websocket connection.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	id         string
	remoteAddr string
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a Client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, id, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		id:         id,
		remoteAddr: remoteAddr,
	}
}

// ID returns the connection id.
func (c *Client) ID() string { return c.id }

// trySend must be called with the hub lock held.
func (c *Client) trySend(frame []byte) {
	select {
	case c.send <- frame:
	default:
		// Client too slow, drop frame
	}
}

// ReadPump forwards inbound events to the hub until the connection fails.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Release(c.remoteAddr)
		c.hub.unregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws error", "id", c.id, "error", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.hub.logger.Warn("rate limit exceeded, disconnecting", "id", c.id, "addr", c.remoteAddr)
			break
		}

		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(raw []byte) {
	ev, err := protocol.Decode(raw)
	if err != nil {
		c.hub.logger.Debug("unmarshal error", "id", c.id, "error", err)
		return
	}
	// Only the hub announces connections.
	if ev.Type == protocol.TypeConnection {
		return
	}
	ev.From = c.id
	c.hub.onEvent(ev)
}

// WritePump writes queued frames and keeps the connection alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			var err error
			if len(message) > 0 && message[0] == binaryMarker {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
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

package websocket

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the room
// registry or notification hub it is attached to.
type Client struct {
	Conn *websocket.Conn

	// Identity of the connected participant.
	UserId uuid.UUID
	Kind   string
	Name   string

	// SessionId is the chat room this client joined. uuid.Nil for
	// notification inbox connections.
	SessionId uuid.UUID

	// Buffered channel of outbound messages.
	Send chan []byte

	onMessage func(c *Client, raw []byte)
	onClose   func(c *Client)
}

func NewClient(conn *websocket.Conn, userId uuid.UUID, kind, name string, sessionId uuid.UUID,
	onMessage func(c *Client, raw []byte), onClose func(c *Client)) *Client {
	return &Client{
		Conn:      conn,
		UserId:    userId,
		Kind:      kind,
		Name:      name,
		SessionId: sessionId,
		Send:      make(chan []byte, 256),
		onMessage: onMessage,
		onClose:   onClose,
	}
}

// Run starts the write pump in a goroutine and blocks on the read pump
// until the connection drops.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the websocket connection to the handler.
func (c *Client) readPump() {
	defer func() {
		if c.onClose != nil {
			c.onClose(c)
		}
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
			break
		}
		if c.onMessage != nil {
			c.onMessage(c, raw)
		}
	}
}

// writePump pumps messages from the Send channel to the websocket
// connection, coalescing queued messages into one frame.
func (c *Client) writePump() {
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
				// The registry closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
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

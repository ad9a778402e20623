package host

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message is the websocket wire format in both directions.
type Message struct {
	// Type is "render" or "error" from the server, "toggle" or "refresh"
	// from the browser.
	Type string `json:"type"`

	Version uint64 `json:"version,omitempty"`
	HTML    string `json:"html,omitempty"`
	Title   string `json:"title,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func renderMessage(version uint64, html, title string) []byte {
	data, _ := json.Marshal(Message{Type: "render", Version: version, HTML: html, Title: title})
	return data
}

func errorMessage(err error) []byte {
	data, _ := json.Marshal(Message{Type: "error", Error: err.Error()})
	return data
}

// client is one websocket connection.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(id string, conn *websocket.Conn, buffer int) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, buffer),
		done: make(chan struct{}),
	}
}

// enqueue queues msg without blocking. It reports false when the buffer
// is full.
func (c *client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writeLoop sends queued messages and pings until the client closes.
func (c *client) writeLoop(writeTimeout, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.close()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readLoop decodes browser messages and hands them to handle until the
// connection fails. Replies from handle are queued like renders.
func (c *client) readLoop(ctx context.Context, readTimeout time.Duration, handle func(context.Context, Message) error, onError func(error)) {
	defer c.close()

	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				onError(err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.enqueue(errorMessage(err))
			continue
		}
		if err := handle(ctx, msg); err != nil {
			c.enqueue(errorMessage(err))
		}
	}
}

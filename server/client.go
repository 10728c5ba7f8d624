package server

import (
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// WebSocket heartbeat settings to detect disconnected clients
	PING_INTERVAL = 10 * time.Second
	PONG_WAIT     = 60 * time.Second
	WRITE_WAIT    = 10 * time.Second
)

// WebSocketClient is one websocket connection attached to a session.
type WebSocketClient struct {
	conn      *websocket.Conn
	send      chan []byte // Closed by the session when the client is removed
	id        string
	done      chan struct{}
	SessionID string
}

func NewWebSocketClient(conn *websocket.Conn, id string) *WebSocketClient {
	return &WebSocketClient{
		conn: conn,
		send: make(chan []byte, 256),
		id:   id,
		done: make(chan struct{}),
	}
}

// sendMessage queues a message without blocking. The caller must ensure send
// is still open.
func (c *WebSocketClient) sendMessage(kind string, data any) {
	msg, err := encodeMessage(kind, data)
	if err != nil {
		log.Printf("Client %s: ERROR marshaling %s message: %v", c.id, kind, err)
		return
	}
	select {
	case c.send <- msg:
	default:
		log.Printf("Client %s: WARNING send buffer full, dropping %s message.", c.id, kind)
	}
}

// ReadPump reads messages until the connection fails, then detaches the
// client from the session.
func (c *WebSocketClient) ReadPump(session *Session) {
	defer func() {
		session.RemoveClient(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(PONG_WAIT))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(PONG_WAIT))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client %s: Unexpected WebSocket close error: %v", c.id, err)
			}
			return
		}
		session.handleClientMessage(c, message)
	}
}

// WritePump writes queued messages and periodic pings.
func (c *WebSocketClient) WritePump() {
	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
			if !ok {
				// The session removed this client.
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Client %s: Error sending message: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WRITE_WAIT))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("Client %s: Error sending ping: %v", c.id, err)
				return
			}
		case <-c.done:
			return
		}
	}
}

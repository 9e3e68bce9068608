package notifyhub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"complainthub/backend/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// WebSocketClient implements notifyhub.Client over a gorilla/websocket
// connection. Subscriptions are expected to be long-lived (minutes to hours);
// the only liveness mechanism is the ping/pong keepalive, and the client
// self-unregisters on any read or write error.
type WebSocketClient struct {
	SessionID string
	UserID    string
	Conn      *websocket.Conn
	Hub       *Hub

	send      chan models.Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewWebSocketClient(hub *Hub, conn *websocket.Conn, userID string) *WebSocketClient {
	return &WebSocketClient{
		SessionID: uuid.New().String(),
		UserID:    userID,
		Conn:      conn,
		Hub:       hub,
		send:      make(chan models.Event, sendBufferSize),
		done:      make(chan struct{}),
	}
}

func (c *WebSocketClient) GetSessionID() string { return c.SessionID }

// TrySend enqueues an event without blocking. A full buffer means the reader
// is too slow to keep; the hub will prune us.
func (c *WebSocketClient) TrySend(ev models.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close is idempotent; it stops the write pump and tears down the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.Conn.Close()
	})
}

// readPump exists to detect disconnects: clients do not send business
// messages over the push channel, so everything read is discarded. Pongs
// refresh the read deadline.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unsubscribe(c)
		c.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading from subscriber %s: %v", c.SessionID, err)
			}
			break
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))

			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Error encoding event for subscriber %s: %v", c.SessionID, err)
				continue
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(data)
			if err := w.Close(); err != nil {
				return
			}

		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

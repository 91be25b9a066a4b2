package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/room"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Send pings with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one player socket. It implements room.Connection.
type Client struct {
	id      model.ConnID
	conn    *websocket.Conn
	handler *Handler
	limiter *rate.Limiter
	logger  *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// Only touched from the read goroutine
	actor *room.Actor
}

// Ensure Client implements Connection
var _ room.Connection = (*Client)(nil)

func newClient(id model.ConnID, conn *websocket.Conn, h *Handler) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		handler: h,
		limiter: rate.NewLimiter(rate.Limit(h.cfg.MessagesPerSecond), h.cfg.Burst),
		logger:  h.logger.With(slog.String("conn_id", string(id))),
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
	}
}

// ID implements room.Connection
func (c *Client) ID() model.ConnID {
	return c.id
}

// Send implements room.Connection. It never blocks: a client that cannot
// keep up loses the event.
func (c *Client) Send(e model.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		c.logger.Error("failed to encode event",
			slog.String("type", string(e.Type)),
			slog.String("error", err.Error()))
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
		c.logger.Warn("ws event dropped, client buffer full", slog.String("type", string(e.Type)))
	}
}

// readPump reads actions until the socket fails, then leaves the room
func (c *Client) readPump() {
	defer func() {
		c.handler.disconnect(c)
		c.close()
	}()

	c.conn.SetReadLimit(c.handler.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("ws read error", slog.String("error", err.Error()))
			}
			return
		}
		if !c.limiter.Allow() {
			c.logger.Debug("ws message dropped, rate limited")
			continue
		}
		c.handler.dispatch(c, data)
	}
}

// writePump drains the send buffer and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

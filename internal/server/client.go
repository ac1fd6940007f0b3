package server

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/arthur-zhuk/bangfall/internal/antispam"
	"github.com/arthur-zhuk/bangfall/internal/logger"
	"github.com/arthur-zhuk/bangfall/internal/player"
)

// sendBufferSize is the per-client outbound queue depth. A client that
// cannot drain this many messages is considered dead.
const sendBufferSize = 64

// Client is one WebSocket connection. The player field is nil until the
// client joins the game.
type Client struct {
	ID   string
	conn *websocket.Conn
	ip   string

	send      chan Message
	done      chan struct{}
	closeOnce sync.Once

	player *player.Player
	spam   *antispam.Tracker
}

func newClient(id string, conn *websocket.Conn, ip string, spamCfg antispam.Config) *Client {
	return &Client{
		ID:   id,
		conn: conn,
		ip:   ip,
		send: make(chan Message, sendBufferSize),
		done: make(chan struct{}),
		spam: antispam.NewTracker(spamCfg),
	}
}

// Send queues a message for delivery. It never blocks: a closed client
// drops the message, and a full queue closes the client so the read loop
// can clean up. The queue channel is never closed since any goroutine
// (room broadcasts, combat tickers, activity timers) may be sending.
func (c *Client) Send(msg Message) {
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- msg:
	case <-c.done:
	default:
		logger.Warning("Client send buffer full, dropping connection", "client_id", c.ID)
		c.Close()
	}
}

// writePump drains the send queue onto the connection. It runs in its own
// goroutine and exits when the client closes or a write fails.
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if c.conn == nil {
				continue
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Debug("Write failed", "client_id", c.ID, "error", err)
				c.Close()
				return
			}
		}
	}
}

// Close marks the client dead and closes the connection. Safe to call
// from any goroutine, any number of times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// Username returns the player's display name, or the connection id before
// the client has joined.
func (c *Client) Username() string {
	if c.player != nil {
		return c.player.Username
	}
	return c.ID
}

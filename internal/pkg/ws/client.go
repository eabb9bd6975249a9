package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512 * 1024 // 512KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for development, in production this should be restricted
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MessageSink consumes inbound send frames from live connections.
type MessageSink interface {
	HandleInbound(ctx context.Context, senderID int64, frame []byte) error
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub     *Hub
	session *Session
	conn    *websocket.Conn
	sink    MessageSink
	logger  zerolog.Logger
}

type errorFrame struct {
	Error string `json:"error"`
}

// readPump pumps inbound frames from the websocket connection into the sink.
// Closing the connection deregisters the session, so later pushes to this
// user no longer target it.
func (c *Client) readPump() {
	defer func() {
		c.hub.Deregister(c.session)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().
					Int64("userID", c.session.UserID()).
					Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().
					Err(err).
					Int64("userID", c.session.UserID()).
					Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().
					Err(err).
					Int64("userID", c.session.UserID()).
					Msg("WebSocket read error")
			}
			break
		}

		if err := c.sink.HandleInbound(context.Background(), c.session.UserID(), frame); err != nil {
			c.logger.Debug().
				Err(err).
				Int64("userID", c.session.UserID()).
				Msg("Rejected inbound frame")
			c.writeError(err)
		}
	}
}

// writeError reports a rejected frame back on this connection only.
func (c *Client) writeError(err error) {
	payload, marshalErr := json.Marshal(errorFrame{Error: err.Error()})
	if marshalErr != nil {
		return
	}
	select {
	case c.session.send <- payload:
	default:
	}
}

// writePump pumps payloads from the session to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.session.Outbound():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-c.session.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades authenticated HTTP requests to live connections.
type Handler struct {
	hub    *Hub
	sink   MessageSink
	logger zerolog.Logger
}

// NewHandler creates a new websocket handler.
func NewHandler(hub *Hub, sink MessageSink, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		sink:   sink,
		logger: logger,
	}
}

// HandleConnection upgrades the request and registers a session for the
// caller. The session lives until the connection closes.
func (h *Handler) HandleConnection(c *gin.Context) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}

	userID, ok := userIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid user ID format",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:     h.hub,
		session: h.hub.Register(userID),
		conn:    conn,
		sink:    h.sink,
		logger:  h.logger,
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}

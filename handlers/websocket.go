package handlers

import (
	"log"
	"net/http"

	"vitals-server/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

// StreamHandler serves the live reading feed.
type StreamHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewStreamHandler accepts upgrades from the given origins, and from
// clients that send no Origin header at all (the terminal dashboard).
func NewStreamHandler(hub *ws.Hub, origins []string) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || lo.Contains(origins, origin)
		}},
	}
}

// HandleReadingStream upgrades to websocket and forwards the owner's reading events.
// GET /api/readings/stream?userId=<owner>
func (h *StreamHandler) HandleReadingStream(c *gin.Context) {
	ownerID := c.Query("userId")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	h.hub.Register(ownerID, conn)
	log.Printf("[ws] feed opened for %s", ownerID)

	defer func() {
		h.hub.Unregister(ownerID, conn)
		log.Printf("[ws] feed closed for %s", ownerID)
	}()

	// The feed is one-way; reading keeps control frames flowing and
	// notices when the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error for %s: %v", ownerID, err)
			}
			return
		}
	}
}

package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

const writeWait = 10 * time.Second

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (cl *client) write(payload []byte) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return cl.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub keeps track of live reading feeds. One owner may have several
// connections open at once (one per browser tab).
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*websocket.Conn]*client // ownerID -> conns
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*websocket.Conn]*client)}
}

// Register adds a connection to an owner's feed.
func (h *Hub) Register(ownerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[ownerID]
	if !ok {
		conns = make(map[*websocket.Conn]*client)
		h.clients[ownerID] = conns
	}
	conns[conn] = &client{conn: conn}
}

// Unregister removes and closes a connection.
func (h *Hub) Unregister(ownerID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remove(ownerID, conn)
}

func (h *Hub) remove(ownerID string, conn *websocket.Conn) {
	conns, ok := h.clients[ownerID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; ok {
		_ = conn.Close()
		delete(conns, conn)
	}
	if len(conns) == 0 {
		delete(h.clients, ownerID)
	}
}

// Broadcast sends payload to every connection of ownerID and returns how
// many received it. Connections that fail the write are dropped.
func (h *Hub) Broadcast(ownerID string, payload []byte) int {
	h.mu.RLock()
	targets := lo.Values(h.clients[ownerID])
	h.mu.RUnlock()

	var failed []*websocket.Conn
	for _, cl := range targets {
		if err := cl.write(payload); err != nil {
			failed = append(failed, cl.conn)
		}
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, conn := range failed {
			h.remove(ownerID, conn)
		}
		h.mu.Unlock()
	}
	return len(targets) - len(failed)
}

// Count returns the number of open connections for ownerID.
func (h *Hub) Count(ownerID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[ownerID])
}

// Owners returns the ids with at least one open connection.
func (h *Hub) Owners() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return lo.Keys(h.clients)
}

// CloseAll closes every connection, sending a going-away frame first.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for ownerID, conns := range h.clients {
		for conn, cl := range conns {
			cl.writeMu.Lock()
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			cl.writeMu.Unlock()
			_ = conn.Close()
		}
		delete(h.clients, ownerID)
	}
}

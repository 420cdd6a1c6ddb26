package realtime

import (
	"sync"
)

// Hub tracks the broadcast group of every conversation with live connections.
// A connection joins exactly one group, at connect time, after the membership
// check; fan-out goes to every connection in the group, including other
// connections of the sending user. Delivery is best-effort and in-process: a
// connection that closes mid-broadcast simply misses the payload.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[string]*Connection // conversationID -> connectionID -> connection
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{groups: make(map[string]map[string]*Connection)}
}

// Join registers the connection in the conversation's broadcast group and
// starts its write loop.
func (h *Hub) Join(conversationID string, conn *Connection) {
	h.mu.Lock()
	group := h.groups[conversationID]
	if group == nil {
		group = make(map[string]*Connection)
		h.groups[conversationID] = group
	}
	group[conn.ID] = conn
	h.mu.Unlock()

	conn.Start()
}

// Leave removes the connection from the conversation's group. Idempotent.
func (h *Hub) Leave(conversationID string, conn *Connection) {
	h.mu.Lock()
	if group := h.groups[conversationID]; group != nil {
		delete(group, conn.ID)
		if len(group) == 0 {
			delete(h.groups, conversationID)
		}
	}
	h.mu.Unlock()
}

// Broadcast writes payload to every connection in the conversation's group
// and reports how many deliveries were accepted.
func (h *Hub) Broadcast(conversationID string, payload []byte) int {
	h.mu.RLock()
	group := h.groups[conversationID]
	conns := make([]*Connection, 0, len(group))
	for _, conn := range group {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, conn := range conns {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// HasUser reports whether the user holds at least one live connection in the
// conversation's group. The notification worker uses this to skip members who
// are watching the conversation right now.
func (h *Hub) HasUser(conversationID, userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conn := range h.groups[conversationID] {
		if conn.UserID == userID {
			return true
		}
	}
	return false
}

// Close terminates all tracked connections and clears hub state.
func (h *Hub) Close() {
	h.mu.Lock()
	var conns []*Connection
	for _, group := range h.groups {
		for _, conn := range group {
			conns = append(conns, conn)
		}
	}
	h.groups = make(map[string]map[string]*Connection)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "hub shutdown")
	}
}

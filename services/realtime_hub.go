package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// CalendarClient is one websocket subscriber watching a user's calendar.
type CalendarClient struct {
	User string
	Conn *websocket.Conn
}

// DayUpdate is the event pushed to watchers after an accepted write.
type DayUpdate struct {
	Kind    string   `json:"kind"`
	User    string   `json:"user"`
	Date    string   `json:"date"`
	Removed bool     `json:"removed"`
	Day     *DayView `json:"day,omitempty"`
}

// UpdateHub fans out day-record updates to every client watching the same
// user's calendar.
type UpdateHub struct {
	mu      sync.RWMutex
	clients map[string]map[*CalendarClient]struct{}
}

func NewUpdateHub() *UpdateHub {
	return &UpdateHub{clients: make(map[string]map[*CalendarClient]struct{})}
}

func (h *UpdateHub) Register(c *CalendarClient) {
	h.mu.Lock()
	if h.clients[c.User] == nil {
		h.clients[c.User] = make(map[*CalendarClient]struct{})
	}
	h.clients[c.User][c] = struct{}{}
	h.mu.Unlock()
}

func (h *UpdateHub) Unregister(c *CalendarClient) {
	h.mu.Lock()
	if set := h.clients[c.User]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.User)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// ClientCount reports how many clients watch the given user.
func (h *UpdateHub) ClientCount(user string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[user])
}

func (h *UpdateHub) BroadcastUpdate(upd DayUpdate) {
	msg, _ := json.Marshal(upd)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[upd.User] {
		_ = c.Conn.WriteMessage(websocket.TextMessage, msg)
	}
}

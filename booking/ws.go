package booking

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins — adjust for production if needed
		return true
	},
}

// Hub fans out availability-change notifications to clients watching a
// date. Clients re-query /available on receipt; no slot state is pushed.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string][]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[string][]*websocket.Conn)}
}

type wsMessage struct {
	Type string `json:"type"`
	Date string `json:"date"`
}

// GET /available/updates?date=D
func (h *Hub) Updates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date := r.URL.Query().Get("date")
	if date == "" {
		http.Error(w, "date is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	h.subscribers[date] = append(h.subscribers[date], conn)
	h.mu.Unlock()

	// Block until the client disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	conns := h.subscribers[date]
	remaining := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			remaining = append(remaining, c)
		}
	}
	h.subscribers[date] = remaining
	h.mu.Unlock()

	conn.Close()
}

// NotifyDate tells every watcher of the date that availability changed.
func (h *Hub) NotifyDate(date string) {
	if h == nil {
		return
	}
	data, _ := json.Marshal(wsMessage{Type: "update", Date: date})

	h.mu.Lock()
	defer h.mu.Unlock()

	conns := h.subscribers[date]
	alive := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err == nil {
			alive = append(alive, conn)
		} else {
			conn.Close()
		}
	}
	h.subscribers[date] = alive
}

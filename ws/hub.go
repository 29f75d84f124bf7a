package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// Member là thông tin presence của 1 người chơi trong lobby.
type Member struct {
	ID    string `json:"uuid"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Client struct {
	Conn    *websocket.Conn
	Send    chan []byte
	Member  Member
	IsAdmin bool // admin theo dõi lobby nhưng không nằm trong ring
}

type Hub struct {
	Lobbies map[string]map[*websocket.Conn]*Client // theo lobby code
	order   map[string][]*websocket.Conn           // thứ tự join = thứ tự ring
	Mutex   sync.RWMutex
}

var H = Hub{
	Lobbies: make(map[string]map[*websocket.Conn]*Client),
	order:   make(map[string][]*websocket.Conn),
}

// LobbyEvent là khung message broadcast cho client trong lobby.
type LobbyEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Register client vào room của lobby
func (h *Hub) Register(lobbyCode string, conn *websocket.Conn, member Member, isAdmin bool) {
	h.Mutex.Lock()
	if _, ok := h.Lobbies[lobbyCode]; !ok {
		h.Lobbies[lobbyCode] = make(map[*websocket.Conn]*Client)
	}

	client := &Client{
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Member:  member,
		IsAdmin: isAdmin,
	}

	h.Lobbies[lobbyCode][conn] = client
	h.order[lobbyCode] = append(h.order[lobbyCode], conn)
	h.Mutex.Unlock()

	go h.readPump(lobbyCode, conn)
	go h.writePump(lobbyCode, conn)

	SendLobbyEvent(lobbyCode, "presence_sync", h.Members(lobbyCode))
}

// Unregister client khỏi room của lobby
func (h *Hub) Unregister(lobbyCode string, conn *websocket.Conn) {
	h.Mutex.Lock()
	removed := false
	if clients, ok := h.Lobbies[lobbyCode]; ok {
		if client, ok := clients[conn]; ok {
			close(client.Send)
			delete(clients, conn)
			removed = true
		}
		if len(clients) == 0 {
			delete(h.Lobbies, lobbyCode)
		}
	}
	if conns, ok := h.order[lobbyCode]; ok {
		for i, c := range conns {
			if c == conn {
				h.order[lobbyCode] = append(conns[:i], conns[i+1:]...)
				break
			}
		}
		if len(h.order[lobbyCode]) == 0 {
			delete(h.order, lobbyCode)
		}
	}
	h.Mutex.Unlock()

	if removed {
		SendLobbyEvent(lobbyCode, "presence_sync", h.Members(lobbyCode))
	}
}

// Members trả về người chơi đang online theo thứ tự join (ring xoay vòng).
// Admin không được tính vào ring.
func (h *Hub) Members(lobbyCode string) []Member {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	members := []Member{}
	clients := h.Lobbies[lobbyCode]
	for _, conn := range h.order[lobbyCode] {
		if client, ok := clients[conn]; ok && !client.IsAdmin {
			members = append(members, client.Member)
		}
	}
	return members
}

// Broadcast gửi data cho toàn bộ client trong lobby
func (h *Hub) Broadcast(lobbyCode string, data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	if clients, ok := h.Lobbies[lobbyCode]; ok {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// SendLobbyEvent gửi 1 event dạng JSON cho cả lobby (best-effort, fire-and-forget)
func SendLobbyEvent(lobbyCode string, event string, payload interface{}) {
	data, err := json.Marshal(LobbyEvent{Event: event, Payload: payload})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	H.Broadcast(lobbyCode, data)
}

// Read pump: client không gửi gì đáng xử lý, chỉ chờ đóng kết nối
func (h *Hub) readPump(lobbyCode string, conn *websocket.Conn) {
	defer h.Unregister(lobbyCode, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Write pump theo lobby
func (h *Hub) writePump(lobbyCode string, conn *websocket.Conn) {
	h.Mutex.RLock()
	client := h.Lobbies[lobbyCode][conn]
	h.Mutex.RUnlock()
	if client == nil {
		return
	}

	defer func() {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
	}()
	for msg := range client.Send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

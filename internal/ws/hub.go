package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one live socket inside a room. A user may hold several (tab
// reopened before the old socket times out); delivery targets all of them.
type Client struct {
	ID     uuid.UUID
	UserID uint
	conn   *websocket.Conn
}

func NewClient(userID uint, conn *websocket.Conn) *Client {
	return &Client{ID: uuid.New(), UserID: userID, conn: conn}
}

// Hub is the connection registry and broadcaster. It owns the room→client
// mapping and nothing else; room membership truth stays in the roster.
//
// A single mutex is held across each broadcast so that two concurrent
// broadcasts for the same room cannot interleave per-connection write order.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
	}
}

func (h *Hub) AddClient(code string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[code] == nil {
		h.rooms[code] = make(map[*Client]bool)
	}
	h.rooms[code][client] = true
	log.Printf("ws: client %s connected to room %s (total: %d)", client.ID, code, len(h.rooms[code]))
}

func (h *Hub) RemoveClient(code string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[code]; ok {
		delete(clients, client)
		client.conn.Close()
		if len(clients) == 0 {
			delete(h.rooms, code)
		}
		log.Printf("ws: client %s disconnected from room %s", client.ID, code)
	}
}

// Broadcast delivers an event to every connection in the room. Dead
// connections are dropped on write failure; delivery to nobody is fine.
func (h *Hub) Broadcast(code string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.send(code, event, func(*Client) bool { return true })
}

// SendToUser delivers an event to one member's connections only.
func (h *Hub) SendToUser(code string, userID uint, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.send(code, event, func(c *Client) bool { return c.UserID == userID })
}

// SendTo delivers an event to a single connection, used for snapshot replay
// right after a client (re)subscribes.
func (h *Hub) SendTo(client *Client, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}
	if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("ws: write error: %v", err)
	}
}

func (h *Hub) send(code string, event Event, match func(*Client) bool) {
	clients, ok := h.rooms[code]
	if !ok {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for client := range clients {
		if !match(client) {
			continue
		}
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			client.conn.Close()
			delete(clients, client)
		}
	}
}

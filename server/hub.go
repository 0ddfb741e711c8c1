package server

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/mtlgames/bonhomme"
	"github.com/mtlgames/bonhomme/protocol"
)

// StateMessage is the envelope broadcast to every socket in a room
// whenever an action is accepted
type StateMessage struct {
	Command string              `json:"command"`
	RoomID  string              `json:"roomId"`
	State   *bonhomme.GameState `json:"state"`
}

// client wraps one websocket connection with a write lock. The websocket
// package allows at most one concurrent writer per connection, and two
// actions on the same room can broadcast at the same time once they are
// past the store, so every write must go through this lock.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(msg StateMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Hub tracks the open websocket connections per room and fans room state
// out to them
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*client]bool
}

// NewHub constructs a Hub
func NewHub() *Hub {
	return &Hub{conns: map[string]map[*client]bool{}}
}

// Register adds a connection to a room and starts discarding its reads
// until it closes. The returned client carries the connection's write
// lock; all subsequent writes must go through it.
func (h *Hub) Register(roomID string, conn *websocket.Conn) *client {
	cl := &client{conn: conn}

	h.mu.Lock()
	if h.conns[roomID] == nil {
		h.conns[roomID] = map[*client]bool{}
	}
	h.conns[roomID][cl] = true
	h.mu.Unlock()

	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister(roomID, cl)
				conn.Close()
				return
			}
		}
	}()
	return cl
}

func (h *Hub) unregister(roomID string, cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.conns[roomID], cl)
	if len(h.conns[roomID]) == 0 {
		delete(h.conns, roomID)
	}
}

// Broadcast sends the room's latest state to every connection in it
func (h *Hub) Broadcast(room bonhomme.Room, cmd protocol.Cmd) {
	msg := StateMessage{
		Command: cmd.String(),
		RoomID:  room.ID,
		State:   room.State,
	}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.conns[room.ID]))
	for cl := range h.conns[room.ID] {
		clients = append(clients, cl)
	}
	h.mu.Unlock()

	for _, cl := range clients {
		if err := cl.write(msg); err != nil {
			log.Println("dropping websocket:", err)
			h.unregister(room.ID, cl)
			cl.conn.Close()
		}
	}
}

package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Event is the envelope for everything sent over the support socket.
type Event struct {
	Event    string      `json:"event"`
	TicketID uint        `json:"ticket_id,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// Hub tracks which clients are in which ticket room and fans events out
// to them. Ordering is per-room FIFO as written to each connection; a
// slow client drops events rather than blocking the room.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]bool
}

// MainHub is the process-wide hub instance.
var MainHub = NewHub()

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]bool)}
}

// Join adds the client to a ticket room.
func (h *Hub) Join(c *Client, ticketID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[ticketID] == nil {
		h.rooms[ticketID] = make(map[*Client]bool)
	}
	h.rooms[ticketID][c] = true
	c.rooms[ticketID] = true
}

// Leave removes the client from a ticket room.
func (h *Hub) Leave(c *Client, ticketID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, ticketID)
}

func (h *Hub) leaveLocked(c *Client, ticketID uint) {
	if members, ok := h.rooms[ticketID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, ticketID)
		}
	}
	delete(c.rooms, ticketID)
}

// Detach removes the client from every room. Called when the connection
// drops; absence doubles as "left room" and "not typing".
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ticketID := range c.rooms {
		h.leaveLocked(c, ticketID)
	}
}

// RoomSize reports the member count of a ticket room.
func (h *Hub) RoomSize(ticketID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[ticketID])
}

// Broadcast sends an event to every member of a ticket room. When
// staffOnly is set (internal notes), non-staff members are skipped —
// the filtering happens here, before delivery, never client-side.
func (h *Hub) Broadcast(ticketID uint, event string, data interface{}, staffOnly bool) {
	payload, err := json.Marshal(Event{Event: event, TicketID: ticketID, Data: data})
	if err != nil {
		log.Printf("[WS] Failed to encode %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[ticketID] {
		if staffOnly && !client.IsStaff {
			continue
		}
		client.enqueue(payload)
	}
}

// BroadcastExcept is Broadcast minus the sender, used for typing relays.
func (h *Hub) BroadcastExcept(sender *Client, ticketID uint, event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, TicketID: ticketID, Data: data})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[ticketID] {
		if client == sender {
			continue
		}
		client.enqueue(payload)
	}
}

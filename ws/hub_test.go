package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID uint, isStaff bool) *Client {
	return &Client{
		UserID:  userID,
		IsStaff: isStaff,
		send:    make(chan []byte, 8),
		rooms:   make(map[uint]bool),
	}
}

func drain(c *Client) []Event {
	var events []Event
	for {
		select {
		case payload := <-c.send:
			var event Event
			if err := json.Unmarshal(payload, &event); err == nil {
				events = append(events, event)
			}
		default:
			return events
		}
	}
}

func TestJoinLeaveRoomMembership(t *testing.T) {
	hub := NewHub()
	customer := newTestClient(1, false)

	hub.Join(customer, 42)
	assert.Equal(t, 1, hub.RoomSize(42))
	assert.True(t, customer.rooms[42])

	hub.Leave(customer, 42)
	assert.Equal(t, 0, hub.RoomSize(42))
	assert.False(t, customer.rooms[42])
}

func TestBroadcastReachesRoomMembersOnly(t *testing.T) {
	hub := NewHub()
	inRoom := newTestClient(1, false)
	elsewhere := newTestClient(2, false)

	hub.Join(inRoom, 42)
	hub.Join(elsewhere, 99)

	hub.Broadcast(42, "message:new", map[string]string{"content": "hi"}, false)

	events := drain(inRoom)
	require.Len(t, events, 1)
	assert.Equal(t, "message:new", events[0].Event)
	assert.Equal(t, uint(42), events[0].TicketID)

	assert.Empty(t, drain(elsewhere))
}

func TestStaffOnlyBroadcastSkipsCustomers(t *testing.T) {
	hub := NewHub()
	customer := newTestClient(1, false)
	staff := newTestClient(2, true)

	hub.Join(customer, 7)
	hub.Join(staff, 7)

	hub.Broadcast(7, "message:new", map[string]string{"content": "internal note"}, true)

	assert.Empty(t, drain(customer), "internal events must never reach non-staff sockets")
	require.Len(t, drain(staff), 1)

	// A regular event still reaches both.
	hub.Broadcast(7, "ticket:updated", map[string]string{"status": "IN_PROGRESS"}, false)
	assert.Len(t, drain(customer), 1)
	assert.Len(t, drain(staff), 1)
}

func TestBroadcastExceptSkipsSender(t *testing.T) {
	hub := NewHub()
	sender := newTestClient(1, false)
	other := newTestClient(2, true)

	hub.Join(sender, 7)
	hub.Join(other, 7)

	hub.BroadcastExcept(sender, 7, "typing:start", map[string]uint{"user_id": 1})

	assert.Empty(t, drain(sender))
	events := drain(other)
	require.Len(t, events, 1)
	assert.Equal(t, "typing:start", events[0].Event)
}

func TestDetachClearsEveryRoom(t *testing.T) {
	hub := NewHub()
	client := newTestClient(1, true)

	hub.Join(client, 1)
	hub.Join(client, 2)
	hub.Join(client, 3)

	hub.Detach(client)

	assert.Equal(t, 0, hub.RoomSize(1))
	assert.Equal(t, 0, hub.RoomSize(2))
	assert.Equal(t, 0, hub.RoomSize(3))
	assert.Empty(t, client.rooms)
}

func TestSlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	slow := &Client{UserID: 1, send: make(chan []byte, 1), rooms: make(map[uint]bool)}
	hub.Join(slow, 5)

	// The buffer holds one event; the rest are dropped, and Broadcast
	// returns without blocking.
	for i := 0; i < 10; i++ {
		hub.Broadcast(5, "message:new", i, false)
	}

	assert.Len(t, drain(slow), 1)
}

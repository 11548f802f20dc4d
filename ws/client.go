package ws

import (
	"encoding/json"
	"log"
	"thulobazaar/database"
	"thulobazaar/middleware"
	"thulobazaar/models"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Client is one authenticated socket connection.
type Client struct {
	UserID  uint
	Name    string
	IsStaff bool

	conn  *websocket.Conn
	send  chan []byte
	rooms map[uint]bool
}

// enqueue hands a payload to the writer without blocking the room; a
// full buffer means the client is too slow and the event is dropped.
func (c *Client) enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

// UpgradeMiddleware authenticates the connect request with the same
// bearer token the HTTP routes use (passed as ?token=) and rejects
// non-websocket requests.
func UpgradeMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	claims, err := middleware.ParseToken(c.Query("token"))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Invalid or expired token",
		})
	}

	userID := uint(claims["userId"].(float64))

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false AND is_blocked = false", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "User not found",
		})
	}

	c.Locals("userId", user.ID)
	c.Locals("userName", user.Name)
	c.Locals("isStaff", user.IsStaff())
	return c.Next()
}

// ConnHandler runs one connection: a writer goroutine draining the send
// buffer and a read loop for join/leave/typing events.
var ConnHandler = websocket.New(func(conn *websocket.Conn) {
	client := &Client{
		UserID:  conn.Locals("userId").(uint),
		Name:    conn.Locals("userName").(string),
		IsStaff: conn.Locals("isStaff").(bool),
		conn:    conn,
		send:    make(chan []byte, 64),
		rooms:   make(map[uint]bool),
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case payload := <-client.send:
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	defer func() {
		MainHub.Detach(client)
		close(done)
		conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}
		handleClientEvent(client, &event)
	}
})

// handleClientEvent dispatches inbound events. Messages themselves go
// through the HTTP endpoint; the socket only carries presence and
// typing, which are ephemeral.
func handleClientEvent(client *Client, event *Event) {
	switch event.Event {
	case "join":
		if !canAccessTicket(client, event.TicketID) {
			return
		}
		MainHub.Join(client, event.TicketID)
	case "leave":
		MainHub.Leave(client, event.TicketID)
	case "typing:start", "typing:stop":
		if !client.rooms[event.TicketID] {
			return
		}
		MainHub.BroadcastExcept(client, event.TicketID, event.Event, fiber.Map{
			"user_id":  client.UserID,
			"name":     client.Name,
			"is_staff": client.IsStaff,
		})
	default:
		log.Printf("[WS] Unknown event %q from user %d", event.Event, client.UserID)
	}
}

// canAccessTicket allows staff into any room and customers into their
// own tickets only.
func canAccessTicket(client *Client, ticketID uint) bool {
	if ticketID == 0 {
		return false
	}
	if client.IsStaff {
		return true
	}
	var count int64
	database.Database.Db.Model(&models.SupportTicket{}).
		Where("id = ? AND user_id = ? AND is_deleted = false", ticketID, client.UserID).
		Count(&count)
	return count > 0
}

package models

import "gorm.io/gorm"

const (
	TicketStatusOpen          = "OPEN"
	TicketStatusInProgress    = "IN_PROGRESS"
	TicketStatusWaitingOnUser = "WAITING_ON_USER"
	TicketStatusResolved      = "RESOLVED"
	TicketStatusClosed        = "CLOSED"

	TicketPriorityLow    = "LOW"
	TicketPriorityNormal = "NORMAL"
	TicketPriorityHigh   = "HIGH"
	TicketPriorityUrgent = "URGENT"
)

// SupportTicket is one conversation thread between a user and staff.
// CLOSED is terminal for customer-originated messages.
type SupportTicket struct {
	gorm.Model
	TicketNumber string `json:"ticket_number" gorm:"uniqueIndex;not null"`
	UserID       uint   `json:"user_id" gorm:"index"`
	Subject      string `json:"subject" gorm:"not null"`
	Category     string `json:"category" gorm:"default:'GENERAL'"`
	Priority     string `json:"priority" gorm:"default:'NORMAL'"`
	Status       string `json:"status" gorm:"default:'OPEN';index"`
	AssignedTo   *uint  `json:"assigned_to"` // staff user id, optional
	IsDeleted    bool   `json:"is_deleted" gorm:"default:false"`

	Messages []TicketMessage `json:"messages,omitempty" gorm:"foreignKey:TicketID"`
}

// TicketMessage is one chat line. IsInternal rows are staff-only and are
// stripped server-side before any non-staff delivery.
type TicketMessage struct {
	gorm.Model
	TicketID   uint   `json:"ticket_id" gorm:"index"`
	SenderID   uint   `json:"sender_id"`
	SenderName string `json:"sender_name"`
	IsStaff    bool   `json:"is_staff" gorm:"default:false"`
	IsInternal bool   `json:"is_internal" gorm:"default:false"`
	Content    string `json:"content" gorm:"not null"`
}

// VisibleMessages filters out internal notes for non-staff viewers.
func (t *SupportTicket) VisibleMessages(isStaff bool) []TicketMessage {
	if isStaff {
		return t.Messages
	}
	visible := make([]TicketMessage, 0, len(t.Messages))
	for _, m := range t.Messages {
		if !m.IsInternal {
			visible = append(visible, m)
		}
	}
	return visible
}

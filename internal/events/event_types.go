package events

import (
	"time"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventReplyAdded          EventType = "reply_added"
	EventPaymentVerified     EventType = "payment_verified"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID *string     `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	CategoryID string                `json:"category_id"`
	Priority   domain.TicketPriority `json:"priority"`
	Title      string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssigneeStaffID string `json:"assignee_staff_id"`
}

// ReplyAddedPayload payload.
type ReplyAddedPayload struct {
	ReplyID     string `json:"reply_id"`
	AuthorID    string `json:"author_id"`
	BodyPreview string `json:"body_preview"`
}

// PaymentVerifiedPayload payload.
type PaymentVerifiedPayload struct {
	TransactionNumber string                   `json:"transaction_number"`
	Recommendation    bool                     `json:"strategy_recommendation"`
	FinalDecision     bool                     `json:"final_decision"`
	Status            domain.TransactionStatus `json:"status"`
}

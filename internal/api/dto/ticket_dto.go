package dto

import "time"

// CreateTicketRequest is the student ticket submission payload. Amount is
// accepted only on the business-office fee entry route.
type CreateTicketRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    string   `json:"priority"`
	CategoryID  string   `json:"category_id"`
	Amount      *float64 `json:"amount,omitempty"`
}

// UpdateTicketRequest is the owner edit payload.
type UpdateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	CategoryID  string `json:"category_id"`
}

// AssignTicketRequest assigns a staff member.
type AssignTicketRequest struct {
	StaffID string `json:"staff_id"`
}

// ResolveTicketRequest carries resolution notes.
type ResolveTicketRequest struct {
	Notes string `json:"notes"`
}

// UpdateTicketStatusRequest sets an explicit status.
type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

// VerifyTicketPaymentRequest records the verifier's decision.
type VerifyTicketPaymentRequest struct {
	Approved bool `json:"approved"`
}

// TicketPaymentResponse is the payment sub-record of a ticket.
type TicketPaymentResponse struct {
	Amount     *float64   `json:"amount,omitempty"`
	Verified   bool       `json:"verified"`
	VerifiedBy *string    `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// TicketResponse is the API shape of a ticket.
type TicketResponse struct {
	ID              string                 `json:"id"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Status          string                 `json:"status"`
	Priority        string                 `json:"priority"`
	CategoryID      string                 `json:"category_id"`
	CreatorID       *string                `json:"creator_id,omitempty"`
	AssigneeID      *string                `json:"assignee_id,omitempty"`
	ResolutionNotes *string                `json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time             `json:"resolved_at,omitempty"`
	Payment         *TicketPaymentResponse `json:"payment,omitempty"`
	CanEdit         bool                   `json:"can_edit"`
	CanDelete       bool                   `json:"can_delete"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// CreateReplyRequest appends to a ticket thread.
type CreateReplyRequest struct {
	Content string `json:"content"`
}

// ReplyResponse is the API shape of a thread reply.
type ReplyResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

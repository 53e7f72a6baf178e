package domain

import "time"

// MaxReplyLength bounds reply content size.
const MaxReplyLength = 2000

// Reply is an append-only message in a ticket thread, ordered by creation
// time ascending for display.
type Reply struct {
	ID        string
	TicketID  string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

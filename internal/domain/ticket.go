package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// Ticket is the aggregate for student support requests. CreatorID is nil for
// legacy records imported before student accounts existed; AssigneeID points
// at the staff directory.
type Ticket struct {
	ID              string
	Title           string
	Description     string
	Status          TicketStatus
	Priority        TicketPriority
	CategoryID      string
	CreatorID       *string
	AssigneeID      *string
	ResolutionNotes *string
	ResolvedAt      *time.Time
	Payment         *TicketPayment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TicketPayment holds the optional payment sub-record carried by
// fee-related tickets.
type TicketPayment struct {
	Amount     *float64
	Verified   bool
	VerifiedBy *string
	VerifiedAt *time.Time
}

// ParseTicketStatus returns the status matching the given value and whether
// the value was recognised. User-facing forms feed arbitrary strings here;
// unknown values are ignored by the caller rather than rejected.
func ParseTicketStatus(value string) (TicketStatus, bool) {
	switch TicketStatus(value) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return TicketStatus(value), true
	}
	return "", false
}

// ParseTicketPriority returns the priority matching the given value and
// whether the value was recognised.
func ParseTicketPriority(value string) (TicketPriority, bool) {
	switch TicketPriority(value) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return TicketPriority(value), true
	}
	return "", false
}

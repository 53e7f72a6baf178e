package domain

import "time"

const (
	MaxSavedReportNameLength        = 100
	MaxSavedReportDescriptionLength = 500
)

// SavedReport is a named report-filter preset, private to its creator.
type SavedReport struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	DateFrom    *time.Time
	DateTo      *time.Time
	CategoryIDs []string
	StaffIDs    []string
	Statuses    []TicketStatus
	StudentName *string
	StudentID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

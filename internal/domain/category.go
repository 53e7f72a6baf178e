package domain

import "time"

// Category is reference data for ticket classification. Categories are only
// ever soft-deleted (Active cleared) because tickets hold a non-nullable
// reference to them.
type Category struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

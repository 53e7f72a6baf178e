package domain

import "time"

// Staff is a directory entry for a support staff member, referenced by
// ticket assignment and report filters.
type Staff struct {
	ID         string
	Name       string
	Email      string
	Department string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

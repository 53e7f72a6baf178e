package domain

import "time"

// Role is the closed set of actor roles in the helpdesk.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User is the domain model for every authenticated actor: students who
// submit tickets, staff who triage them and administrators.
type User struct {
	ID           string
	Name         string
	Email        string
	Username     *string
	PasswordHash string
	Role         Role
	Status       UserStatus
	Enabled      bool
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAuthenticate reports whether the account may log in. A soft-deleted,
// inactive or disabled account never authenticates.
func (u *User) CanAuthenticate() bool {
	return u != nil && !u.Deleted && u.Enabled && u.Status == UserStatusActive
}

// IsStaffLike reports whether the user acts on the staff side of the desk.
func (u *User) IsStaffLike() bool {
	return u != nil && (u.Role == RoleStaff || u.Role == RoleAdmin)
}

package domain

import "time"

// MaxTemplateLength caps canned-response content.
const MaxTemplateLength = 10000

// ResponseTemplate is a canned reply a staff member can drop into a ticket
// thread. Templates created by admins are shared with every staff member;
// others are private to their creator.
type ResponseTemplate struct {
	ID        string
	Title     string
	Content   string
	CreatedBy string
	Shared    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// VisibleTo reports whether a user may read or apply the template.
func (t *ResponseTemplate) VisibleTo(userID string) bool {
	return t.Shared || t.CreatedBy == userID
}

package dto

import "time"

// ReportRowResponse is one line of the on-screen report.
type ReportRowResponse struct {
	TicketID     string     `json:"ticket_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	CategoryName string     `json:"category_name"`
	StaffName    *string    `json:"staff_name,omitempty"`
	StudentName  *string    `json:"student_name,omitempty"`
	StudentID    *string    `json:"student_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
}

// SavedReportRequest names a filter preset; the filter itself comes
// from the query string.
type SavedReportRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SavedReportResponse is a stored filter preset.
type SavedReportResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	DateFrom    *time.Time `json:"date_from,omitempty"`
	DateTo      *time.Time `json:"date_to,omitempty"`
	CategoryIDs []string   `json:"category_ids,omitempty"`
	StaffIDs    []string   `json:"staff_ids,omitempty"`
	Statuses    []string   `json:"statuses,omitempty"`
	StudentName *string    `json:"student_name,omitempty"`
	StudentID   *string    `json:"student_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// StrategySettingsResponse reports the active strategies.
type StrategySettingsResponse struct {
	PaymentStrategy  string `json:"payment_strategy"`
	CategoryStrategy string `json:"category_strategy"`
}

// UpdateStrategySettingsRequest switches strategies at runtime. Empty
// fields leave the current selection unchanged.
type UpdateStrategySettingsRequest struct {
	PaymentStrategy  string `json:"payment_strategy"`
	CategoryStrategy string `json:"category_strategy"`
}

package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// ReportsHandler serves filtered reports and file exports.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// List GET /reports returns rows plus summary for on-screen display.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	filter, err := parseReportQuery(c)
	if err != nil {
		return err
	}
	rows, err := h.reports.Rows(c.Context(), filter)
	if err != nil {
		return err
	}
	summary, err := h.reports.Summary(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ReportRowResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ReportRowResponse{
			TicketID:     row.TicketID,
			Title:        row.Title,
			Status:       string(row.Status),
			Priority:     string(row.Priority),
			CategoryName: row.CategoryName,
			StaffName:    row.StaffName,
			StudentName:  row.StudentName,
			StudentID:    row.StudentID,
			CreatedAt:    row.CreatedAt,
			ResolvedAt:   row.ResolvedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items, "summary": summary})
}

// Export GET /reports/export?format=csv|excel|pdf streams a file download.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	filter, err := parseReportQuery(c)
	if err != nil {
		return err
	}

	stamp := time.Now().Format("20060102-150405")
	switch strings.ToLower(c.Query("format", "csv")) {
	case "csv":
		payload, err := h.reports.ExportCSV(c.Context(), filter)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="tickets-`+stamp+`.csv"`)
		return c.Send(payload)
	case "excel", "xlsx":
		payload, err := h.reports.ExportExcel(c.Context(), filter)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="tickets-`+stamp+`.xlsx"`)
		return c.Send(payload)
	case "pdf":
		payload, err := h.reports.ExportPDF(c.Context(), filter)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="tickets-`+stamp+`.pdf"`)
		return c.Send(payload)
	default:
		return apperrors.NewValidationError("unknown export format", map[string]any{"format": c.Query("format")})
	}
}

// Save POST /reports/saved stores the query-string filter under the name
// in the body.
func (h *ReportsHandler) Save(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter, err := parseReportQuery(c)
	if err != nil {
		return err
	}
	var req dto.SavedReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	saved, err := h.reports.SaveReport(c.Context(), principal.User, req.Name, req.Description, filter)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": savedReportResponse(saved)})
}

// ListSaved GET /reports/saved returns the caller's presets.
func (h *ReportsHandler) ListSaved(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	saved, err := h.reports.ListSavedReports(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.SavedReportResponse, 0, len(saved))
	for i := range saved {
		items = append(items, savedReportResponse(&saved[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// RunSaved GET /reports/saved/:id executes a preset and returns rows plus
// summary, same shape as List.
func (h *ReportsHandler) RunSaved(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	rows, summary, err := h.reports.RunSavedReport(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.ReportRowResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ReportRowResponse{
			TicketID:     row.TicketID,
			Title:        row.Title,
			Status:       string(row.Status),
			Priority:     string(row.Priority),
			CategoryName: row.CategoryName,
			StaffName:    row.StaffName,
			StudentName:  row.StudentName,
			StudentID:    row.StudentID,
			CreatedAt:    row.CreatedAt,
			ResolvedAt:   row.ResolvedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items, "summary": summary})
}

// DeleteSaved DELETE /reports/saved/:id.
func (h *ReportsHandler) DeleteSaved(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.reports.DeleteSavedReport(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func savedReportResponse(saved *domain.SavedReport) dto.SavedReportResponse {
	statuses := make([]string, 0, len(saved.Statuses))
	for _, status := range saved.Statuses {
		statuses = append(statuses, string(status))
	}
	return dto.SavedReportResponse{
		ID:          saved.ID,
		Name:        saved.Name,
		Description: saved.Description,
		DateFrom:    saved.DateFrom,
		DateTo:      saved.DateTo,
		CategoryIDs: saved.CategoryIDs,
		StaffIDs:    saved.StaffIDs,
		Statuses:    statuses,
		StudentName: saved.StudentName,
		StudentID:   saved.StudentID,
		CreatedAt:   saved.CreatedAt,
	}
}

func parseReportQuery(c *fiber.Ctx) (repository.ReportFilter, error) {
	filter := repository.ReportFilter{}

	if from := c.Query("date_from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid date_from, expected YYYY-MM-DD", nil)
		}
		filter.DateFrom = &parsed
	}
	if to := c.Query("date_to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return filter, apperrors.NewValidationError("invalid date_to, expected YYYY-MM-DD", nil)
		}
		// Inclusive end of day.
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &end
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return filter, apperrors.NewValidationError("date_to precedes date_from", nil)
	}

	filter.CategoryIDs = splitQuery(c.Query("category_ids"))
	filter.StaffIDs = splitQuery(c.Query("staff_ids"))
	for _, value := range splitQuery(c.Query("statuses")) {
		if status, ok := domain.ParseTicketStatus(value); ok {
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if name := c.Query("student_name"); name != "" {
		filter.StudentName = &name
	}
	if id := c.Query("student_id"); id != "" {
		filter.StudentID = &id
	}
	return filter, nil
}

func splitQuery(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

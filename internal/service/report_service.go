package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/jackc/pgx/v5"
	"github.com/xuri/excelize/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// ReportService produces filtered ticket reports, renders them as CSV,
// Excel or PDF downloads, and keeps per-user filter presets.
type ReportService struct {
	reports repository.ReportRepository
	saved   repository.SavedReportRepository
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository, saved repository.SavedReportRepository) *ReportService {
	return &ReportService{reports: reports, saved: saved}
}

// ReportSummary aggregates the filtered ticket set.
type ReportSummary struct {
	TotalTickets           int64    `json:"total_tickets"`
	AverageResolutionHours *float64 `json:"average_resolution_hours"`
}

var reportHeader = []string{
	"Ticket ID", "Title", "Status", "Priority", "Category",
	"Assigned Staff", "Student Name", "Student ID", "Created At", "Resolved At",
}

// Rows returns the report rows for on-screen display.
func (s *ReportService) Rows(ctx context.Context, filter repository.ReportFilter) ([]repository.ReportRow, error) {
	rows, err := s.reports.ListRows(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rows, nil
}

// Summary returns headline numbers for the filtered set. The average is
// nil when no ticket in the set has been resolved.
func (s *ReportService) Summary(ctx context.Context, filter repository.ReportFilter) (*ReportSummary, error) {
	total, err := s.reports.CountRows(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avg, err := s.reports.AverageResolutionHours(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ReportSummary{TotalTickets: total, AverageResolutionHours: avg}, nil
}

// SaveReport stores a named filter preset for the actor.
func (s *ReportService) SaveReport(ctx context.Context, actor *domain.User, name, description string, filter repository.ReportFilter) (*domain.SavedReport, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("saved report requires an authenticated owner")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("report name is required", nil)
	}
	if len(name) > domain.MaxSavedReportNameLength {
		return nil, apperrors.NewValidationError("report name too long", map[string]any{"max": domain.MaxSavedReportNameLength})
	}
	if len(description) > domain.MaxSavedReportDescriptionLength {
		return nil, apperrors.NewValidationError("report description too long", map[string]any{"max": domain.MaxSavedReportDescriptionLength})
	}

	report := &domain.SavedReport{
		Name:        name,
		Description: description,
		CreatedBy:   actor.ID,
		DateFrom:    filter.DateFrom,
		DateTo:      filter.DateTo,
		CategoryIDs: filter.CategoryIDs,
		StaffIDs:    filter.StaffIDs,
		Statuses:    filter.Statuses,
		StudentName: filter.StudentName,
		StudentID:   filter.StudentID,
	}
	if err := s.saved.Create(ctx, report); err != nil {
		return nil, apperrors.MapError(err)
	}
	return report, nil
}

// ListSavedReports returns the actor's presets.
func (s *ReportService) ListSavedReports(ctx context.Context, actor *domain.User) ([]domain.SavedReport, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	reports, err := s.saved.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// RunSavedReport executes a preset. Presets are private: another user's
// preset reads as missing.
func (s *ReportService) RunSavedReport(ctx context.Context, actor *domain.User, id string) ([]repository.ReportRow, *ReportSummary, error) {
	saved, err := s.getOwnedSavedReport(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	filter := FilterFromSavedReport(saved)
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.Summary(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	return rows, summary, nil
}

// DeleteSavedReport removes one of the actor's presets.
func (s *ReportService) DeleteSavedReport(ctx context.Context, actor *domain.User, id string) error {
	if _, err := s.getOwnedSavedReport(ctx, actor, id); err != nil {
		return err
	}
	if err := s.saved.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// FilterFromSavedReport rebuilds the query filter a preset captured.
func FilterFromSavedReport(saved *domain.SavedReport) repository.ReportFilter {
	return repository.ReportFilter{
		DateFrom:    saved.DateFrom,
		DateTo:      saved.DateTo,
		CategoryIDs: saved.CategoryIDs,
		StaffIDs:    saved.StaffIDs,
		Statuses:    saved.Statuses,
		StudentName: saved.StudentName,
		StudentID:   saved.StudentID,
	}
}

func (s *ReportService) getOwnedSavedReport(ctx context.Context, actor *domain.User, id string) (*domain.SavedReport, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	saved, err := s.saved.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("saved report", map[string]any{"report_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if saved.CreatedBy != actor.ID {
		return nil, apperrors.NewNotFound("saved report", map[string]any{"report_id": id})
	}
	return saved, nil
}

// ExportCSV renders the filtered report as CSV. An empty result still
// yields a header-only file.
func (s *ReportService) ExportCSV(ctx context.Context, filter repository.ReportFilter) ([]byte, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(reportHeader); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	for _, row := range rows {
		if err := writer.Write(reportRecord(row)); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return buf.Bytes(), nil
}

// ExportExcel renders the filtered report as an xlsx workbook with a
// single "Tickets" sheet.
func (s *ReportService) ExportExcel(ctx context.Context, filter repository.ReportFilter) ([]byte, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Tickets"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	for col, title := range reportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if err := file.SetCellValue(sheet, cell, title); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
	}
	for i, row := range rows {
		for col, value := range reportRecord(row) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, apperrors.NewInternalError(err)
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return nil, apperrors.NewInternalError(err)
			}
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return buf.Bytes(), nil
}

// ExportPDF renders the filtered report as a landscape A4 table.
func (s *ReportService) ExportPDF(ctx context.Context, filter repository.ReportFilter) ([]byte, error) {
	rows, err := s.Rows(ctx, filter)
	if err != nil {
		return nil, err
	}
	summary, err := s.Summary(ctx, filter)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Helpdesk Ticket Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s | Total tickets: %d | Avg resolution: %s",
		time.Now().Format("2006-01-02 15:04"), summary.TotalTickets, formatHours(summary.AverageResolutionHours)))
	pdf.Ln(8)

	widths := []float64{36, 52, 24, 20, 30, 30, 30, 22, 24, 24}
	pdf.SetFont("Helvetica", "B", 8)
	for i, title := range reportHeader {
		pdf.CellFormat(widths[i], 6, title, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		for i, value := range reportRecord(row) {
			pdf.CellFormat(widths[i], 6, truncate(value, 32), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return buf.Bytes(), nil
}

func reportRecord(row repository.ReportRow) []string {
	return []string{
		row.TicketID,
		row.Title,
		string(row.Status),
		string(row.Priority),
		row.CategoryName,
		deref(row.StaffName),
		deref(row.StudentName),
		deref(row.StudentID),
		row.CreatedAt.Format(time.RFC3339),
		formatTime(row.ResolvedAt),
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatHours(hours *float64) string {
	if hours == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*hours, 'f', 1, 64) + "h"
}

// truncate shortens to max runes so multibyte names are never cut mid-rune.
func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

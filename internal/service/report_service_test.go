package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

type fakeReportRepo struct {
	rows []repository.ReportRow
	avg  *float64
}

func (r *fakeReportRepo) ListRows(_ context.Context, _ repository.ReportFilter) ([]repository.ReportRow, error) {
	return r.rows, nil
}

func (r *fakeReportRepo) CountRows(_ context.Context, _ repository.ReportFilter) (int64, error) {
	return int64(len(r.rows)), nil
}

func (r *fakeReportRepo) AverageResolutionHours(_ context.Context, _ repository.ReportFilter) (*float64, error) {
	return r.avg, nil
}

func sampleReportRows() []repository.ReportRow {
	staffName := "Dana"
	studentName := "Alice Chen"
	studentID := "achen"
	resolved := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return []repository.ReportRow{
		{
			TicketID:     "ticket-1",
			Title:        "Wifi down",
			Status:       domain.TicketStatusResolved,
			Priority:     domain.TicketPriorityHigh,
			CategoryName: "IT Support",
			StaffName:    &staffName,
			StudentName:  &studentName,
			StudentID:    &studentID,
			CreatedAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			ResolvedAt:   &resolved,
		},
		{
			TicketID:     "ticket-2",
			Title:        "Fee dispute",
			Status:       domain.TicketStatusOpen,
			Priority:     domain.TicketPriorityMedium,
			CategoryName: "Fees",
			CreatedAt:    time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestExportCSV(t *testing.T) {
	avg := 25.0
	svc := NewReportService(&fakeReportRepo{rows: sampleReportRows(), avg: &avg}, newFakeSavedReportRepo())

	payload, err := svc.ExportCSV(context.Background(), repository.ReportFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, reportHeader, records[0])
	assert.Equal(t, "ticket-1", records[1][0])
	assert.Equal(t, "RESOLVED", records[1][2])
	assert.Equal(t, "Dana", records[1][5])
	// Unassigned and unresolved fields render empty.
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "", records[2][9])
}

func TestExportCSVEmptyResultKeepsHeader(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, newFakeSavedReportRepo())

	payload, err := svc.ExportCSV(context.Background(), repository.ReportFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, reportHeader, records[0])
}

func TestExportExcel(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{rows: sampleReportRows()}, newFakeSavedReportRepo())

	payload, err := svc.ExportExcel(context.Background(), repository.ReportFilter{})
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Tickets")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ticket ID", rows[0][0])
	assert.Equal(t, "Wifi down", rows[1][1])
	assert.Equal(t, "Fees", rows[2][4])
}

func TestExportPDF(t *testing.T) {
	avg := 25.0
	svc := NewReportService(&fakeReportRepo{rows: sampleReportRows(), avg: &avg}, newFakeSavedReportRepo())

	payload, err := svc.ExportPDF(context.Background(), repository.ReportFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, payload)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 40)
	short := truncate(long, 10)
	assert.True(t, utf8.ValidString(short))
	assert.Equal(t, strings.Repeat("é", 7)+"...", short)

	// Values at or under the limit pass through untouched.
	assert.Equal(t, "Müller", truncate("Müller", 10))
}

func TestSaveReportValidation(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, newFakeSavedReportRepo())

	_, err := svc.SaveReport(context.Background(), staffUser("s1"), "  ", "", repository.ReportFilter{})
	assert.Error(t, err)
	_, err = svc.SaveReport(context.Background(), staffUser("s1"), strings.Repeat("n", domain.MaxSavedReportNameLength+1), "", repository.ReportFilter{})
	assert.Error(t, err)
	_, err = svc.SaveReport(context.Background(), staffUser("s1"), "Weekly", strings.Repeat("d", domain.MaxSavedReportDescriptionLength+1), repository.ReportFilter{})
	assert.Error(t, err)
	_, err = svc.SaveReport(context.Background(), nil, "Weekly", "", repository.ReportFilter{})
	assert.Error(t, err)
}

func TestSavedReportRoundTrip(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{rows: sampleReportRows()}, newFakeSavedReportRepo())

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	filter := repository.ReportFilter{
		DateFrom:    &from,
		CategoryIDs: []string{"category-1"},
		Statuses:    []domain.TicketStatus{domain.TicketStatusResolved},
	}
	saved, err := svc.SaveReport(context.Background(), staffUser("s1"), "Resolved IT", "March resolutions", filter)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	listed, err := svc.ListSavedReports(context.Background(), staffUser("s1"))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Resolved IT", listed[0].Name)

	rows, summary, err := svc.RunSavedReport(context.Background(), staffUser("s1"), saved.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(2), summary.TotalTickets)

	// The rebuilt filter carries everything the preset stored.
	rebuilt := FilterFromSavedReport(saved)
	assert.Equal(t, filter.DateFrom, rebuilt.DateFrom)
	assert.Equal(t, filter.CategoryIDs, rebuilt.CategoryIDs)
	assert.Equal(t, filter.Statuses, rebuilt.Statuses)
}

func TestSavedReportsArePrivate(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{}, newFakeSavedReportRepo())

	saved, err := svc.SaveReport(context.Background(), staffUser("s1"), "Mine", "", repository.ReportFilter{})
	require.NoError(t, err)

	// Another user neither sees, runs nor deletes it.
	listed, err := svc.ListSavedReports(context.Background(), staffUser("s2"))
	require.NoError(t, err)
	assert.Empty(t, listed)
	_, _, err = svc.RunSavedReport(context.Background(), staffUser("s2"), saved.ID)
	assert.True(t, apperrors.IsNotFound(err))
	err = svc.DeleteSavedReport(context.Background(), staffUser("s2"), saved.ID)
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.DeleteSavedReport(context.Background(), staffUser("s1"), saved.ID))
	_, _, err = svc.RunSavedReport(context.Background(), staffUser("s1"), saved.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSummary(t *testing.T) {
	svc := NewReportService(&fakeReportRepo{rows: sampleReportRows()}, newFakeSavedReportRepo())

	summary, err := svc.Summary(context.Background(), repository.ReportFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalTickets)
	assert.Nil(t, summary.AverageResolutionHours)
}

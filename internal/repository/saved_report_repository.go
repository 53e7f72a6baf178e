package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// SavedReportRepository manages report-filter presets.
type SavedReportRepository interface {
	Create(ctx context.Context, report *domain.SavedReport) error
	GetByID(ctx context.Context, id string) (*domain.SavedReport, error)
	ListByCreator(ctx context.Context, userID string) ([]domain.SavedReport, error)
	Delete(ctx context.Context, id string) error
}

type savedReportRepository struct {
	pool *pgxpool.Pool
}

// NewSavedReportRepository builds repository.
func NewSavedReportRepository(pool *pgxpool.Pool) SavedReportRepository {
	return &savedReportRepository{pool: pool}
}

const savedReportColumns = `id, name, description, created_by, date_from, date_to,
        category_ids, staff_ids, statuses, student_name, student_id,
        created_at, updated_at`

func (r *savedReportRepository) Create(ctx context.Context, report *domain.SavedReport) error {
	const query = `
        INSERT INTO saved_reports
            (name, description, created_by, date_from, date_to,
             category_ids, staff_ids, statuses, student_name, student_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.Name,
		report.Description,
		report.CreatedBy,
		report.DateFrom,
		report.DateTo,
		report.CategoryIDs,
		report.StaffIDs,
		statusStrings(report.Statuses),
		report.StudentName,
		report.StudentID,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *savedReportRepository) GetByID(ctx context.Context, id string) (*domain.SavedReport, error) {
	query := `SELECT ` + savedReportColumns + ` FROM saved_reports WHERE id=$1`
	report, err := scanSavedReport(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *savedReportRepository) ListByCreator(ctx context.Context, userID string) ([]domain.SavedReport, error) {
	query := `SELECT ` + savedReportColumns + ` FROM saved_reports WHERE created_by=$1 ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SavedReport
	for rows.Next() {
		report, err := scanSavedReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}

func (r *savedReportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM saved_reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanSavedReport(row pgx.Row) (*domain.SavedReport, error) {
	var (
		report   domain.SavedReport
		statuses []string
	)
	if err := row.Scan(
		&report.ID,
		&report.Name,
		&report.Description,
		&report.CreatedBy,
		&report.DateFrom,
		&report.DateTo,
		&report.CategoryIDs,
		&report.StaffIDs,
		&statuses,
		&report.StudentName,
		&report.StudentID,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for _, raw := range statuses {
		if status, ok := domain.ParseTicketStatus(raw); ok {
			report.Statuses = append(report.Statuses, status)
		}
	}
	return &report, nil
}

func statusStrings(statuses []domain.TicketStatus) []string {
	result := make([]string, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, string(status))
	}
	return result
}

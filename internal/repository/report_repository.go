package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// ReportFilter captures reporting criteria. All supplied filters are
// conjoined.
type ReportFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	CategoryIDs []string
	StaffIDs    []string
	Statuses    []domain.TicketStatus
	StudentName *string
	StudentID   *string
}

// ReportRow is a ticket joined with its category, assignee and creator for
// export rendering.
type ReportRow struct {
	TicketID     string
	Title        string
	Status       domain.TicketStatus
	Priority     domain.TicketPriority
	CategoryName string
	StaffName    *string
	StudentName  *string
	StudentID    *string
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}

// ReportRepository runs the reporting queries over tickets.
type ReportRepository interface {
	ListRows(ctx context.Context, filter ReportFilter) ([]ReportRow, error)
	CountRows(ctx context.Context, filter ReportFilter) (int64, error)
	AverageResolutionHours(ctx context.Context, filter ReportFilter) (*float64, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportBase = `
        FROM tickets t
        JOIN categories c ON c.id = t.category_id
        LEFT JOIN staff s ON s.id = t.assignee_id
        LEFT JOIN users u ON u.id = t.creator_id`

func buildReportClauses(filter ReportFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}
	if len(filter.CategoryIDs) > 0 {
		args = append(args, filter.CategoryIDs)
		clauses = append(clauses, fmt.Sprintf("t.category_id = ANY($%d)", len(args)))
	}
	if len(filter.StaffIDs) > 0 {
		args = append(args, filter.StaffIDs)
		clauses = append(clauses, fmt.Sprintf("t.assignee_id = ANY($%d)", len(args)))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		args = append(args, statuses)
		clauses = append(clauses, fmt.Sprintf("t.status = ANY($%d)", len(args)))
	}
	if filter.StudentName != nil && strings.TrimSpace(*filter.StudentName) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.StudentName))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(u.name) LIKE $%d", len(args)))
	}
	if filter.StudentID != nil && strings.TrimSpace(*filter.StudentID) != "" {
		args = append(args, strings.TrimSpace(*filter.StudentID))
		clauses = append(clauses, fmt.Sprintf("u.username = $%d", len(args)))
	}
	return clauses, args
}

func (r *reportRepository) ListRows(ctx context.Context, filter ReportFilter) ([]ReportRow, error) {
	clauses, args := buildReportClauses(filter)
	query := fmt.Sprintf(`
        SELECT t.id, t.title, t.status, t.priority, c.name, s.name, u.name, u.username,
               t.created_at, t.resolved_at
        %s WHERE %s ORDER BY t.created_at DESC`, reportBase, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(
			&row.TicketID,
			&row.Title,
			&row.Status,
			&row.Priority,
			&row.CategoryName,
			&row.StaffName,
			&row.StudentName,
			&row.StudentID,
			&row.CreatedAt,
			&row.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *reportRepository) CountRows(ctx context.Context, filter ReportFilter) (int64, error) {
	clauses, args := buildReportClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) %s WHERE %s`, reportBase, strings.Join(clauses, " AND "))
	var count int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *reportRepository) AverageResolutionHours(ctx context.Context, filter ReportFilter) (*float64, error) {
	clauses, args := buildReportClauses(filter)
	query := fmt.Sprintf(`
        SELECT AVG(EXTRACT(EPOCH FROM (t.resolved_at - t.created_at)) / 3600.0)
        %s WHERE %s AND t.resolved_at IS NOT NULL`, reportBase, strings.Join(clauses, " AND "))
	var avg *float64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&avg); err != nil {
		return nil, err
	}
	return avg, nil
}

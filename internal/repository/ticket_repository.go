package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// TicketFilter captures list/search parameters. Every non-nil field is
// applied; all supplied filters are conjoined.
type TicketFilter struct {
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	CategoryID *string
	AssigneeID *string
	CreatorID  *string
	Search     *string
	Limit      int
	Offset     int
}

// CategoryCount is a per-category ticket tally.
type CategoryCount struct {
	CategoryName string
	Count        int64
}

// MonthlyCount is a per-month ticket tally.
type MonthlyCount struct {
	Year  int
	Month int
	Count int64
}

// StudentCount tallies tickets per creating student.
type StudentCount struct {
	StudentName  string
	StudentEmail string
	Count        int64
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountWithFilter(ctx context.Context, filter TicketFilter) (int64, error)
	CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	MonthlyTrend(ctx context.Context, since time.Time) ([]MonthlyCount, error)
	TopStudents(ctx context.Context, limit int) ([]StudentCount, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, status, priority, category_id, creator_id, assignee_id,
               resolution_notes, resolved_at, amount, verified, verified_by, verified_at,
               created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, category_id, creator_id, assignee_id,
                             resolution_notes, amount, verified, verified_by, verified_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	payment := ticket.Payment
	if payment == nil {
		payment = &domain.TicketPayment{}
	}
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CategoryID,
		ticket.CreatorID,
		ticket.AssigneeID,
		ticket.ResolutionNotes,
		payment.Amount,
		payment.Verified,
		payment.VerifiedBy,
		payment.VerifiedAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, category_id=$5,
            assignee_id=$6, resolution_notes=$7, resolved_at=$8,
            amount=$9, verified=$10, verified_by=$11, verified_at=$12, updated_at=NOW()
        WHERE id=$13`
	payment := ticket.Payment
	if payment == nil {
		payment = &domain.TicketPayment{}
	}
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.CategoryID,
		ticket.AssigneeID,
		ticket.ResolutionNotes,
		ticket.ResolvedAt,
		payment.Amount,
		payment.Verified,
		payment.VerifiedBy,
		payment.VerifiedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	var payment domain.TicketPayment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CategoryID,
		&ticket.CreatorID,
		&ticket.AssigneeID,
		&ticket.ResolutionNotes,
		&ticket.ResolvedAt,
		&payment.Amount,
		&payment.Verified,
		&payment.VerifiedBy,
		&payment.VerifiedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Payment = &payment
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := buildTicketClauses(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountWithFilter(ctx context.Context, filter TicketFilter) (int64, error) {
	clauses, args := buildTicketClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, strings.Join(clauses, " AND "))
	var count int64
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func buildTicketClauses(filter TicketFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_id=$%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}
	return clauses, args
}

func (r *ticketRepository) CountByStatus(ctx context.Context, status domain.TicketStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&count)
	return count, err
}

func (r *ticketRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `
        SELECT c.name, COUNT(t.id)
        FROM tickets t JOIN categories c ON c.id = t.category_id
        GROUP BY c.name ORDER BY COUNT(t.id) DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var entry CategoryCount
		if err := rows.Scan(&entry.CategoryName, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *ticketRepository) MonthlyTrend(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	const query = `
        SELECT EXTRACT(YEAR FROM created_at)::int, EXTRACT(MONTH FROM created_at)::int, COUNT(*)
        FROM tickets WHERE created_at >= $1
        GROUP BY 1, 2 ORDER BY 1, 2`
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MonthlyCount
	for rows.Next() {
		var entry MonthlyCount
		if err := rows.Scan(&entry.Year, &entry.Month, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *ticketRepository) TopStudents(ctx context.Context, limit int) ([]StudentCount, error) {
	if limit <= 0 {
		limit = 5
	}
	const query = `
        SELECT u.name, u.email, COUNT(t.id)
        FROM tickets t JOIN users u ON u.id = t.creator_id
        GROUP BY u.name, u.email ORDER BY COUNT(t.id) DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StudentCount
	for rows.Next() {
		var entry StudentCount
		if err := rows.Scan(&entry.StudentName, &entry.StudentEmail, &entry.Count); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		var payment domain.TicketPayment
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.CategoryID,
			&ticket.CreatorID,
			&ticket.AssigneeID,
			&ticket.ResolutionNotes,
			&ticket.ResolvedAt,
			&payment.Amount,
			&payment.Verified,
			&payment.VerifiedBy,
			&payment.VerifiedAt,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ticket.Payment = &payment
		result = append(result, ticket)
	}
	return result, rows.Err()
}

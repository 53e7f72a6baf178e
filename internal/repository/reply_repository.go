package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// ReplyRepository manages ticket thread replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *domain.Reply) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error)
	CountByTicket(ctx context.Context, ticketID string) (int64, error)
}

type replyRepository struct {
	pool *pgxpool.Pool
}

// NewReplyRepository builds repository.
func NewReplyRepository(pool *pgxpool.Pool) ReplyRepository {
	return &replyRepository{pool: pool}
}

func (r *replyRepository) Create(ctx context.Context, reply *domain.Reply) error {
	const query = `
        INSERT INTO replies (ticket_id, author_id, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		reply.TicketID,
		reply.AuthorID,
		reply.Content,
	).Scan(&reply.ID, &reply.CreatedAt)
}

func (r *replyRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error) {
	const query = `
        SELECT id, ticket_id, author_id, content, created_at
        FROM replies WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Reply
	for rows.Next() {
		var reply domain.Reply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.AuthorID,
			&reply.Content,
			&reply.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}

func (r *replyRepository) CountByTicket(ctx context.Context, ticketID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM replies WHERE ticket_id=$1`, ticketID).Scan(&count)
	return count, err
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// TemplateRepository manages canned response templates.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.ResponseTemplate) error
	Update(ctx context.Context, template *domain.ResponseTemplate) error
	GetByID(ctx context.Context, id string) (*domain.ResponseTemplate, error)
	ListVisible(ctx context.Context, userID string) ([]domain.ResponseTemplate, error)
	SearchVisible(ctx context.Context, userID, query string) ([]domain.ResponseTemplate, error)
	Delete(ctx context.Context, id string) error
}

type templateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository builds repository.
func NewTemplateRepository(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepository{pool: pool}
}

func (r *templateRepository) Create(ctx context.Context, template *domain.ResponseTemplate) error {
	const query = `
        INSERT INTO response_templates (title, content, created_by, shared)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		template.Title,
		template.Content,
		template.CreatedBy,
		template.Shared,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
}

func (r *templateRepository) Update(ctx context.Context, template *domain.ResponseTemplate) error {
	const query = `
        UPDATE response_templates SET title=$1, content=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, template.Title, template.Content, template.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*domain.ResponseTemplate, error) {
	const query = `
        SELECT id, title, content, created_by, shared, created_at, updated_at
        FROM response_templates WHERE id=$1`
	var template domain.ResponseTemplate
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&template.ID,
		&template.Title,
		&template.Content,
		&template.CreatedBy,
		&template.Shared,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) ListVisible(ctx context.Context, userID string) ([]domain.ResponseTemplate, error) {
	const query = `
        SELECT id, title, content, created_by, shared, created_at, updated_at
        FROM response_templates
        WHERE created_by=$1 OR shared=true
        ORDER BY title ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (r *templateRepository) SearchVisible(ctx context.Context, userID, query string) ([]domain.ResponseTemplate, error) {
	const sql = `
        SELECT id, title, content, created_by, shared, created_at, updated_at
        FROM response_templates
        WHERE (created_by=$1 OR shared=true)
          AND (title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
        ORDER BY title ASC`
	rows, err := r.pool.Query(ctx, sql, userID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM response_templates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectTemplates(rows pgx.Rows) ([]domain.ResponseTemplate, error) {
	var result []domain.ResponseTemplate
	for rows.Next() {
		var template domain.ResponseTemplate
		if err := rows.Scan(
			&template.ID,
			&template.Title,
			&template.Content,
			&template.CreatedBy,
			&template.Shared,
			&template.CreatedAt,
			&template.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, template)
	}
	return result, rows.Err()
}

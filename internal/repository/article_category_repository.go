package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// ArticleCategoryRepository manages knowledge-base categories. Rows are
// deactivated, never removed, because articles reference them.
type ArticleCategoryRepository interface {
	Create(ctx context.Context, category *domain.ArticleCategory) error
	Update(ctx context.Context, category *domain.ArticleCategory) error
	GetByID(ctx context.Context, id string) (*domain.ArticleCategory, error)
	List(ctx context.Context, activeOnly bool) ([]domain.ArticleCategory, error)
	Deactivate(ctx context.Context, id string) error
}

type articleCategoryRepository struct {
	pool *pgxpool.Pool
}

// NewArticleCategoryRepository builds repository.
func NewArticleCategoryRepository(pool *pgxpool.Pool) ArticleCategoryRepository {
	return &articleCategoryRepository{pool: pool}
}

func (r *articleCategoryRepository) Create(ctx context.Context, category *domain.ArticleCategory) error {
	const query = `
        INSERT INTO article_categories (name, description, active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		category.Name,
		category.Description,
		category.Active,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *articleCategoryRepository) Update(ctx context.Context, category *domain.ArticleCategory) error {
	const query = `
        UPDATE article_categories SET name=$1, description=$2, active=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		category.Name,
		category.Description,
		category.Active,
		category.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleCategoryRepository) GetByID(ctx context.Context, id string) (*domain.ArticleCategory, error) {
	const query = `
        SELECT id, name, description, active, created_at, updated_at
        FROM article_categories WHERE id=$1`
	var category domain.ArticleCategory
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.Active,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *articleCategoryRepository) List(ctx context.Context, activeOnly bool) ([]domain.ArticleCategory, error) {
	query := `SELECT id, name, description, active, created_at, updated_at FROM article_categories`
	if activeOnly {
		query += ` WHERE active=true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ArticleCategory
	for rows.Next() {
		var category domain.ArticleCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.Active,
			&category.CreatedAt,
			&category.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *articleCategoryRepository) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE article_categories SET active=false, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

// ArticleRepository manages knowledge-base articles.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.Article) error
	Update(ctx context.Context, article *domain.Article) error
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	List(ctx context.Context, status *domain.ArticleStatus) ([]domain.Article, error)
	SearchPublished(ctx context.Context, query string) ([]domain.Article, error)
	IncrementViews(ctx context.Context, id string) error
	RecordFeedback(ctx context.Context, id string, helpful bool) error
	CountByStatus(ctx context.Context, status domain.ArticleStatus) (int64, error)
	TotalViews(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository builds repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, title, content, category_id, keywords, status,
        view_count, helpful_count, not_helpful_count, author, last_modified_by,
        published_at, created_at, updated_at`

func scanArticle(row pgx.Row, article *domain.Article) error {
	return row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.CategoryID,
		&article.Keywords,
		&article.Status,
		&article.ViewCount,
		&article.HelpfulCount,
		&article.NotHelpfulCount,
		&article.Author,
		&article.LastModifiedBy,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
}

func (r *articleRepository) Create(ctx context.Context, article *domain.Article) error {
	const query = `
        INSERT INTO support_articles
            (title, content, category_id, keywords, status, author, last_modified_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.CategoryID,
		article.Keywords,
		article.Status,
		article.Author,
		article.LastModifiedBy,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) Update(ctx context.Context, article *domain.Article) error {
	const query = `
        UPDATE support_articles SET
            title=$1, content=$2, category_id=$3, keywords=$4, status=$5,
            last_modified_by=$6, published_at=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		article.Title,
		article.Content,
		article.CategoryID,
		article.Keywords,
		article.Status,
		article.LastModifiedBy,
		article.PublishedAt,
		article.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM support_articles WHERE id=$1`
	var article domain.Article
	if err := scanArticle(r.pool.QueryRow(ctx, query, id), &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, status *domain.ArticleStatus) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM support_articles`
	args := []any{}
	if status != nil {
		query += ` WHERE status=$1`
		args = append(args, *status)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

func (r *articleRepository) SearchPublished(ctx context.Context, query string) ([]domain.Article, error) {
	const sql = `
        SELECT ` + articleColumns + `
        FROM support_articles
        WHERE status='PUBLISHED'
          AND (title ILIKE '%' || $1 || '%'
               OR content ILIKE '%' || $1 || '%'
               OR keywords ILIKE '%' || $1 || '%')
        ORDER BY view_count DESC`
	rows, err := r.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

func (r *articleRepository) IncrementViews(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE support_articles SET view_count=view_count+1 WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) RecordFeedback(ctx context.Context, id string, helpful bool) error {
	query := `UPDATE support_articles SET not_helpful_count=not_helpful_count+1 WHERE id=$1`
	if helpful {
		query = `UPDATE support_articles SET helpful_count=helpful_count+1 WHERE id=$1`
	}
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *articleRepository) CountByStatus(ctx context.Context, status domain.ArticleStatus) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM support_articles WHERE status=$1`, status).Scan(&count)
	return count, err
}

func (r *articleRepository) TotalViews(ctx context.Context) (int64, error) {
	var views int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(view_count), 0) FROM support_articles`).Scan(&views)
	return views, err
}

func (r *articleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM support_articles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectArticles(rows pgx.Rows) ([]domain.Article, error) {
	var result []domain.Article
	for rows.Next() {
		var article domain.Article
		if err := scanArticle(rows, &article); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}

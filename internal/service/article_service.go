package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// ArticleService manages the knowledge base: article authoring, publication
// and the reader-facing published views.
type ArticleService struct {
	articles   repository.ArticleRepository
	categories repository.ArticleCategoryRepository
}

// NewArticleService constructs the service.
func NewArticleService(articles repository.ArticleRepository, categories repository.ArticleCategoryRepository) *ArticleService {
	return &ArticleService{articles: articles, categories: categories}
}

// ArticleInput carries authoring fields.
type ArticleInput struct {
	Title      string
	Content    string
	CategoryID *string
	Keywords   string
}

// ArticleStats summarizes the knowledge base for the authoring dashboard.
type ArticleStats struct {
	PublishedCount int64 `json:"published_count"`
	DraftCount     int64 `json:"draft_count"`
	ArchivedCount  int64 `json:"archived_count"`
	TotalViews     int64 `json:"total_views"`
}

// Create stores a new article as a draft.
func (s *ArticleService) Create(ctx context.Context, author string, input ArticleInput) (*domain.Article, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	article := &domain.Article{
		Title:          input.Title,
		Content:        input.Content,
		CategoryID:     input.CategoryID,
		Keywords:       input.Keywords,
		Status:         domain.ArticleStatusDraft,
		Author:         author,
		LastModifiedBy: author,
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// Update rewrites authoring fields; status changes go through UpdateStatus.
func (s *ArticleService) Update(ctx context.Context, id, modifiedBy string, input ArticleInput) (*domain.Article, error) {
	if err := s.validateInput(ctx, &input); err != nil {
		return nil, err
	}

	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	article.Title = input.Title
	article.Content = input.Content
	article.CategoryID = input.CategoryID
	article.Keywords = input.Keywords
	article.LastModifiedBy = modifiedBy
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// GetByID returns an article for the authoring portal, any status.
func (s *ArticleService) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	return s.getArticle(ctx, id)
}

// GetPublished returns a published article and counts the view. Drafts and
// archived articles are invisible to readers.
func (s *ArticleService) GetPublished(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status != domain.ArticleStatusPublished {
		return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
	}
	if err := s.articles.IncrementViews(ctx, id); err != nil {
		return nil, apperrors.MapError(err)
	}
	article.ViewCount++
	return article, nil
}

// List returns articles for the authoring portal, optionally by status.
func (s *ArticleService) List(ctx context.Context, status *domain.ArticleStatus) ([]domain.Article, error) {
	articles, err := s.articles.List(ctx, status)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return articles, nil
}

// ListPublished returns the reader-facing article list; an optional query
// searches title, content and keywords.
func (s *ArticleService) ListPublished(ctx context.Context, query string) ([]domain.Article, error) {
	query = strings.TrimSpace(query)
	if query != "" {
		articles, err := s.articles.SearchPublished(ctx, query)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		return articles, nil
	}
	published := domain.ArticleStatusPublished
	return s.List(ctx, &published)
}

// UpdateStatus moves an article between DRAFT, PUBLISHED and ARCHIVED.
// Entering PUBLISHED stamps the publication time.
func (s *ArticleService) UpdateStatus(ctx context.Context, id, rawStatus, modifiedBy string) (*domain.Article, error) {
	status, ok := domain.ParseArticleStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError("unknown article status", map[string]any{"status": rawStatus})
	}

	article, err := s.getArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == domain.ArticleStatusPublished && article.Status != domain.ArticleStatusPublished {
		now := time.Now()
		article.PublishedAt = &now
	}
	article.Status = status
	article.LastModifiedBy = modifiedBy
	if err := s.articles.Update(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

// RecordFeedback counts a helpful / not-helpful vote on a published article.
func (s *ArticleService) RecordFeedback(ctx context.Context, id string, helpful bool) error {
	article, err := s.getArticle(ctx, id)
	if err != nil {
		return err
	}
	if article.Status != domain.ArticleStatusPublished {
		return apperrors.NewNotFound("article", map[string]any{"article_id": id})
	}
	if err := s.articles.RecordFeedback(ctx, id, helpful); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes an article permanently.
func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.articles.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Stats aggregates publication counts and total views.
func (s *ArticleService) Stats(ctx context.Context) (*ArticleStats, error) {
	stats := &ArticleStats{}
	var err error
	if stats.PublishedCount, err = s.articles.CountByStatus(ctx, domain.ArticleStatusPublished); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.DraftCount, err = s.articles.CountByStatus(ctx, domain.ArticleStatusDraft); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.ArchivedCount, err = s.articles.CountByStatus(ctx, domain.ArticleStatusArchived); err != nil {
		return nil, apperrors.MapError(err)
	}
	if stats.TotalViews, err = s.articles.TotalViews(ctx); err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// CreateCategory adds a knowledge-base category.
func (s *ArticleService) CreateCategory(ctx context.Context, name, description string) (*domain.ArticleCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required", nil)
	}
	category := &domain.ArticleCategory{Name: name, Description: description, Active: true}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// UpdateCategory renames or re-describes a knowledge-base category.
func (s *ArticleService) UpdateCategory(ctx context.Context, id, name, description string, active bool) (*domain.ArticleCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name is required", nil)
	}
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	category.Name = name
	category.Description = description
	category.Active = active
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// ListCategories returns knowledge-base categories.
func (s *ArticleService) ListCategories(ctx context.Context, activeOnly bool) ([]domain.ArticleCategory, error) {
	categories, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// DeactivateCategory soft-deletes a knowledge-base category.
func (s *ArticleService) DeactivateCategory(ctx context.Context, id string) error {
	if err := s.categories.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("article category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ArticleService) validateInput(ctx context.Context, input *ArticleInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)
	if input.Title == "" {
		return apperrors.NewValidationError("article title is required", nil)
	}
	if input.Content == "" {
		return apperrors.NewValidationError("article content is required", nil)
	}
	if input.CategoryID != nil && *input.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("article category", map[string]any{"category_id": *input.CategoryID})
			}
			return apperrors.MapError(err)
		}
	}
	return nil
}

func (s *ArticleService) getArticle(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return article, nil
}

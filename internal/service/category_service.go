package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	"github.com/campus-helpdesk/helpdesk-service/internal/strategy"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// CategoryService manages ticket categories. Name validation is delegated
// to the currently configured category strategy.
type CategoryService struct {
	categories repository.CategoryRepository
	settings   *strategy.Settings
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, settings *strategy.Settings) *CategoryService {
	return &CategoryService{categories: categories, settings: settings}
}

// Create validates the name through the active strategy and stores a new
// active category.
func (s *CategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	validator := s.settings.Category()
	if err := validator.Validate(name); err != nil {
		return nil, err
	}
	existing, err := s.categories.ListNames(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := validator.CheckDuplicate("", name, existing); err != nil {
		return nil, err
	}

	category := &domain.Category{
		Name:        name,
		Description: strings.TrimSpace(description),
		Active:      true,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Update renames or re-describes a category. The duplicate check excludes
// the category's own current name so saving without renaming succeeds.
func (s *CategoryService) Update(ctx context.Context, id, name, description string, active bool) (*domain.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	validator := s.settings.Category()
	if err := validator.Validate(name); err != nil {
		return nil, err
	}
	existing, err := s.categories.ListNames(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := validator.CheckDuplicate(category.Name, name, existing); err != nil {
		return nil, err
	}

	category.Name = name
	category.Description = strings.TrimSpace(description)
	category.Active = active
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// GetByID fetches a category.
func (s *CategoryService) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// List returns categories, optionally restricted to active ones for the
// student-facing pickers.
func (s *CategoryService) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// Deactivate soft-deletes a category. Existing tickets keep referencing
// it; it just disappears from creation pickers.
func (s *CategoryService) Deactivate(ctx context.Context, id string) error {
	if err := s.categories.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

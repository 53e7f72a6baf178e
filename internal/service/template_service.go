package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// TemplateService manages canned response templates. Admin-created templates
// are shared with all staff; others stay private to their creator.
type TemplateService struct {
	templates repository.TemplateRepository
}

// NewTemplateService constructs the service.
func NewTemplateService(templates repository.TemplateRepository) *TemplateService {
	return &TemplateService{templates: templates}
}

// Create stores a template owned by the actor.
func (s *TemplateService) Create(ctx context.Context, actor *domain.User, title, content string) (*domain.ResponseTemplate, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("template requires an authenticated author")
	}
	title, content, err := validateTemplateFields(title, content)
	if err != nil {
		return nil, err
	}

	template := &domain.ResponseTemplate{
		Title:     title,
		Content:   content,
		CreatedBy: actor.ID,
		Shared:    actor.Role == domain.RoleAdmin,
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, apperrors.MapError(err)
	}
	return template, nil
}

// Update rewrites a template. Only the creator or an admin may change it.
func (s *TemplateService) Update(ctx context.Context, actor *domain.User, id, title, content string) (*domain.ResponseTemplate, error) {
	title, content, err := validateTemplateFields(title, content)
	if err != nil {
		return nil, err
	}

	template, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManageTemplate(actor, template) {
		return nil, apperrors.NewForbidden("template belongs to another user")
	}
	template.Title = title
	template.Content = content
	if err := s.templates.Update(ctx, template); err != nil {
		return nil, apperrors.MapError(err)
	}
	return template, nil
}

// ListVisible returns the actor's own templates plus shared ones; an
// optional query searches title and content.
func (s *TemplateService) ListVisible(ctx context.Context, actor *domain.User, query string) ([]domain.ResponseTemplate, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	query = strings.TrimSpace(query)
	var (
		templates []domain.ResponseTemplate
		err       error
	)
	if query == "" {
		templates, err = s.templates.ListVisible(ctx, actor.ID)
	} else {
		templates, err = s.templates.SearchVisible(ctx, actor.ID, query)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return templates, nil
}

// GetVisible loads a template the actor may read.
func (s *TemplateService) GetVisible(ctx context.Context, actor *domain.User, id string) (*domain.ResponseTemplate, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	template, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if !template.VisibleTo(actor.ID) {
		return nil, apperrors.NewNotFound("template", map[string]any{"template_id": id})
	}
	return template, nil
}

// Delete removes a template. Only the creator or an admin may remove it.
func (s *TemplateService) Delete(ctx context.Context, actor *domain.User, id string) error {
	template, err := s.getTemplate(ctx, id)
	if err != nil {
		return err
	}
	if !canManageTemplate(actor, template) {
		return apperrors.NewForbidden("template belongs to another user")
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TemplateService) getTemplate(ctx context.Context, id string) (*domain.ResponseTemplate, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("template", map[string]any{"template_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return template, nil
}

func canManageTemplate(actor *domain.User, template *domain.ResponseTemplate) bool {
	if actor == nil {
		return false
	}
	return actor.Role == domain.RoleAdmin || template.CreatedBy == actor.ID
}

func validateTemplateFields(title, content string) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return "", "", apperrors.NewValidationError("template title is required", nil)
	}
	if content == "" {
		return "", "", apperrors.NewValidationError("template content is required", nil)
	}
	if len(content) > domain.MaxTemplateLength {
		return "", "", apperrors.NewValidationError("template content too long", map[string]any{"max": domain.MaxTemplateLength})
	}
	return title, content, nil
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// TemplatesHandler serves canned response templates for staff.
type TemplatesHandler struct {
	templates *service.TemplateService
}

// NewTemplatesHandler constructs handler.
func NewTemplatesHandler(templates *service.TemplateService) *TemplatesHandler {
	return &TemplatesHandler{templates: templates}
}

// List GET /staff/templates returns own plus shared templates. ?q= searches
// title and content.
func (h *TemplatesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	templates, err := h.templates.ListVisible(c.Context(), principal.User, c.Query("q"))
	if err != nil {
		return err
	}
	items := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		items = append(items, templateResponse(&templates[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /staff/templates/:id.
func (h *TemplatesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	template, err := h.templates.GetVisible(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templateResponse(template)})
}

// Create POST /staff/templates.
func (h *TemplatesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	template, err := h.templates.Create(c.Context(), principal.User, req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": templateResponse(template)})
}

// Update PUT /staff/templates/:id.
func (h *TemplatesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TemplateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	template, err := h.templates.Update(c.Context(), principal.User, c.Params("id"), req.Title, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": templateResponse(template)})
}

// Delete DELETE /staff/templates/:id.
func (h *TemplatesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.templates.Delete(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func templateResponse(template *domain.ResponseTemplate) dto.TemplateResponse {
	return dto.TemplateResponse{
		ID:        template.ID,
		Title:     template.Title,
		Content:   template.Content,
		CreatedBy: template.CreatedBy,
		Shared:    template.Shared,
		CreatedAt: template.CreatedAt,
		UpdatedAt: template.UpdatedAt,
	}
}

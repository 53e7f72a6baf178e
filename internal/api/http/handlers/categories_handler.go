package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// CategoriesHandler serves category management and the public picker list.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories}
}

// List GET /categories. ?all=true includes deactivated entries.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	activeOnly := c.Query("all") != "true"
	categories, err := h.categories.List(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	items := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, categoryResponse(&categories[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	category, err := h.categories.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(category)})
}

// Create POST /categories.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	category, err := h.categories.Create(c.Context(), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": categoryResponse(category)})
}

// Update PUT /categories/:id.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	category, err := h.categories.Update(c.Context(), c.Params("id"), req.Name, req.Description, active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categoryResponse(category)})
}

// Delete DELETE /categories/:id deactivates; the row is retained.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	if err := h.categories.Deactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func categoryResponse(category *domain.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Active:      category.Active,
		CreatedAt:   category.CreatedAt,
		UpdatedAt:   category.UpdatedAt,
	}
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// StaffHandler serves the staff directory used for ticket assignment.
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staff *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staff}
}

// List GET /staff-directory. ?all=true includes deactivated entries.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	activeOnly := c.Query("all") != "true"
	entries, err := h.staff.List(c.Context(), activeOnly)
	if err != nil {
		return err
	}
	items := make([]dto.StaffResponse, 0, len(entries))
	for i := range entries {
		items = append(items, staffResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /staff-directory/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	entry, err := h.staff.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(entry)})
}

// Create POST /staff-directory.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	entry, err := h.staff.Create(c.Context(), service.StaffInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": staffResponse(entry)})
}

// Update PUT /staff-directory/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.StaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	entry, err := h.staff.Update(c.Context(), c.Params("id"), service.StaffInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	}, active)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": staffResponse(entry)})
}

// Delete DELETE /staff-directory/:id deactivates the entry.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.staff.Deactivate(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func staffResponse(entry *domain.Staff) dto.StaffResponse {
	return dto.StaffResponse{
		ID:         entry.ID,
		Name:       entry.Name,
		Email:      entry.Email,
		Department: entry.Department,
		Active:     entry.Active,
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
	}
}

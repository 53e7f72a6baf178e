package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// StaffTicketsHandler serves the staff and admin ticket queue.
type StaffTicketsHandler struct {
	tickets *service.TicketService
}

// NewStaffTicketsHandler constructs handler.
func NewStaffTicketsHandler(tickets *service.TicketService) *StaffTicketsHandler {
	return &StaffTicketsHandler{tickets: tickets}
}

// List GET /staff/tickets with full filter support.
func (h *StaffTicketsHandler) List(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	if assigneeID := c.Query("assignee_id"); assigneeID != "" {
		filter.AssigneeID = &assigneeID
	}
	if creatorID := c.Query("creator_id"); creatorID != "" {
		filter.CreatorID = &creatorID
	}

	tickets, err := h.tickets.ListWithFilter(c.Context(), filter)
	if err != nil {
		return err
	}
	total, err := h.tickets.CountWithFilter(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponseFor(&tickets[i], false, false))
	}
	return c.JSON(fiber.Map{"data": items, "total": total})
}

// Get GET /staff/tickets/:id.
func (h *StaffTicketsHandler) Get(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponseFor(ticket, false, false)})
}

// Assign POST /staff/tickets/:id/assign.
func (h *StaffTicketsHandler) Assign(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" {
		return apperrors.NewValidationError("staff_id required", nil)
	}
	ticket, err := h.tickets.Assign(c.Context(), principal.User, c.Params("id"), req.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponseFor(ticket, false, false)})
}

// Resolve POST /staff/tickets/:id/resolve.
func (h *StaffTicketsHandler) Resolve(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.ResolveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Resolve(c.Context(), principal.User, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponseFor(ticket, false, false)})
}

// Close POST /staff/tickets/:id/close.
func (h *StaffTicketsHandler) Close(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	ticket, err := h.tickets.Close(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponseFor(ticket, false, false)})
}

// UpdateStatus PATCH /staff/tickets/:id/status. Unknown status values are
// ignored, leaving the ticket unchanged.
func (h *StaffTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.UpdateStatus(c.Context(), principal.User, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponseFor(ticket, false, false)})
}

// VerifyPayment POST /staff/tickets/:id/verify-payment.
func (h *StaffTicketsHandler) VerifyPayment(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.VerifyTicketPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, recommendation, err := h.tickets.VerifyPayment(
		c.Context(), principal.User, c.Params("id"), req.Approved, principal.User.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":                    ticketResponseFor(ticket, false, false),
		"strategy_recommendation": recommendation,
	})
}

// Delete DELETE /staff/tickets/:id force-deletes, admin only.
func (h *StaffTicketsHandler) Delete(c *fiber.Ctx) error {
	if err := h.tickets.DeleteAsAdmin(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-helpdesk/helpdesk-service/internal/api/dto"
	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	"github.com/campus-helpdesk/helpdesk-service/internal/service"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler serves the student-facing ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	replies *service.ReplyService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, replies *service.ReplyService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, replies: replies}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	priority, _ := domain.ParseTicketPriority(req.Priority)
	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		CategoryID:  req.CategoryID,
	}
	// Fee amounts are only recorded by staff-side routes.
	if principal.User.IsStaffLike() {
		input.Amount = req.Amount
	}
	ticket, err := h.tickets.Create(c.Context(), principal.User, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": h.ticketResponse(ticket, principal.User)})
}

// List GET /tickets returns the caller's own tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := parseTicketQuery(c)
	creatorID := principal.User.ID
	filter.CreatorID = &creatorID

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
		items = append(items, h.ticketResponse(&tickets[i], principal.User))
	}
	return c.JSON(fiber.Map{"data": items, "total": total})
}

// Get GET /tickets/:id. Students may only read their own tickets.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := requireTicketVisibility(ticket, principal.User); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket, principal.User)})
}

// Update PUT /tickets/:id through the owner path.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	priority, _ := domain.ParseTicketPriority(req.Priority)
	ticket, err := h.tickets.UpdateAsStudent(c.Context(), principal.User, c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.ticketResponse(ticket, principal.User)})
}

// Delete DELETE /tickets/:id through the owner path.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.tickets.DeleteAsStudent(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddReply POST /tickets/:id/replies.
func (h *TicketsHandler) AddReply(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := requireTicketVisibility(ticket, principal.User); err != nil {
		return err
	}
	var req dto.CreateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reply, err := h.replies.AddReply(c.Context(), principal.User, ticket.ID, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": replyResponse(reply)})
}

// ReplyFromTemplate POST /staff/tickets/:id/replies/from-template posts a
// canned response into the thread.
func (h *TicketsHandler) ReplyFromTemplate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.TemplateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reply, err := h.replies.AddReplyFromTemplate(c.Context(), principal.User, c.Params("id"), req.TemplateID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": replyResponse(reply)})
}

// ListReplies GET /tickets/:id/replies.
func (h *TicketsHandler) ListReplies(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if err := requireTicketVisibility(ticket, principal.User); err != nil {
		return err
	}
	replies, err := h.replies.ListByTicket(c.Context(), ticket.ID)
	if err != nil {
		return err
	}
	items := make([]dto.ReplyResponse, 0, len(replies))
	for i := range replies {
		items = append(items, replyResponse(&replies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *TicketsHandler) ticketResponse(ticket *domain.Ticket, user *domain.User) dto.TicketResponse {
	return ticketResponseFor(ticket, h.tickets.CanUserEdit(ticket, user), h.tickets.CanUserDelete(ticket, user))
}

func ticketResponseFor(ticket *domain.Ticket, canEdit, canDelete bool) dto.TicketResponse {
	resp := dto.TicketResponse{
		ID:              ticket.ID,
		Title:           ticket.Title,
		Description:     ticket.Description,
		Status:          string(ticket.Status),
		Priority:        string(ticket.Priority),
		CategoryID:      ticket.CategoryID,
		CreatorID:       ticket.CreatorID,
		AssigneeID:      ticket.AssigneeID,
		ResolutionNotes: ticket.ResolutionNotes,
		ResolvedAt:      ticket.ResolvedAt,
		CanEdit:         canEdit,
		CanDelete:       canDelete,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
	if ticket.Payment != nil && ticket.Payment.Amount != nil {
		resp.Payment = &dto.TicketPaymentResponse{
			Amount:     ticket.Payment.Amount,
			Verified:   ticket.Payment.Verified,
			VerifiedBy: ticket.Payment.VerifiedBy,
			VerifiedAt: ticket.Payment.VerifiedAt,
		}
	}
	return resp
}

func replyResponse(reply *domain.Reply) dto.ReplyResponse {
	return dto.ReplyResponse{
		ID:        reply.ID,
		TicketID:  reply.TicketID,
		AuthorID:  reply.AuthorID,
		Content:   reply.Content,
		CreatedAt: reply.CreatedAt,
	}
}

// requireTicketVisibility hides other students' tickets; staff and admin
// see everything.
func requireTicketVisibility(ticket *domain.Ticket, user *domain.User) error {
	if user.IsStaffLike() {
		return nil
	}
	if ticket.CreatorID != nil && *ticket.CreatorID == user.ID {
		return nil
	}
	return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticket.ID})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if status, ok := domain.ParseTicketStatus(c.Query("status")); ok {
		filter.Status = &status
	}
	if priority, ok := domain.ParseTicketPriority(c.Query("priority")); ok {
		filter.Priority = &priority
	}
	if categoryID := c.Query("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	return filter
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	value := c.Query(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

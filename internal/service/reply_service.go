package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/events"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// ReplyService manages ticket threads and the first-staff-reply status
// transition.
type ReplyService struct {
	replies    repository.ReplyRepository
	tickets    repository.TicketRepository
	templates  repository.TemplateRepository
	dispatcher events.Dispatcher
}

// NewReplyService constructs the service.
func NewReplyService(replies repository.ReplyRepository, tickets repository.TicketRepository, templates repository.TemplateRepository, dispatcher events.Dispatcher) *ReplyService {
	return &ReplyService{replies: replies, tickets: tickets, templates: templates, dispatcher: dispatcher}
}

// AddReply appends a reply to the ticket thread. The first STAFF or ADMIN
// reply on an OPEN ticket moves it to IN_PROGRESS; later replies never
// change status again because the ticket has already left OPEN.
func (s *ReplyService) AddReply(ctx context.Context, author *domain.User, ticketID, content string) (*domain.Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("reply content is required", nil)
	}
	if len(content) > domain.MaxReplyLength {
		return nil, apperrors.NewValidationError("reply content too long", map[string]any{"max": domain.MaxReplyLength})
	}
	if author == nil {
		return nil, apperrors.NewUnauthorized("reply requires an authenticated author")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}

	reply := &domain.Reply{
		TicketID: ticket.ID,
		AuthorID: author.ID,
		Content:  content,
	}
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, apperrors.MapError(err)
	}

	if ticket.Status == domain.TicketStatusOpen && author.IsStaffLike() {
		ticket.Status = domain.TicketStatusInProgress
		if err := s.tickets.Update(ctx, ticket); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	if s.dispatcher != nil {
		preview := content
		if len(preview) > 80 {
			preview = preview[:80]
		}
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReplyAdded,
			SubjectID: ticket.ID,
			Actor:     actorFor(author),
			Payload: events.ReplyAddedPayload{
				ReplyID:     reply.ID,
				AuthorID:    author.ID,
				BodyPreview: preview,
			},
		})
	}
	return reply, nil
}

// AddReplyFromTemplate posts a canned response into the thread. The template
// must be the author's own or a shared one; the reply then follows the same
// path as a hand-written one, including the first-staff-reply transition.
func (s *ReplyService) AddReplyFromTemplate(ctx context.Context, author *domain.User, ticketID, templateID string) (*domain.Reply, error) {
	if author == nil {
		return nil, apperrors.NewUnauthorized("reply requires an authenticated author")
	}
	template, err := s.templates.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("template", map[string]any{"template_id": templateID})
		}
		return nil, apperrors.MapError(err)
	}
	if !template.VisibleTo(author.ID) {
		return nil, apperrors.NewNotFound("template", map[string]any{"template_id": templateID})
	}
	return s.AddReply(ctx, author, ticketID, template.Content)
}

// ListByTicket returns the thread in chronological order.
func (s *ReplyService) ListByTicket(ctx context.Context, ticketID string) ([]domain.Reply, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	replies, err := s.replies.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return replies, nil
}

// CountByTicket returns the number of replies on a ticket.
func (s *ReplyService) CountByTicket(ctx context.Context, ticketID string) (int64, error) {
	count, err := s.replies.CountByTicket(ctx, ticketID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

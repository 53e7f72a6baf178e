package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/events"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	"github.com/campus-helpdesk/helpdesk-service/internal/strategy"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 2000
)

// TicketService owns the ticket state machine and the authorization rules
// for ticket mutation.
type TicketService struct {
	tickets    repository.TicketRepository
	categories repository.CategoryRepository
	staff      repository.StaffRepository
	settings   *strategy.Settings
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CategoryRepo repository.CategoryRepository
	StaffRepo    repository.StaffRepository
	Settings     *strategy.Settings
	Dispatcher   events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		categories: deps.CategoryRepo,
		staff:      deps.StaffRepo,
		settings:   deps.Settings,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Amount is set by the
// business-admin fee-entry flow only.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  string
	Amount      *float64
}

// TicketUpdateInput describes the fields a student may change while the
// ticket is still OPEN.
type TicketUpdateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CategoryID  string
}

// Create opens a new ticket. Creator is nil for records entered on behalf
// of students without accounts.
func (s *TicketService) Create(ctx context.Context, creator *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := validateTicketFields(input.Title, input.Description); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	if !category.Active {
		return nil, apperrors.NewValidationError("category is inactive", map[string]any{"category_id": category.ID})
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		CategoryID:  category.ID,
		Payment:     &domain.TicketPayment{Amount: input.Amount},
	}
	if creator != nil {
		creatorID := creator.ID
		ticket.CreatorID = &creatorID
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventTicketCreated,
		SubjectID: ticket.ID,
		Actor:     actorFor(creator),
		Payload: events.TicketCreatedPayload{
			CategoryID: ticket.CategoryID,
			Priority:   ticket.Priority,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// GetByID fetches a single ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// ListWithFilter returns tickets matching the conjunction of all supplied
// filters.
func (s *TicketService) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// CountWithFilter returns the matching ticket count for pagination.
func (s *TicketService) CountWithFilter(ctx context.Context, filter repository.TicketFilter) (int64, error) {
	count, err := s.tickets.CountWithFilter(ctx, filter)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// CanUserEdit reports whether user may edit ticket through the student
// path: the requester must own the ticket and the ticket must still be
// OPEN. Staff and admin use separate role-gated paths that bypass this
// predicate entirely.
func (s *TicketService) CanUserEdit(ticket *domain.Ticket, user *domain.User) bool {
	if ticket == nil || user == nil || ticket.CreatorID == nil {
		return false
	}
	return *ticket.CreatorID == user.ID && ticket.Status == domain.TicketStatusOpen
}

// CanUserDelete mirrors CanUserEdit.
func (s *TicketService) CanUserDelete(ticket *domain.Ticket, user *domain.User) bool {
	return s.CanUserEdit(ticket, user)
}

// UpdateAsStudent applies owner edits. Rejected unless the requester owns
// the ticket and it is still OPEN.
func (s *TicketService) UpdateAsStudent(ctx context.Context, user *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.CanUserEdit(ticket, user) {
		return nil, apperrors.NewForbidden("ticket can no longer be edited by its creator")
	}
	if err := validateTicketFields(input.Title, input.Description); err != nil {
		return nil, err
	}
	if input.CategoryID != "" && input.CategoryID != ticket.CategoryID {
		category, err := s.categories.GetByID(ctx, input.CategoryID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
			}
			return nil, apperrors.MapError(err)
		}
		ticket.CategoryID = category.ID
	}

	ticket.Title = strings.TrimSpace(input.Title)
	ticket.Description = strings.TrimSpace(input.Description)
	if input.Priority != "" {
		ticket.Priority = input.Priority
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Assign sets the assignee and forces the ticket into IN_PROGRESS.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID, staffID string) (*domain.Ticket, error) {
	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": staffID})
		}
		return nil, apperrors.MapError(err)
	}

	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	ticket.AssigneeID = &staff.ID
	ticket.Status = domain.TicketStatusInProgress
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventTicketAssigned,
		SubjectID: ticket.ID,
		Actor:     actorFor(actor),
		Payload:   events.TicketAssignedPayload{AssigneeStaffID: staff.ID},
	})
	return ticket, nil
}

// Resolve moves a ticket to RESOLVED with resolution notes. ResolvedAt is
// set only the first time; re-resolving keeps the original timestamp.
func (s *TicketService) Resolve(ctx context.Context, actor *domain.User, ticketID, notes string) (*domain.Ticket, error) {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusResolved
	ticket.ResolutionNotes = &notes
	if ticket.ResolvedAt == nil {
		now := time.Now()
		ticket.ResolvedAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus, "resolved")
	return ticket, nil
}

// Close moves a ticket to CLOSED.
func (s *TicketService) Close(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status
	ticket.Status = domain.TicketStatusClosed
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus, "closed")
	return ticket, nil
}

// UpdateStatus sets the ticket status from a user-supplied value. Unknown
// values are ignored and the current status kept, matching the forgiving
// form handling of the staff portal. A transition into RESOLVED sets
// ResolvedAt once.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID, statusValue string) (*domain.Ticket, error) {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	newStatus, ok := domain.ParseTicketStatus(statusValue)
	if !ok || newStatus == ticket.Status {
		return ticket, nil
	}
	oldStatus := ticket.Status
	ticket.Status = newStatus
	if newStatus == domain.TicketStatusResolved && ticket.ResolvedAt == nil {
		now := time.Now()
		ticket.ResolvedAt = &now
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus, "status_update")
	return ticket, nil
}

// DeleteAsStudent removes a ticket through the owner path; only OPEN
// tickets owned by the requester qualify.
func (s *TicketService) DeleteAsStudent(ctx context.Context, user *domain.User, ticketID string) error {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return err
	}
	if !s.CanUserDelete(ticket, user) {
		return apperrors.NewForbidden("ticket can no longer be deleted by its creator")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// DeleteAsAdmin force-deletes regardless of status.
func (s *TicketService) DeleteAsAdmin(ctx context.Context, ticketID string) error {
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// VerifyPayment applies the configured payment strategy to a fee-bearing
// ticket and records the caller's final decision. The strategy result is a
// recommendation only; approved=false always rejects. A successful
// verification closes the ticket.
func (s *TicketService) VerifyPayment(ctx context.Context, actor *domain.User, ticketID string, approved bool, verifiedBy string) (*domain.Ticket, bool, error) {
	ticket, err := s.GetByID(ctx, ticketID)
	if err != nil {
		return nil, false, err
	}
	if ticket.Payment == nil || ticket.Payment.Amount == nil {
		return nil, false, apperrors.NewValidationError("ticket carries no payment record", map[string]any{"ticket_id": ticketID})
	}

	recommendation := s.settings.Payment().Verify(ticket.Payment.Amount)
	final := approved

	now := time.Now()
	ticket.Payment.Verified = final
	ticket.Payment.VerifiedBy = &verifiedBy
	ticket.Payment.VerifiedAt = &now

	oldStatus := ticket.Status
	if final {
		ticket.Status = domain.TicketStatusClosed
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, recommendation, apperrors.MapError(err)
	}
	if final && oldStatus != ticket.Status {
		s.publishStatusChange(ctx, actor, ticket, oldStatus, "payment_verified")
	}
	return ticket, recommendation, nil
}

func validateTicketFields(title, description string) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	if len(title) > maxTitleLength {
		return apperrors.NewValidationError("title too long", map[string]any{"max": maxTitleLength})
	}
	if description == "" {
		return apperrors.NewValidationError("description is required", nil)
	}
	if len(description) > maxDescriptionLength {
		return apperrors.NewValidationError("description too long", map[string]any{"max": maxDescriptionLength})
	}
	return nil
}

func (s *TicketService) publishStatusChange(ctx context.Context, actor *domain.User, ticket *domain.Ticket, oldStatus domain.TicketStatus, comment string) {
	s.publish(ctx, events.Event{
		Type:      events.EventTicketStatusChanged,
		SubjectID: ticket.ID,
		Actor:     actorFor(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Comment:   comment,
		},
	})
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(user *domain.User) events.Actor {
	if user == nil {
		return events.Actor{}
	}
	id := user.ID
	return events.Actor{UserID: &id, Role: user.Role}
}

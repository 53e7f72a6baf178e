package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

type replyFixture struct {
	ticketFixture *ticketFixture
	service       *ReplyService
	replies       *fakeReplyRepo
	templates     *fakeTemplateRepo
}

func newReplyFixture(t *testing.T) *replyFixture {
	t.Helper()
	tf := newTicketFixture(t)
	replies := newFakeReplyRepo()
	templates := newFakeTemplateRepo()
	return &replyFixture{
		ticketFixture: tf,
		service:       NewReplyService(replies, tf.tickets, templates, nil),
		replies:       replies,
		templates:     templates,
	}
}

func (f *replyFixture) openTicket(t *testing.T, creator *domain.User) *domain.Ticket {
	t.Helper()
	ticket, err := f.ticketFixture.service.Create(context.Background(), creator, TicketCreateInput{
		Title: "t", Description: "d", CategoryID: f.ticketFixture.category.ID,
	})
	require.NoError(t, err)
	return ticket
}

func TestAddReplyValidation(t *testing.T) {
	f := newReplyFixture(t)
	ticket := f.openTicket(t, student("alice"))

	_, err := f.service.AddReply(context.Background(), student("alice"), ticket.ID, "   ")
	assert.Error(t, err)

	_, err = f.service.AddReply(context.Background(), student("alice"), ticket.ID, strings.Repeat("x", domain.MaxReplyLength+1))
	assert.Error(t, err)

	// Exactly at the limit is accepted.
	_, err = f.service.AddReply(context.Background(), student("alice"), ticket.ID, strings.Repeat("x", domain.MaxReplyLength))
	assert.NoError(t, err)

	_, err = f.service.AddReply(context.Background(), student("alice"), "missing", "hello")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestFirstStaffReplyMovesTicketInProgress(t *testing.T) {
	f := newReplyFixture(t)
	ticket := f.openTicket(t, student("alice"))

	// A student reply never changes the status.
	_, err := f.service.AddReply(context.Background(), student("alice"), ticket.ID, "any update?")
	require.NoError(t, err)
	current, err := f.ticketFixture.service.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, current.Status)

	// First staff reply moves OPEN -> IN_PROGRESS.
	_, err = f.service.AddReply(context.Background(), staffUser("s1"), ticket.ID, "looking into it")
	require.NoError(t, err)
	current, err = f.ticketFixture.service.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, current.Status)

	// Later staff replies leave the status alone, including after resolve.
	_, err = f.ticketFixture.service.Resolve(context.Background(), staffUser("s1"), ticket.ID, "done")
	require.NoError(t, err)
	_, err = f.service.AddReply(context.Background(), staffUser("s1"), ticket.ID, "closing note")
	require.NoError(t, err)
	current, err = f.ticketFixture.service.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, current.Status)
}

func TestAdminReplyAlsoTriggersTransition(t *testing.T) {
	f := newReplyFixture(t)
	ticket := f.openTicket(t, student("alice"))

	admin := &domain.User{ID: "a1", Name: "Admin", Role: domain.RoleAdmin, Status: domain.UserStatusActive, Enabled: true}
	_, err := f.service.AddReply(context.Background(), admin, ticket.ID, "on it")
	require.NoError(t, err)

	current, err := f.ticketFixture.service.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, current.Status)
}

func TestAddReplyFromTemplate(t *testing.T) {
	f := newReplyFixture(t)
	ticket := f.openTicket(t, student("alice"))

	staff := staffUser("s1")
	shared := &domain.ResponseTemplate{Title: "Greeting", Content: "Thanks for reaching out.", CreatedBy: "someone-else", Shared: true}
	require.NoError(t, f.templates.Create(context.Background(), shared))
	private := &domain.ResponseTemplate{Title: "Private", Content: "My own wording.", CreatedBy: "other-staff"}
	require.NoError(t, f.templates.Create(context.Background(), private))

	// Shared templates post their content and trigger the usual transition.
	reply, err := f.service.AddReplyFromTemplate(context.Background(), staff, ticket.ID, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, "Thanks for reaching out.", reply.Content)
	current, err := f.ticketFixture.service.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, current.Status)

	// Another user's private template is invisible.
	_, err = f.service.AddReplyFromTemplate(context.Background(), staff, ticket.ID, private.ID)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.service.AddReplyFromTemplate(context.Background(), staff, ticket.ID, "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListRepliesChronological(t *testing.T) {
	f := newReplyFixture(t)
	ticket := f.openTicket(t, student("alice"))

	_, err := f.service.AddReply(context.Background(), student("alice"), ticket.ID, "first")
	require.NoError(t, err)
	_, err = f.service.AddReply(context.Background(), staffUser("s1"), ticket.ID, "second")
	require.NoError(t, err)

	replies, err := f.service.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, "first", replies[0].Content)
	assert.Equal(t, "second", replies[1].Content)

	count, err := f.service.CountByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

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

func adminUser(id string) *domain.User {
	return &domain.User{ID: id, Name: "Admin " + id, Role: domain.RoleAdmin, Status: domain.UserStatusActive, Enabled: true}
}

func TestTemplateSharingByRole(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo())

	own, err := svc.Create(context.Background(), staffUser("s1"), "Greeting", "Thanks for reaching out.")
	require.NoError(t, err)
	assert.False(t, own.Shared)

	shared, err := svc.Create(context.Background(), adminUser("a1"), "Escalation", "Your case was escalated.")
	require.NoError(t, err)
	assert.True(t, shared.Shared)

	// s1 sees their own plus the admin's shared template; s2 sees only
	// the shared one.
	visible, err := svc.ListVisible(context.Background(), staffUser("s1"), "")
	require.NoError(t, err)
	assert.Len(t, visible, 2)
	visible, err = svc.ListVisible(context.Background(), staffUser("s2"), "")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, shared.ID, visible[0].ID)

	_, err = svc.GetVisible(context.Background(), staffUser("s2"), own.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestTemplateValidation(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo())

	_, err := svc.Create(context.Background(), staffUser("s1"), " ", "content")
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), staffUser("s1"), "title", "")
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), staffUser("s1"), "title", strings.Repeat("x", domain.MaxTemplateLength+1))
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), nil, "title", "content")
	assert.Error(t, err)
}

func TestTemplateOwnershipGuards(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo())

	template, err := svc.Create(context.Background(), staffUser("s1"), "Greeting", "Original wording.")
	require.NoError(t, err)

	// Another staff member may neither rewrite nor delete it.
	_, err = svc.Update(context.Background(), staffUser("s2"), template.ID, "Greeting", "Hijacked.")
	assert.Error(t, err)
	assert.Error(t, svc.Delete(context.Background(), staffUser("s2"), template.ID))

	// The creator and admins may.
	updated, err := svc.Update(context.Background(), staffUser("s1"), template.ID, "Greeting", "Revised wording.")
	require.NoError(t, err)
	assert.Equal(t, "Revised wording.", updated.Content)
	require.NoError(t, svc.Delete(context.Background(), adminUser("a1"), template.ID))
}

func TestTemplateSearch(t *testing.T) {
	svc := NewTemplateService(newFakeTemplateRepo())

	_, err := svc.Create(context.Background(), staffUser("s1"), "Wifi help", "Restart the router.")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), staffUser("s1"), "Fees", "Pay at the bursar office.")
	require.NoError(t, err)

	results, err := svc.ListVisible(context.Background(), staffUser("s1"), "router")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Wifi help", results[0].Title)
}

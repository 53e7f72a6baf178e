package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := auth.NewTokenManager("test-secret", 60)
	return NewAuthService(users, tokens, bcrypt.MinCost), users
}

func TestRegisterStudent(t *testing.T) {
	svc, _ := newAuthFixture(t)

	user, err := svc.RegisterStudent(context.Background(), RegisterInput{
		Name:     "Alice Chen",
		Email:    "Alice@University.Example",
		Username: "achen",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Equal(t, "alice@university.example", user.Email)
	assert.True(t, user.CanAuthenticate())

	// Duplicate email and username are rejected.
	_, err = svc.RegisterStudent(context.Background(), RegisterInput{
		Name: "Other", Email: "alice@university.example", Password: "long-enough",
	})
	assert.Error(t, err)
	_, err = svc.RegisterStudent(context.Background(), RegisterInput{
		Name: "Other", Email: "other@university.example", Username: "achen", Password: "long-enough",
	})
	assert.Error(t, err)

	_, err = svc.RegisterStudent(context.Background(), RegisterInput{
		Name: "Short", Email: "short@university.example", Password: "short",
	})
	assert.Error(t, err)
}

func TestLoginByEmailOrUsername(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.RegisterStudent(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@university.example", Username: "achen", Password: "correct-horse",
	})
	require.NoError(t, err)

	byEmail, err := svc.Login(context.Background(), "alice@university.example", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, byEmail.Token)

	byUsername, err := svc.Login(context.Background(), "achen", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, byEmail.User.ID, byUsername.User.ID)

	_, err = svc.Login(context.Background(), "achen", "wrong")
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), "nobody@university.example", "correct-horse")
	assert.Error(t, err)
}

func TestLoginBlockedForDisabledAccounts(t *testing.T) {
	svc, users := newAuthFixture(t)
	user, err := svc.RegisterStudent(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@university.example", Password: "correct-horse",
	})
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	stored.Enabled = false
	require.NoError(t, users.Update(context.Background(), stored))

	_, err = svc.Login(context.Background(), "alice@university.example", "correct-horse")
	assert.Error(t, err)

	stored.Enabled = true
	stored.Status = domain.UserStatusInactive
	require.NoError(t, users.Update(context.Background(), stored))
	_, err = svc.Login(context.Background(), "alice@university.example", "correct-horse")
	assert.Error(t, err)

	stored.Status = domain.UserStatusActive
	stored.Deleted = true
	require.NoError(t, users.Update(context.Background(), stored))
	_, err = svc.Login(context.Background(), "alice@university.example", "correct-horse")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthFixture(t)
	user, err := svc.RegisterStudent(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@university.example", Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.Error(t, svc.ChangePassword(context.Background(), user.ID, "wrong", "new-password-1"))
	assert.Error(t, svc.ChangePassword(context.Background(), user.ID, "correct-horse", "short"))
	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "correct-horse", "new-password-1"))

	_, err = svc.Login(context.Background(), "alice@university.example", "correct-horse")
	assert.Error(t, err)
	_, err = svc.Login(context.Background(), "alice@university.example", "new-password-1")
	assert.NoError(t, err)
}

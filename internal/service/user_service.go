package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// UserService covers administrator account management: provisioning staff
// and admin accounts, enabling and disabling logins, soft deletion.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// ProvisionInput describes an admin-created account.
type ProvisionInput struct {
	Name     string
	Email    string
	Username string
	Password string
	Role     domain.Role
}

// Provision creates an account with an explicit role.
func (s *UserService) Provision(ctx context.Context, input ProvisionInput) (*domain.User, error) {
	switch input.Role {
	case domain.RoleStudent, domain.RoleStaff, domain.RoleAdmin:
	default:
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("valid email is required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Status:       domain.UserStatusActive,
		Enabled:      true,
	}
	if username := strings.TrimSpace(input.Username); username != "" {
		user.Username = &username
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetByID fetches an account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns non-deleted accounts, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role *domain.Role, limit, offset int) ([]domain.User, error) {
	users, err := s.users.List(ctx, role, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// SetAccess flips the account status and enabled flag. Disabling either
// immediately blocks new logins; existing tokens lapse at expiry.
func (s *UserService) SetAccess(ctx context.Context, id string, status domain.UserStatus, enabled bool) (*domain.User, error) {
	switch status {
	case domain.UserStatusActive, domain.UserStatusInactive:
	default:
		return nil, apperrors.NewValidationError("unknown user status", map[string]any{"status": status})
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	user.Enabled = enabled
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// SoftDelete marks the account deleted. The row is retained so historical
// tickets keep their creator reference.
func (s *UserService) SoftDelete(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	user.Deleted = true
	user.Enabled = false
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

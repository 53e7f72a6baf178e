package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/auth"
	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// AuthService handles registration, login and password changes. A single
// login endpoint serves all portals; the role carried in the token decides
// which surfaces the session can reach.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// RegisterInput describes self-service student registration.
type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// RegisterStudent creates a STUDENT account. Staff and admin accounts are
// provisioned by administrators, never through self-registration.
func (s *AuthService) RegisterStudent(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
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

	user := &domain.User{
		Name:    name,
		Email:   email,
		Role:    domain.RoleStudent,
		Status:  domain.UserStatusActive,
		Enabled: true,
	}
	if username := strings.TrimSpace(input.Username); username != "" {
		if _, err := s.users.GetByUsername(ctx, username); err == nil {
			return nil, apperrors.NewConflict("username already taken", map[string]any{"username": username})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		user.Username = &username
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates by email or username. Credential failures and
// disabled accounts both return UNAUTHORIZED so the response does not leak
// which part failed.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	user, err := s.lookupByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.CanAuthenticate() {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) lookupByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	if strings.Contains(identifier, "@") {
		return s.users.GetByEmail(ctx, strings.ToLower(identifier))
	}
	user, err := s.users.GetByUsername(ctx, identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		return s.users.GetByEmail(ctx, strings.ToLower(identifier))
	}
	return user, err
}

// ChangePassword rotates the password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if len(next) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("current password is incorrect")
	}
	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

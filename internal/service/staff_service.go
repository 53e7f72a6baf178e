package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/campus-helpdesk/helpdesk-service/internal/domain"
	"github.com/campus-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// StaffService manages the staff directory used for ticket assignment.
type StaffService struct {
	staff repository.StaffRepository
}

// NewStaffService constructs the service.
func NewStaffService(staff repository.StaffRepository) *StaffService {
	return &StaffService{staff: staff}
}

// StaffInput describes directory entry fields.
type StaffInput struct {
	Name       string
	Email      string
	Department string
}

// Create adds a new directory entry.
func (s *StaffService) Create(ctx context.Context, input StaffInput) (*domain.Staff, error) {
	if err := validateStaffInput(input); err != nil {
		return nil, err
	}
	entry := &domain.Staff{
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Department: strings.TrimSpace(input.Department),
		Active:     true,
	}
	if err := s.staff.Create(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// Update edits a directory entry.
func (s *StaffService) Update(ctx context.Context, id string, input StaffInput, active bool) (*domain.Staff, error) {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStaffInput(input); err != nil {
		return nil, err
	}
	entry.Name = strings.TrimSpace(input.Name)
	entry.Email = strings.ToLower(strings.TrimSpace(input.Email))
	entry.Department = strings.TrimSpace(input.Department)
	entry.Active = active
	if err := s.staff.Update(ctx, entry); err != nil {
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// GetByID fetches a directory entry.
func (s *StaffService) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	entry, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return entry, nil
}

// List returns directory entries.
func (s *StaffService) List(ctx context.Context, activeOnly bool) ([]domain.Staff, error) {
	entries, err := s.staff.List(ctx, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// Deactivate soft-removes a staff member from assignment pickers. Tickets
// already assigned to them keep their assignee.
func (s *StaffService) Deactivate(ctx context.Context, id string) error {
	if err := s.staff.Deactivate(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff", map[string]any{"staff_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func validateStaffInput(input StaffInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("staff name is required", nil)
	}
	email := strings.TrimSpace(input.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.NewValidationError("valid staff email is required", nil)
	}
	return nil
}

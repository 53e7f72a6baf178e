package strategy

import (
	"fmt"
	"strings"

	apperrors "github.com/campus-helpdesk/helpdesk-service/pkg/util/errorutil"
)

// MaxCategoryNameLength is the strict-mode cap on category names.
const MaxCategoryNameLength = 50

// CategoryStrategy validates candidate category names against a swappable
// duplication policy. Applied at category create/update time only; existing
// rows are never revalidated.
type CategoryStrategy interface {
	// Validate checks a single candidate name. Returns nil when valid.
	Validate(name string) error
	// CheckDuplicate rejects newName when it collides with an existing name
	// under a different identity than oldName. oldName is empty for creates.
	CheckDuplicate(oldName, newName string, existing []string) error
	Name() string
}

// StrictCategoryStrategy rejects empty names, over-long names and
// duplicates.
type StrictCategoryStrategy struct{}

// NewStrictCategoryStrategy builds the strict strategy.
func NewStrictCategoryStrategy() *StrictCategoryStrategy {
	return &StrictCategoryStrategy{}
}

// Validate implements CategoryStrategy.
func (s *StrictCategoryStrategy) Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("category name cannot be empty", nil)
	}
	if len(name) > MaxCategoryNameLength {
		return apperrors.NewValidationError(
			fmt.Sprintf("category name too long (maximum %d characters)", MaxCategoryNameLength),
			map[string]any{"length": len(name)})
	}
	return nil
}

// CheckDuplicate implements CategoryStrategy.
func (s *StrictCategoryStrategy) CheckDuplicate(oldName, newName string, existing []string) error {
	if newName == oldName {
		return nil
	}
	for _, name := range existing {
		if name == newName {
			return apperrors.NewValidationError(
				"duplicate category name not allowed in strict mode",
				map[string]any{"name": newName})
		}
	}
	return nil
}

// Name implements CategoryStrategy.
func (s *StrictCategoryStrategy) Name() string {
	return "Strict"
}

// LenientCategoryStrategy rejects only empty names and never rejects
// duplicates.
type LenientCategoryStrategy struct{}

// NewLenientCategoryStrategy builds the lenient strategy.
func NewLenientCategoryStrategy() *LenientCategoryStrategy {
	return &LenientCategoryStrategy{}
}

// Validate implements CategoryStrategy.
func (s *LenientCategoryStrategy) Validate(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("category name cannot be empty", nil)
	}
	return nil
}

// CheckDuplicate implements CategoryStrategy.
func (s *LenientCategoryStrategy) CheckDuplicate(_, _ string, _ []string) error {
	return nil
}

// Name implements CategoryStrategy.
func (s *LenientCategoryStrategy) Name() string {
	return "Lenient"
}

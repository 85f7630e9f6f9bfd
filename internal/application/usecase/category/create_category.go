// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

const (
	// MaxCategoryNameLength is the maximum allowed length for category names.
	MaxCategoryNameLength = 100
	// MaxIconLength is the maximum allowed length for icon names.
	MaxIconLength = 10
)

// hexColorRegex is compiled once at package level for performance.
var hexColorRegex = regexp.MustCompile(`^#[A-Fa-f0-9]{6}$`)

// CreateCategoryInput represents the input for category creation.
type CreateCategoryInput struct {
	UserID    uuid.UUID
	Name      string
	Type      entity.CategoryType
	ParentID  *uuid.UUID // Optional, nil creates a root category
	Color     string     // Optional, defaults to DefaultCategoryColor
	Icon      string     // Optional, defaults to DefaultCategoryIcon
	IsDefault bool
}

// CreateCategoryOutput represents the output of category creation.
type CreateCategoryOutput struct {
	Category *entity.Category
}

// CreateCategoryUseCase handles category creation logic.
type CreateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	validator    *Validator
}

// NewCreateCategoryUseCase creates a new CreateCategoryUseCase instance.
func NewCreateCategoryUseCase(categoryRepo adapter.CategoryRepository, validator *Validator) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{
		categoryRepo: categoryRepo,
		validator:    validator,
	}
}

// Execute performs the category creation. A new category is always a leaf, so
// only the duplicate-name and type-consistency invariants need checking; cycle
// and depth are covered by validating the parent's own position.
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, input CreateCategoryInput) (*CreateCategoryOutput, error) {
	name := strings.TrimSpace(input.Name)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateColor(input.Color); err != nil {
		return nil, err
	}
	if err := validateIcon(input.Icon); err != nil {
		return nil, err
	}
	if !isValidCategoryType(input.Type) {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidCategoryType,
			"category type must be 'expense' or 'income'",
			domainerror.ErrInvalidCategoryType,
		)
	}

	// Resolve and validate the parent before any invariant check that
	// depends on it.
	var parent *entity.Category
	if input.ParentID != nil {
		var err error
		parent, err = uc.validator.ResolveParent(ctx, input.UserID, *input.ParentID)
		if err != nil {
			return nil, err
		}

		if err := uc.validator.CheckTypeConsistency(parent, input.Type); err != nil {
			return nil, err
		}
		if err := uc.validator.CheckDepthBound(ctx, *input.ParentID); err != nil {
			return nil, err
		}
	}

	if err := uc.validator.CheckDuplicateName(ctx, input.UserID, name, input.ParentID, uuid.Nil); err != nil {
		return nil, err
	}

	// Apply default values for optional fields (Application layer responsibility)
	color := input.Color
	if color == "" {
		color = entity.DefaultCategoryColor
	}
	icon := input.Icon
	if icon == "" {
		icon = entity.DefaultCategoryIcon
	}

	newCategory := entity.NewCategory(input.UserID, name, input.Type, color, icon, input.IsDefault, input.ParentID)

	if err := uc.categoryRepo.Create(ctx, newCategory); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return &CreateCategoryOutput{
		Category: newCategory,
	}, nil
}

// validateName checks the trimmed category name length (1-100 characters).
// Length is counted in runes, not bytes, so multibyte names get the full 100.
func validateName(name string) error {
	if name == "" || utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameInvalid,
			fmt.Sprintf("category name must be between 1 and %d characters", MaxCategoryNameLength),
			domainerror.ErrCategoryNameInvalid,
		)
	}
	return nil
}

// validateColor checks the hex color format (#RRGGBB) when a color is set.
func validateColor(color string) error {
	if color != "" && !hexColorRegex.MatchString(color) {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidColorFormat,
			"color must be a valid hex format (#RRGGBB)",
			domainerror.ErrInvalidColorFormat,
		)
	}
	return nil
}

// validateIcon checks the icon length when an icon is set. Icons are often
// emoji, so the limit counts runes.
func validateIcon(icon string) error {
	if utf8.RuneCountInString(icon) > MaxIconLength {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeIconTooLong,
			fmt.Sprintf("category icon must not exceed %d characters", MaxIconLength),
			domainerror.ErrIconTooLong,
		)
	}
	return nil
}

// isValidCategoryType validates the category type.
func isValidCategoryType(categoryType entity.CategoryType) bool {
	return categoryType == entity.CategoryTypeExpense || categoryType == entity.CategoryTypeIncome
}

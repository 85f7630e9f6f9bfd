// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

// UpdateCategoryInput represents the input for category update. Absent fields
// are left unchanged. Setting ClearParent moves the category to the root
// level; it wins over ParentID.
type UpdateCategoryInput struct {
	CategoryID  uuid.UUID
	UserID      uuid.UUID
	Name        *string
	Type        *entity.CategoryType
	Color       *string
	Icon        *string
	IsDefault   *bool
	ParentID    *uuid.UUID
	ClearParent bool
}

// UpdateCategoryOutput represents the output of category update.
type UpdateCategoryOutput struct {
	Category *entity.Category
}

// UpdateCategoryUseCase handles category update logic, including re-parenting.
type UpdateCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
	validator    *Validator
}

// NewUpdateCategoryUseCase creates a new UpdateCategoryUseCase instance.
func NewUpdateCategoryUseCase(categoryRepo adapter.CategoryRepository, validator *Validator) *UpdateCategoryUseCase {
	return &UpdateCategoryUseCase{
		categoryRepo: categoryRepo,
		validator:    validator,
	}
}

// Execute performs the category update. A structural change (new parent or new
// type) runs the full invariant suite against the effective parent and type; a
// rename only needs the duplicate-name check; cosmetic changes skip the tree
// checks entirely since the invariants already hold.
func (uc *UpdateCategoryUseCase) Execute(ctx context.Context, input UpdateCategoryInput) (*UpdateCategoryOutput, error) {
	cat, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if cat.UserID != input.UserID {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeNotAuthorizedCategory,
			"not authorized to modify this category",
			domainerror.ErrNotAuthorizedToModifyCategory,
		)
	}
	if !cat.IsActive {
		return nil, notFoundError()
	}

	// Work out the effective name, type and parent before touching anything.
	newName := cat.Name
	nameChanged := false
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
		if trimmed != cat.Name {
			newName = trimmed
			nameChanged = true
		}
	}

	newType := cat.Type
	typeChanged := false
	if input.Type != nil && *input.Type != cat.Type {
		if !isValidCategoryType(*input.Type) {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeInvalidCategoryType,
				"category type must be 'expense' or 'income'",
				domainerror.ErrInvalidCategoryType,
			)
		}
		newType = *input.Type
		typeChanged = true
	}

	newParentID := cat.ParentID
	parentChanged := false
	switch {
	case input.ClearParent:
		newParentID = nil
		parentChanged = cat.ParentID != nil
	case input.ParentID != nil:
		if cat.ParentID == nil || *cat.ParentID != *input.ParentID {
			newParentID = input.ParentID
			parentChanged = true
		}
	}

	if input.Color != nil {
		if err := validateColor(*input.Color); err != nil {
			return nil, err
		}
		cat.Color = *input.Color
	}
	if input.Icon != nil {
		if err := validateIcon(*input.Icon); err != nil {
			return nil, err
		}
		cat.Icon = *input.Icon
	}
	if input.IsDefault != nil {
		cat.IsDefault = *input.IsDefault
	}

	if parentChanged || typeChanged {
		if err := uc.checkStructuralChange(ctx, cat, newParentID, newType, typeChanged); err != nil {
			return nil, err
		}
	}

	// Sibling uniqueness is evaluated against the effective parent level.
	if nameChanged || parentChanged {
		if err := uc.validator.CheckDuplicateName(ctx, input.UserID, newName, newParentID, cat.ID); err != nil {
			return nil, err
		}
	}

	cat.Name = newName
	cat.Type = newType
	cat.ParentID = newParentID
	cat.UpdatedAt = time.Now().UTC()

	if err := uc.categoryRepo.Update(ctx, cat); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return &UpdateCategoryOutput{
		Category: cat,
	}, nil
}

// checkStructuralChange runs the full invariant suite for a re-parent or type
// change: parent resolution, type consistency with the effective type, cycle
// and depth bound, plus the subtree guard for type changes.
func (uc *UpdateCategoryUseCase) checkStructuralChange(ctx context.Context, cat *entity.Category, newParentID *uuid.UUID, newType entity.CategoryType, typeChanged bool) error {
	if newParentID != nil {
		parent, err := uc.validator.ResolveParent(ctx, cat.UserID, *newParentID)
		if err != nil {
			return err
		}
		if err := uc.validator.CheckTypeConsistency(parent, newType); err != nil {
			return err
		}
		if err := uc.validator.CheckCycle(ctx, cat.ID, *newParentID); err != nil {
			return err
		}
		if err := uc.validator.CheckDepthBound(ctx, *newParentID); err != nil {
			return err
		}
	}

	// A type change while active children exist would leave the subtree
	// disagreeing with its new root type.
	if typeChanged {
		childCount, err := uc.categoryRepo.CountActiveChildren(ctx, cat.ID)
		if err != nil {
			return fmt.Errorf("failed to count children: %w", err)
		}
		if childCount > 0 {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeTypeConflict,
				"cannot change type of a category with active children",
				domainerror.ErrCategoryTypeConflict,
			)
		}
	}

	return nil
}

// notFoundError builds the canonical not-found rejection.
func notFoundError() error {
	return domainerror.NewCategoryError(
		domainerror.ErrCodeCategoryNotFound,
		"category not found",
		domainerror.ErrCategoryNotFound,
	)
}

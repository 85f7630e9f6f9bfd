// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

// Validator bundles the tree invariant checks consulted before any category
// mutation commits. Each check is an independent decision function over the
// current stored state and a proposed change; none of them mutates anything.
// The checks are a best-effort gate, not a lock: serialization of concurrent
// mutations is delegated to the storage layer's transaction isolation.
type Validator struct {
	categoryRepo adapter.CategoryRepository
}

// NewValidator creates a new Validator instance.
func NewValidator(categoryRepo adapter.CategoryRepository) *Validator {
	return &Validator{
		categoryRepo: categoryRepo,
	}
}

// CheckDuplicateName rejects a name already carried by an active sibling under
// the same parent (nil parentID groups the root level). Comparison is on the
// trimmed, lowercased name; excludeID exempts the category being updated.
func (v *Validator) CheckDuplicateName(ctx context.Context, userID uuid.UUID, name string, parentID *uuid.UUID, excludeID uuid.UUID) error {
	normalized := entity.NormalizeCategoryName(name)

	exists, err := v.categoryRepo.ExistsActiveSibling(ctx, userID, parentID, normalized, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check sibling names: %w", err)
	}
	if exists {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryNameExists,
			"a category with this name already exists under the same parent",
			domainerror.ErrCategoryNameExists,
		)
	}
	return nil
}

// ResolveParent loads the proposed parent and rejects it when it is missing,
// inactive or owned by another user.
func (v *Validator) ResolveParent(ctx context.Context, userID, parentID uuid.UUID) (*entity.Category, error) {
	parent, err := v.categoryRepo.FindByID(ctx, parentID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeInvalidParent,
				"parent category does not exist",
				domainerror.ErrInvalidParent,
			)
		}
		return nil, fmt.Errorf("failed to resolve parent category: %w", err)
	}

	if parent.UserID != userID || !parent.IsActive {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeInvalidParent,
			"parent category is not available",
			domainerror.ErrInvalidParent,
		)
	}

	return parent, nil
}

// CheckTypeConsistency rejects a child type that disagrees with the parent's
// type. A nil parent (root placement) is always consistent.
func (v *Validator) CheckTypeConsistency(parent *entity.Category, childType entity.CategoryType) error {
	if parent == nil {
		return nil
	}
	if parent.Type != childType {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeTypeConflict,
			fmt.Sprintf("category type %q conflicts with parent type %q", childType, parent.Type),
			domainerror.ErrCategoryTypeConflict,
		)
	}
	return nil
}

// CheckCycle rejects a re-parent that would make the category its own
// ancestor. The walk is a single recursive ancestor query on the proposed
// parent, bounded by the depth ceiling; the forest is never scanned.
func (v *Validator) CheckCycle(ctx context.Context, nodeID, newParentID uuid.UUID) error {
	if nodeID == newParentID {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeCircularReference,
			"category cannot be its own parent",
			domainerror.ErrCircularReference,
		)
	}

	ancestors, err := v.categoryRepo.FindAncestors(ctx, newParentID, entity.MaxCategoryDepth)
	if err != nil {
		return fmt.Errorf("failed to walk ancestors: %w", err)
	}
	for _, ancestor := range ancestors {
		if ancestor.ID == nodeID {
			return domainerror.NewCategoryError(
				domainerror.ErrCodeCircularReference,
				"move would make the category its own ancestor",
				domainerror.ErrCircularReference,
			)
		}
	}
	return nil
}

// CheckDepthBound rejects a placement whose resulting depth would exceed the
// ceiling.
func (v *Validator) CheckDepthBound(ctx context.Context, newParentID uuid.UUID) error {
	parentDepth, err := v.Depth(ctx, newParentID)
	if err != nil {
		return err
	}
	if parentDepth+1 > entity.MaxCategoryDepth {
		return domainerror.NewCategoryError(
			domainerror.ErrCodeMaxDepthExceeded,
			fmt.Sprintf("category depth cannot exceed %d levels", entity.MaxCategoryDepth),
			domainerror.ErrMaxDepthExceeded,
		)
	}
	return nil
}

// Depth returns the number of parent hops from the category to its root.
// Roots have depth 0.
func (v *Validator) Depth(ctx context.Context, id uuid.UUID) (int, error) {
	ancestors, err := v.categoryRepo.FindAncestors(ctx, id, entity.MaxCategoryDepth)
	if err != nil {
		return 0, fmt.Errorf("failed to compute category depth: %w", err)
	}
	return len(ancestors), nil
}

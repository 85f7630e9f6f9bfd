// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

// DeleteCategoryInput represents the input for category deletion.
type DeleteCategoryInput struct {
	CategoryID uuid.UUID
	UserID     uuid.UUID
	Cascade    bool
}

// DeleteCategoryOutput represents the output of category deletion.
type DeleteCategoryOutput struct {
	// DeactivatedCount is the number of categories flipped to inactive,
	// including the target itself.
	DeactivatedCount int
}

// DeleteCategoryUseCase handles category soft deletion. Deletion never removes
// rows: categories are flipped to inactive, optionally cascading over every
// active descendant.
type DeleteCategoryUseCase struct {
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
}

// NewDeleteCategoryUseCase creates a new DeleteCategoryUseCase instance.
func NewDeleteCategoryUseCase(categoryRepo adapter.CategoryRepository, transactionRepo adapter.TransactionRepository) *DeleteCategoryUseCase {
	return &DeleteCategoryUseCase{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the category soft deletion.
//
// A category referenced by active transactions always blocks, cascade or not:
// cascade consent only bypasses the has-active-children block. Each
// deactivation is an independent idempotent write, so a cascade interrupted
// midway leaves some descendants inactive and can simply be retried.
func (uc *DeleteCategoryUseCase) Execute(ctx context.Context, input DeleteCategoryInput) (*DeleteCategoryOutput, error) {
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
			"not authorized to delete this category",
			domainerror.ErrNotAuthorizedToModifyCategory,
		)
	}
	if !cat.IsActive {
		return nil, notFoundError()
	}

	inUse, err := uc.transactionRepo.ExistsActiveByCategory(ctx, cat.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse {
		return nil, domainerror.NewCategoryError(
			domainerror.ErrCodeCategoryInUse,
			"category is referenced by active transactions",
			domainerror.ErrCategoryInUse,
		)
	}

	var descendants []*entity.Category
	if input.Cascade {
		descendants, err = uc.categoryRepo.FindDescendants(ctx, cat.ID, entity.MaxCategoryDepth)
		if err != nil {
			return nil, fmt.Errorf("failed to collect descendants: %w", err)
		}

		// Cascade consent does not extend to referenced descendants.
		for _, descendant := range descendants {
			inUse, err := uc.transactionRepo.ExistsActiveByCategory(ctx, descendant.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check category usage: %w", err)
			}
			if inUse {
				return nil, domainerror.NewCategoryError(
					domainerror.ErrCodeCategoryInUse,
					fmt.Sprintf("descendant category %q is referenced by active transactions", descendant.Name),
					domainerror.ErrCategoryInUse,
				)
			}
		}
	} else {
		childCount, err := uc.categoryRepo.CountActiveChildren(ctx, cat.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count children: %w", err)
		}
		if childCount > 0 {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryHasChildren,
				"category has active children; use cascade or reparent them first",
				domainerror.ErrCategoryHasChildren,
			)
		}
	}

	now := time.Now().UTC()
	deactivated := 0

	// Descendants first, target last: a partially applied cascade keeps the
	// subtree root active so a retry can still resolve it.
	for _, descendant := range descendants {
		if err := uc.categoryRepo.Deactivate(ctx, descendant.ID, now); err != nil {
			return nil, fmt.Errorf("failed to deactivate descendant category: %w", err)
		}
		deactivated++
	}
	if err := uc.categoryRepo.Deactivate(ctx, cat.ID, now); err != nil {
		return nil, fmt.Errorf("failed to deactivate category: %w", err)
	}
	deactivated++

	return &DeleteCategoryOutput{
		DeactivatedCount: deactivated,
	}, nil
}

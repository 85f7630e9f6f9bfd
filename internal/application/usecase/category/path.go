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

// GetCategoryPathInput represents the input for the breadcrumb query.
type GetCategoryPathInput struct {
	CategoryID uuid.UUID
	UserID     uuid.UUID
}

// GetCategoryPathOutput represents the breadcrumb from root to the category.
// Categories and Names run in parallel, root-first; Depth is the number of
// parent hops from the category to its root.
type GetCategoryPathOutput struct {
	Categories []*entity.Category
	Names      []string
	Depth      int
}

// GetCategoryPathUseCase resolves a category's breadcrumb by re-walking its
// parent pointers.
type GetCategoryPathUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewGetCategoryPathUseCase creates a new GetCategoryPathUseCase instance.
func NewGetCategoryPathUseCase(categoryRepo adapter.CategoryRepository) *GetCategoryPathUseCase {
	return &GetCategoryPathUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute returns the root-first breadcrumb for a category. An ancestor chain
// that cannot be fully resolved fails the whole query: a breadcrumb with a
// silently skipped ancestor would misrepresent the tree.
func (uc *GetCategoryPathUseCase) Execute(ctx context.Context, input GetCategoryPathInput) (*GetCategoryPathOutput, error) {
	cat, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if cat.UserID != input.UserID || !cat.IsActive {
		return nil, notFoundError()
	}

	ancestors, err := uc.categoryRepo.FindAncestors(ctx, cat.ID, entity.MaxCategoryDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to walk ancestors: %w", err)
	}

	// The walk must reach a root and every ancestor must be a live node of
	// the same forest.
	for _, ancestor := range ancestors {
		if ancestor.UserID != input.UserID || !ancestor.IsActive {
			return nil, notFoundError()
		}
	}
	if len(ancestors) == 0 {
		if cat.ParentID != nil {
			return nil, notFoundError()
		}
	} else if ancestors[len(ancestors)-1].ParentID != nil {
		return nil, notFoundError()
	}

	// Ancestors arrive nearest-first; the breadcrumb runs root-first.
	depth := len(ancestors)
	categories := make([]*entity.Category, 0, depth+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		categories = append(categories, ancestors[i])
	}
	categories = append(categories, cat)

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}

	return &GetCategoryPathOutput{
		Categories: categories,
		Names:      names,
		Depth:      depth,
	}, nil
}

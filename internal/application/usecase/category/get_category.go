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

// GetCategoryInput represents the input for fetching a single category.
type GetCategoryInput struct {
	CategoryID      uuid.UUID
	UserID          uuid.UUID
	IncludeInactive bool
}

// GetCategoryOutput represents the output of fetching a single category.
type GetCategoryOutput struct {
	Category *entity.Category
}

// GetCategoryUseCase handles single category reads.
type GetCategoryUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewGetCategoryUseCase creates a new GetCategoryUseCase instance.
func NewGetCategoryUseCase(categoryRepo adapter.CategoryRepository) *GetCategoryUseCase {
	return &GetCategoryUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute fetches a category by ID with ownership and active filtering.
func (uc *GetCategoryUseCase) Execute(ctx context.Context, input GetCategoryInput) (*GetCategoryOutput, error) {
	cat, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if cat.UserID != input.UserID {
		return nil, notFoundError()
	}
	if !cat.IsActive && !input.IncludeInactive {
		return nil, notFoundError()
	}

	return &GetCategoryOutput{
		Category: cat,
	}, nil
}

// GetChildrenInput represents the input for listing a category's direct children.
type GetChildrenInput struct {
	CategoryID      uuid.UUID
	UserID          uuid.UUID
	IncludeInactive bool
}

// GetChildrenOutput represents the output of listing direct children.
type GetChildrenOutput struct {
	Children []*entity.Category
}

// GetChildrenUseCase handles direct-children reads.
type GetChildrenUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewGetChildrenUseCase creates a new GetChildrenUseCase instance.
func NewGetChildrenUseCase(categoryRepo adapter.CategoryRepository) *GetChildrenUseCase {
	return &GetChildrenUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute lists the direct children of a category, ordered by name.
func (uc *GetChildrenUseCase) Execute(ctx context.Context, input GetChildrenInput) (*GetChildrenOutput, error) {
	parent, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if parent.UserID != input.UserID {
		return nil, notFoundError()
	}

	children, err := uc.categoryRepo.FindChildren(ctx, input.UserID, &parent.ID, input.IncludeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	return &GetChildrenOutput{
		Children: children,
	}, nil
}

// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	UserID          uuid.UUID
	Type            *entity.CategoryType
	ParentID        *uuid.UUID
	RootsOnly       bool
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*entity.Category
	Pagination PaginationOutput
}

// ListCategoriesUseCase handles paginated flat category listings.
type ListCategoriesUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(categoryRepo adapter.CategoryRepository) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute lists one user's categories with filtering and pagination.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := adapter.CategoryFilter{
		Type:            input.Type,
		ParentID:        input.ParentID,
		RootsOnly:       input.RootsOnly,
		Search:          input.Search,
		IncludeInactive: input.IncludeInactive,
		Page:            page,
		Limit:           limit,
	}

	categories, total, err := uc.categoryRepo.List(ctx, input.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return &ListCategoriesOutput{
		Categories: categories,
		Pagination: PaginationOutput{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

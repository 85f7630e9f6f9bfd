// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
)

// GetCategoryStatsInput represents the input for the aggregate statistics view.
type GetCategoryStatsInput struct {
	UserID uuid.UUID
}

// GetCategoryStatsOutput represents the aggregate statistics over one user's
// active forest.
type GetCategoryStatsOutput struct {
	Stats entity.CategoryTreeStats
}

// GetCategoryStatsUseCase computes aggregate counts over the active category
// set. Everything is derived from one flat snapshot; nothing is mutated.
type GetCategoryStatsUseCase struct {
	categoryRepo adapter.CategoryRepository
}

// NewGetCategoryStatsUseCase creates a new GetCategoryStatsUseCase instance.
func NewGetCategoryStatsUseCase(categoryRepo adapter.CategoryRepository) *GetCategoryStatsUseCase {
	return &GetCategoryStatsUseCase{
		categoryRepo: categoryRepo,
	}
}

// Execute computes totals, per-type counts, root count, the number of
// categories with at least one active child, and the average depth across all
// active nodes.
func (uc *GetCategoryStatsUseCase) Execute(ctx context.Context, input GetCategoryStatsInput) (*GetCategoryStatsOutput, error) {
	categories, err := uc.categoryRepo.FindForest(ctx, input.UserID, nil, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load category forest: %w", err)
	}

	stats := entity.CategoryTreeStats{
		TotalActive: len(categories),
	}

	byID := make(map[uuid.UUID]*entity.Category, len(categories))
	parents := make(map[uuid.UUID]bool)
	for _, cat := range categories {
		byID[cat.ID] = cat
	}

	totalDepth := 0
	for _, cat := range categories {
		switch cat.Type {
		case entity.CategoryTypeExpense:
			stats.ExpenseCount++
		case entity.CategoryTypeIncome:
			stats.IncomeCount++
		}

		if cat.ParentID == nil {
			stats.RootCount++
		} else {
			parents[*cat.ParentID] = true
		}

		totalDepth += depthOf(cat, byID)
	}

	stats.CategoriesWithChildren = len(parents)
	if len(categories) > 0 {
		stats.AverageDepth = float64(totalDepth) / float64(len(categories))
	}

	return &GetCategoryStatsOutput{
		Stats: stats,
	}, nil
}

// depthOf counts parent hops within the snapshot, capped at the depth ceiling
// as a guard against damaged parent chains.
func depthOf(cat *entity.Category, byID map[uuid.UUID]*entity.Category) int {
	depth := 0
	current := cat
	for current.ParentID != nil && depth < entity.MaxCategoryDepth {
		parent, ok := byID[*current.ParentID]
		if !ok {
			break
		}
		depth++
		current = parent
	}
	return depth
}

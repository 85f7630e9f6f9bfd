// Package category contains category-related use cases.
package category

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/domain/entity"
)

func TestGetCategoryStatsUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	repo := newMemoryCategoryRepository()
	uc := NewGetCategoryStatsUseCase(repo)

	// Food -> Groceries -> Produce plus a Salary root and an inactive node.
	food := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
	repo.seed(food)
	groceries := newTestCategory(userID, "Groceries", entity.CategoryTypeExpense, &food.ID)
	repo.seed(groceries)
	produce := newTestCategory(userID, "Produce", entity.CategoryTypeExpense, &groceries.ID)
	repo.seed(produce)
	salary := newTestCategory(userID, "Salary", entity.CategoryTypeIncome, nil)
	repo.seed(salary)
	archived := newTestCategory(userID, "Archived", entity.CategoryTypeExpense, nil)
	archived.IsActive = false
	repo.seed(archived)

	output, err := uc.Execute(ctx, GetCategoryStatsInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats := output.Stats

	if stats.TotalActive != 4 {
		t.Errorf("expected 4 active categories, got %d", stats.TotalActive)
	}
	if stats.ExpenseCount != 3 {
		t.Errorf("expected 3 expense categories, got %d", stats.ExpenseCount)
	}
	if stats.IncomeCount != 1 {
		t.Errorf("expected 1 income category, got %d", stats.IncomeCount)
	}
	if stats.RootCount != 2 {
		t.Errorf("expected 2 roots, got %d", stats.RootCount)
	}
	if stats.CategoriesWithChildren != 2 {
		t.Errorf("expected 2 categories with children, got %d", stats.CategoriesWithChildren)
	}

	// Depths: Food 0, Groceries 1, Produce 2, Salary 0 -> average 0.75.
	if math.Abs(stats.AverageDepth-0.75) > 1e-9 {
		t.Errorf("expected average depth 0.75, got %f", stats.AverageDepth)
	}
}

func TestGetCategoryStatsUseCase_EmptyForest(t *testing.T) {
	ctx := context.Background()
	uc := NewGetCategoryStatsUseCase(newMemoryCategoryRepository())

	output, err := uc.Execute(ctx, GetCategoryStatsInput{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Stats.TotalActive != 0 || output.Stats.AverageDepth != 0 {
		t.Fatalf("expected zeroed stats, got %+v", output.Stats)
	}
}

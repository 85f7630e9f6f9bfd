// Package category contains category-related use cases.
package category

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

func TestUpdateCategoryUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	newUseCase := func() (*UpdateCategoryUseCase, *memoryCategoryRepository) {
		repo := newMemoryCategoryRepository()
		return NewUpdateCategoryUseCase(repo, NewValidator(repo)), repo
	}

	strPtr := func(s string) *string { return &s }
	typePtr := func(ct entity.CategoryType) *entity.CategoryType { return &ct }

	t.Run("renames a category", func(t *testing.T) {
		uc, repo := newUseCase()
		cat := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		output, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Name:       strPtr("  Dining  "),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.Name != "Dining" {
			t.Fatalf("expected trimmed name Dining, got %q", output.Category.Name)
		}
	})

	t.Run("rename length is counted in runes, not bytes", func(t *testing.T) {
		uc, repo := newUseCase()
		cat := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		name := strings.Repeat("é", 60)
		output, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Name:       strPtr(name),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.Name != name {
			t.Fatalf("expected name to survive unchanged, got %q", output.Category.Name)
		}
	})

	t.Run("rename onto an active sibling name is rejected", func(t *testing.T) {
		uc, repo := newUseCase()
		repo.seed(newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil))
		cat := newTestCategory(userID, "Home", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Name:       strPtr("food"),
		})
		expectCategoryCode(t, err, domainerror.ErrCodeCategoryNameExists)
	})

	t.Run("rename to the same name is a no-op for uniqueness", func(t *testing.T) {
		uc, repo := newUseCase()
		cat := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		if _, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Name:       strPtr("Food"),
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("moves a category under a new parent", func(t *testing.T) {
		uc, repo := newUseCase()
		food := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
		repo.seed(food)
		cat := newTestCategory(userID, "Groceries", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		output, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			ParentID:   &food.ID,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.ParentID == nil || *output.Category.ParentID != food.ID {
			t.Fatal("expected category to be moved under Food")
		}
	})

	t.Run("clear parent promotes to root", func(t *testing.T) {
		uc, repo := newUseCase()
		food := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
		repo.seed(food)
		cat := newTestCategory(userID, "Groceries", entity.CategoryTypeExpense, &food.ID)
		repo.seed(cat)

		output, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID:  cat.ID,
			UserID:      userID,
			ClearParent: true,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.ParentID != nil {
			t.Fatal("expected category to become a root")
		}
	})

	t.Run("move under own descendant is rejected", func(t *testing.T) {
		uc, repo := newUseCase()
		a := newTestCategory(userID, "A", entity.CategoryTypeExpense, nil)
		repo.seed(a)
		b := newTestCategory(userID, "B", entity.CategoryTypeExpense, &a.ID)
		repo.seed(b)
		c := newTestCategory(userID, "C", entity.CategoryTypeExpense, &b.ID)
		repo.seed(c)

		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: a.ID,
			UserID:     userID,
			ParentID:   &c.ID,
		})
		expectCategoryCode(t, err, domainerror.ErrCodeCircularReference)
	})

	t.Run("move under itself is rejected", func(t *testing.T) {
		uc, repo := newUseCase()
		cat := newTestCategory(userID, "A", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			ParentID:   &cat.ID,
		})
		expectCategoryCode(t, err, domainerror.ErrCodeCircularReference)
	})

	t.Run("move under a parent of another type is rejected", func(t *testing.T) {
		uc, repo := newUseCase()
		salary := newTestCategory(userID, "Salary", entity.CategoryTypeIncome, nil)
		repo.seed(salary)
		cat := newTestCategory(userID, "Rent", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			ParentID:   &salary.ID,
		})
		expectCategoryCode(t, err, domainerror.ErrCodeTypeConflict)
	})

	t.Run("type change on a leaf succeeds", func(t *testing.T) {
		uc, repo := newUseCase()
		cat := newTestCategory(userID, "Refunds", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		output, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Type:       typePtr(entity.CategoryTypeIncome),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.Type != entity.CategoryTypeIncome {
			t.Fatalf("expected type income, got %s", output.Category.Type)
		}
	})

	t.Run("type change with active children is rejected", func(t *testing.T) {
		uc, repo := newUseCase()
		food := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
		repo.seed(food)
		repo.seed(newTestCategory(userID, "Groceries", entity.CategoryTypeExpense, &food.ID))

		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: food.ID,
			UserID:     userID,
			Type:       typePtr(entity.CategoryTypeIncome),
		})
		expectCategoryCode(t, err, domainerror.ErrCodeTypeConflict)
	})

	t.Run("updating a missing category returns not found", func(t *testing.T) {
		uc, _ := newUseCase()
		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: uuid.New(),
			UserID:     userID,
			Name:       strPtr("X"),
		})
		expectCategoryCode(t, err, domainerror.ErrCodeCategoryNotFound)
	})

	t.Run("updating an inactive category returns not found", func(t *testing.T) {
		uc, repo := newUseCase()
		cat := newTestCategory(userID, "Old", entity.CategoryTypeExpense, nil)
		cat.IsActive = false
		repo.seed(cat)

		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Name:       strPtr("New"),
		})
		expectCategoryCode(t, err, domainerror.ErrCodeCategoryNotFound)
	})

	t.Run("updating another user's category is rejected", func(t *testing.T) {
		uc, repo := newUseCase()
		cat := newTestCategory(uuid.New(), "Theirs", entity.CategoryTypeExpense, nil)
		repo.seed(cat)

		_, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Name:       strPtr("Mine"),
		})
		expectCategoryCode(t, err, domainerror.ErrCodeNotAuthorizedCategory)
	})

	t.Run("cosmetic update keeps structure untouched", func(t *testing.T) {
		uc, repo := newUseCase()
		food := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
		repo.seed(food)
		cat := newTestCategory(userID, "Groceries", entity.CategoryTypeExpense, &food.ID)
		repo.seed(cat)

		output, err := uc.Execute(ctx, UpdateCategoryInput{
			CategoryID: cat.ID,
			UserID:     userID,
			Color:      strPtr("#FF0000"),
			Icon:       strPtr("cart"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Category.Color != "#FF0000" || output.Category.Icon != "cart" {
			t.Fatal("expected cosmetic fields to be updated")
		}
		if output.Category.ParentID == nil || *output.Category.ParentID != food.ID {
			t.Fatal("expected parent to be unchanged")
		}
	})
}

// Package category contains category-related use cases.
package category

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

// newTestCategory builds an active category with default cosmetics.
func newTestCategory(userID uuid.UUID, name string, categoryType entity.CategoryType, parentID *uuid.UUID) *entity.Category {
	return entity.NewCategory(userID, name, categoryType, entity.DefaultCategoryColor, entity.DefaultCategoryIcon, false, parentID)
}

// expectCategoryCode fails the test unless err carries the given category
// error code.
func expectCategoryCode(t *testing.T, err error, code domainerror.CategoryErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	var catErr *domainerror.CategoryError
	if !errors.As(err, &catErr) {
		t.Fatalf("expected CategoryError, got %v", err)
	}
	if catErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, catErr.Code)
	}
}

func TestValidator_CheckDuplicateName(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newMemoryCategoryRepository()
	validator := NewValidator(repo)

	food := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
	repo.seed(food)
	groceries := newTestCategory(userID, "Groceries", entity.CategoryTypeExpense, &food.ID)
	repo.seed(groceries)
	inactive := newTestCategory(userID, "Archived", entity.CategoryTypeExpense, nil)
	inactive.IsActive = false
	repo.seed(inactive)

	t.Run("rejects exact duplicate at root level", func(t *testing.T) {
		err := validator.CheckDuplicateName(ctx, userID, "Food", nil, uuid.Nil)
		expectCategoryCode(t, err, domainerror.ErrCodeCategoryNameExists)
	})

	t.Run("comparison is case-insensitive and trimmed", func(t *testing.T) {
		err := validator.CheckDuplicateName(ctx, userID, "  fOOd  ", nil, uuid.Nil)
		expectCategoryCode(t, err, domainerror.ErrCodeCategoryNameExists)
	})

	t.Run("same name under a different parent is allowed", func(t *testing.T) {
		if err := validator.CheckDuplicateName(ctx, userID, "Groceries", nil, uuid.Nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects duplicate among siblings", func(t *testing.T) {
		err := validator.CheckDuplicateName(ctx, userID, "groceries", &food.ID, uuid.Nil)
		expectCategoryCode(t, err, domainerror.ErrCodeCategoryNameExists)
	})

	t.Run("excludeID exempts the category itself", func(t *testing.T) {
		if err := validator.CheckDuplicateName(ctx, userID, "Food", nil, food.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("inactive siblings do not block", func(t *testing.T) {
		if err := validator.CheckDuplicateName(ctx, userID, "Archived", nil, uuid.Nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("other users' names do not block", func(t *testing.T) {
		if err := validator.CheckDuplicateName(ctx, uuid.New(), "Food", nil, uuid.Nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestValidator_ResolveParent(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newMemoryCategoryRepository()
	validator := NewValidator(repo)

	active := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)
	repo.seed(active)
	inactive := newTestCategory(userID, "Old", entity.CategoryTypeExpense, nil)
	inactive.IsActive = false
	repo.seed(inactive)
	foreign := newTestCategory(uuid.New(), "Theirs", entity.CategoryTypeExpense, nil)
	repo.seed(foreign)

	t.Run("resolves an active owned parent", func(t *testing.T) {
		parent, err := validator.ResolveParent(ctx, userID, active.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parent.ID != active.ID {
			t.Fatalf("expected parent %s, got %s", active.ID, parent.ID)
		}
	})

	t.Run("rejects a missing parent", func(t *testing.T) {
		_, err := validator.ResolveParent(ctx, userID, uuid.New())
		expectCategoryCode(t, err, domainerror.ErrCodeInvalidParent)
	})

	t.Run("rejects an inactive parent", func(t *testing.T) {
		_, err := validator.ResolveParent(ctx, userID, inactive.ID)
		expectCategoryCode(t, err, domainerror.ErrCodeInvalidParent)
	})

	t.Run("rejects another user's parent", func(t *testing.T) {
		_, err := validator.ResolveParent(ctx, userID, foreign.ID)
		expectCategoryCode(t, err, domainerror.ErrCodeInvalidParent)
	})
}

func TestValidator_CheckTypeConsistency(t *testing.T) {
	userID := uuid.New()
	validator := NewValidator(newMemoryCategoryRepository())
	expenseParent := newTestCategory(userID, "Food", entity.CategoryTypeExpense, nil)

	t.Run("nil parent is always consistent", func(t *testing.T) {
		if err := validator.CheckTypeConsistency(nil, entity.CategoryTypeIncome); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("matching types are consistent", func(t *testing.T) {
		if err := validator.CheckTypeConsistency(expenseParent, entity.CategoryTypeExpense); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("mismatching types conflict", func(t *testing.T) {
		err := validator.CheckTypeConsistency(expenseParent, entity.CategoryTypeIncome)
		expectCategoryCode(t, err, domainerror.ErrCodeTypeConflict)
	})
}

func TestValidator_CheckCycle(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newMemoryCategoryRepository()
	validator := NewValidator(repo)

	// a -> b -> c chain.
	a := newTestCategory(userID, "A", entity.CategoryTypeExpense, nil)
	repo.seed(a)
	b := newTestCategory(userID, "B", entity.CategoryTypeExpense, &a.ID)
	repo.seed(b)
	c := newTestCategory(userID, "C", entity.CategoryTypeExpense, &b.ID)
	repo.seed(c)

	t.Run("rejects self-parenting", func(t *testing.T) {
		err := validator.CheckCycle(ctx, a.ID, a.ID)
		expectCategoryCode(t, err, domainerror.ErrCodeCircularReference)
	})

	t.Run("rejects moving under own descendant", func(t *testing.T) {
		err := validator.CheckCycle(ctx, a.ID, c.ID)
		expectCategoryCode(t, err, domainerror.ErrCodeCircularReference)
	})

	t.Run("allows moving under an unrelated node", func(t *testing.T) {
		other := newTestCategory(userID, "Other", entity.CategoryTypeExpense, nil)
		repo.seed(other)
		if err := validator.CheckCycle(ctx, c.ID, other.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestValidator_CheckDepthBound(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	repo := newMemoryCategoryRepository()
	validator := NewValidator(repo)

	// Build a chain of MaxCategoryDepth+1 nodes, so the deepest sits exactly
	// at the ceiling.
	var parentID *uuid.UUID
	chain := make([]*entity.Category, 0, entity.MaxCategoryDepth+1)
	for i := 0; i <= entity.MaxCategoryDepth; i++ {
		cat := newTestCategory(userID, string(rune('a'+i)), entity.CategoryTypeExpense, parentID)
		repo.seed(cat)
		chain = append(chain, cat)
		parentID = &cat.ID
	}

	t.Run("depth of root is zero", func(t *testing.T) {
		depth, err := validator.Depth(ctx, chain[0].ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if depth != 0 {
			t.Fatalf("expected depth 0, got %d", depth)
		}
	})

	t.Run("allows a child one level below the ceiling", func(t *testing.T) {
		if err := validator.CheckDepthBound(ctx, chain[entity.MaxCategoryDepth-1].ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects a child under a node at the ceiling", func(t *testing.T) {
		err := validator.CheckDepthBound(ctx, chain[entity.MaxCategoryDepth].ID)
		expectCategoryCode(t, err, domainerror.ErrCodeMaxDepthExceeded)
	})
}

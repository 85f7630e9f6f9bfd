// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/domain/entity"
)

// CategoryFilter narrows flat category listings.
type CategoryFilter struct {
	Type            *entity.CategoryType
	ParentID        *uuid.UUID
	RootsOnly       bool // List only categories without a parent; ignored when ParentID is set
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
}

// CategoryRepository defines the interface for category persistence operations.
// It owns no business rules: invariants are enforced by the use-case layer on
// top of these flat reads, writes and bounded recursive queries.
type CategoryRepository interface {
	// Create inserts a new category.
	Create(ctx context.Context, category *entity.Category) error

	// FindByID retrieves a category by its ID, active or not.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)

	// FindForest retrieves one user's flat category set ordered by name,
	// optionally filtered by type, for in-memory tree assembly.
	FindForest(ctx context.Context, userID uuid.UUID, categoryType *entity.CategoryType, includeInactive bool) ([]*entity.Category, error)

	// List retrieves a page of one user's categories ordered by name,
	// together with the total match count.
	List(ctx context.Context, userID uuid.UUID, filter CategoryFilter) ([]*entity.Category, int64, error)

	// FindChildren retrieves the direct children of a parent ordered by name.
	// A nil parentID selects the user's root categories.
	FindChildren(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, includeInactive bool) ([]*entity.Category, error)

	// CountActiveChildren counts a category's active direct children.
	CountActiveChildren(ctx context.Context, id uuid.UUID) (int64, error)

	// ExistsActiveSibling checks whether an active category with the given
	// normalized name already exists under parentID (nil groups the root
	// level), excluding excludeID. Used for sibling uniqueness.
	ExistsActiveSibling(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, normalizedName string, excludeID uuid.UUID) (bool, error)

	// FindAncestors walks parent pointers from the category's parent up to its
	// root via one recursive query, returning at most maxDepth ancestors
	// ordered nearest-first.
	FindAncestors(ctx context.Context, id uuid.UUID, maxDepth int) ([]*entity.Category, error)

	// FindDescendants retrieves every active descendant of a category via one
	// recursive query bounded at maxDepth levels.
	FindDescendants(ctx context.Context, id uuid.UUID, maxDepth int) ([]*entity.Category, error)

	// Update persists all fields of an existing category.
	Update(ctx context.Context, category *entity.Category) error

	// Deactivate flips a category to inactive. The write is idempotent:
	// deactivating an inactive category is a no-op.
	Deactivate(ctx context.Context, id uuid.UUID, when time.Time) error
}

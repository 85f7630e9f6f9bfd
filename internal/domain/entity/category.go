// Package entity defines the core business entities for the domain layer.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the type of category (expense or income).
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
)

// DefaultCategoryColor is the default color for categories.
const DefaultCategoryColor = "#6366F1"

// DefaultCategoryIcon is the default icon for categories.
const DefaultCategoryIcon = "tag"

// MaxCategoryDepth is the maximum allowed ancestor-chain length for a category.
// It bounds recursive ancestor/descendant queries and rejects pathological trees.
const MaxCategoryDepth = 10

// Category represents a node in a user's category tree. Each user owns an
// independent forest; a nil ParentID marks a root. Every node in a tree shares
// the type of its root.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Type      CategoryType
	Color     string
	Icon      string
	IsDefault bool
	ParentID  *uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCategory creates a new active Category entity.
// Defaulting logic for color and icon is applied in the Application layer
// (UseCase) before calling this constructor.
func NewCategory(userID uuid.UUID, name string, categoryType CategoryType, color, icon string, isDefault bool, parentID *uuid.UUID) *Category {
	now := time.Now().UTC()

	return &Category{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      categoryType,
		Color:     color,
		Icon:      icon,
		IsDefault: isDefault,
		ParentID:  parentID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeCategoryName returns the canonical form of a category name used for
// sibling-uniqueness comparison: trimmed and lowercased.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryNode is a category annotated with its position in the tree, used by
// hierarchy views. Level is 0 for roots; Path lists ancestor names from the
// root down to the node itself.
type CategoryNode struct {
	Category *Category
	Level    int
	Path     []string
	Children []*CategoryNode
}

// CategoryTreeStats holds aggregate counts over one user's active forest.
type CategoryTreeStats struct {
	TotalActive            int
	ExpenseCount           int
	IncomeCount            int
	RootCount              int
	CategoriesWithChildren int
	AverageDepth           float64
}

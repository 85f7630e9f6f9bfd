// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
	"github.com/budgetree/backend/internal/integration/persistence/model"
)

// categoryColumns lists the category columns selected by the recursive
// queries, kept explicit so the depth tracking column never leaks out.
const categoryColumns = "id, user_id, name, type, color, icon, is_default, parent_id, is_active, created_at, updated_at"

// ancestorsQuery walks parent pointers upward from a category's parent,
// bounded by a depth parameter. Rows come back nearest-ancestor-first.
const ancestorsQuery = `
WITH RECURSIVE ancestors(id, user_id, name, type, color, icon, is_default, parent_id, is_active, created_at, updated_at, depth) AS (
	SELECT c.id, c.user_id, c.name, c.type, c.color, c.icon, c.is_default, c.parent_id, c.is_active, c.created_at, c.updated_at, 1
	FROM categories c
	WHERE c.id = (SELECT parent_id FROM categories WHERE id = ?)
	UNION ALL
	SELECT c.id, c.user_id, c.name, c.type, c.color, c.icon, c.is_default, c.parent_id, c.is_active, c.created_at, c.updated_at, a.depth + 1
	FROM categories c
	INNER JOIN ancestors a ON c.id = a.parent_id
	WHERE a.depth < ?
)
SELECT ` + categoryColumns + ` FROM ancestors ORDER BY depth ASC`

// descendantsQuery collects the active subtree below a category, bounded by a
// depth parameter. Rows come back shallowest-first.
const descendantsQuery = `
WITH RECURSIVE descendants(id, user_id, name, type, color, icon, is_default, parent_id, is_active, created_at, updated_at, depth) AS (
	SELECT c.id, c.user_id, c.name, c.type, c.color, c.icon, c.is_default, c.parent_id, c.is_active, c.created_at, c.updated_at, 1
	FROM categories c
	WHERE c.parent_id = ? AND c.is_active
	UNION ALL
	SELECT c.id, c.user_id, c.name, c.type, c.color, c.icon, c.is_default, c.parent_id, c.is_active, c.created_at, c.updated_at, d.depth + 1
	FROM categories c
	INNER JOIN descendants d ON c.parent_id = d.id
	WHERE c.is_active AND d.depth < ?
)
SELECT ` + categoryColumns + ` FROM descendants ORDER BY depth ASC`

// categoryRepository implements the adapter.CategoryRepository interface.
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance.
func NewCategoryRepository(db *gorm.DB) adapter.CategoryRepository {
	return &categoryRepository{
		db: db,
	}
}

// Create inserts a new category.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).Create(categoryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a category by its ID, active or not.
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var categoryModel model.CategoryModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindForest retrieves one user's flat category set ordered by name.
func (r *categoryRepository) FindForest(ctx context.Context, userID uuid.UUID, categoryType *entity.CategoryType, includeInactive bool) ([]*entity.Category, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if categoryType != nil {
		query = query.Where("type = ?", string(*categoryType))
	}
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categoryModels []model.CategoryModel
	result := query.Order("name ASC").Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(categoryModels), nil
}

// List retrieves a page of one user's categories ordered by name.
func (r *categoryRepository) List(ctx context.Context, userID uuid.UUID, filter adapter.CategoryFilter) ([]*entity.Category, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.CategoryModel{}).Where("user_id = ?", userID)

	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	switch {
	case filter.ParentID != nil:
		query = query.Where("parent_id = ?", *filter.ParentID)
	case filter.RootsOnly:
		query = query.Where("parent_id IS NULL")
	}
	if filter.Search != "" {
		query = query.Where("normalized_name LIKE ?", "%"+entity.NormalizeCategoryName(filter.Search)+"%")
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var categoryModels []model.CategoryModel
	result := query.
		Order("name ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&categoryModels)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return toEntities(categoryModels), total, nil
}

// FindChildren retrieves the direct children of a parent ordered by name.
func (r *categoryRepository) FindChildren(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, includeInactive bool) ([]*entity.Category, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categoryModels []model.CategoryModel
	result := query.Order("name ASC").Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(categoryModels), nil
}

// CountActiveChildren counts a category's active direct children.
func (r *categoryRepository) CountActiveChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("parent_id = ? AND is_active = ?", id, true).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// ExistsActiveSibling checks sibling uniqueness against the stored normalized
// name. The column is written by the Go normalizer, so the comparison does not
// depend on the database's case folding (SQLite's LOWER is ASCII-only and
// Postgres folding is locale-dependent).
func (r *categoryRepository) ExistsActiveSibling(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, normalizedName string, excludeID uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Where("normalized_name = ?", normalizedName)

	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAncestors walks parent pointers upward via one bounded recursive query.
func (r *categoryRepository) FindAncestors(ctx context.Context, id uuid.UUID, maxDepth int) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	result := r.db.WithContext(ctx).Raw(ancestorsQuery, id, maxDepth).Scan(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(categoryModels), nil
}

// FindDescendants collects the active subtree via one bounded recursive query.
func (r *categoryRepository) FindDescendants(ctx context.Context, id uuid.UUID, maxDepth int) ([]*entity.Category, error) {
	var categoryModels []model.CategoryModel
	result := r.db.WithContext(ctx).Raw(descendantsQuery, id, maxDepth).Scan(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toEntities(categoryModels), nil
}

// Update persists all fields of an existing category.
func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	categoryModel := model.CategoryFromEntity(category)
	result := r.db.WithContext(ctx).Save(categoryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Deactivate flips a category to inactive. Re-deactivating is a no-op.
func (r *categoryRepository) Deactivate(ctx context.Context, id uuid.UUID, when time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.CategoryModel{}).
		Where("id = ? AND is_active = ?", id, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": when,
		})
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// toEntities converts category models to domain entities.
func toEntities(categoryModels []model.CategoryModel) []*entity.Category {
	categories := make([]*entity.Category, len(categoryModels))
	for i, cm := range categoryModels {
		categories[i] = cm.ToEntity()
	}
	return categories
}

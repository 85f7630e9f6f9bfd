// Package category contains category-related use cases.
package category

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

// memoryCategoryRepository is an in-memory CategoryRepository used by the
// use-case tests. It mirrors the storage contract faithfully, including name
// ordering, nearest-first ancestor walks and active-only descendant walks.
type memoryCategoryRepository struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*entity.Category
}

func newMemoryCategoryRepository() *memoryCategoryRepository {
	return &memoryCategoryRepository{
		categories: make(map[uuid.UUID]*entity.Category),
	}
}

// seed stores a copy of the category, bypassing any validation.
func (r *memoryCategoryRepository) seed(cat *entity.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cat
	r.categories[cat.ID] = &clone
}

func (r *memoryCategoryRepository) Create(_ context.Context, cat *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *cat
	r.categories[cat.ID] = &clone
	return nil
}

func (r *memoryCategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, ok := r.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	clone := *cat
	return &clone, nil
}

func (r *memoryCategoryRepository) FindForest(_ context.Context, userID uuid.UUID, categoryType *entity.CategoryType, includeInactive bool) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Category
	for _, cat := range r.categories {
		if cat.UserID != userID {
			continue
		}
		if !includeInactive && !cat.IsActive {
			continue
		}
		if categoryType != nil && cat.Type != *categoryType {
			continue
		}
		clone := *cat
		result = append(result, &clone)
	}
	sortByName(result)
	return result, nil
}

func (r *memoryCategoryRepository) List(_ context.Context, userID uuid.UUID, filter adapter.CategoryFilter) ([]*entity.Category, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*entity.Category
	for _, cat := range r.categories {
		if cat.UserID != userID {
			continue
		}
		if !filter.IncludeInactive && !cat.IsActive {
			continue
		}
		if filter.Type != nil && cat.Type != *filter.Type {
			continue
		}
		if filter.ParentID != nil {
			if cat.ParentID == nil || *cat.ParentID != *filter.ParentID {
				continue
			}
		} else if filter.RootsOnly && cat.ParentID != nil {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(cat.Name), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *cat
		matches = append(matches, &clone)
	}
	sortByName(matches)

	total := int64(len(matches))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matches) {
		return nil, total, nil
	}
	end := offset + filter.Limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], total, nil
}

func (r *memoryCategoryRepository) FindChildren(_ context.Context, userID uuid.UUID, parentID *uuid.UUID, includeInactive bool) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Category
	for _, cat := range r.categories {
		if cat.UserID != userID {
			continue
		}
		if !includeInactive && !cat.IsActive {
			continue
		}
		if parentID == nil {
			if cat.ParentID != nil {
				continue
			}
		} else if cat.ParentID == nil || *cat.ParentID != *parentID {
			continue
		}
		clone := *cat
		result = append(result, &clone)
	}
	sortByName(result)
	return result, nil
}

func (r *memoryCategoryRepository) CountActiveChildren(_ context.Context, id uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, cat := range r.categories {
		if cat.IsActive && cat.ParentID != nil && *cat.ParentID == id {
			count++
		}
	}
	return count, nil
}

func (r *memoryCategoryRepository) ExistsActiveSibling(_ context.Context, userID uuid.UUID, parentID *uuid.UUID, normalizedName string, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cat := range r.categories {
		if cat.UserID != userID || !cat.IsActive || cat.ID == excludeID {
			continue
		}
		if parentID == nil {
			if cat.ParentID != nil {
				continue
			}
		} else if cat.ParentID == nil || *cat.ParentID != *parentID {
			continue
		}
		if entity.NormalizeCategoryName(cat.Name) == normalizedName {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryCategoryRepository) FindAncestors(_ context.Context, id uuid.UUID, maxDepth int) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ancestors []*entity.Category
	current, ok := r.categories[id]
	if !ok {
		return nil, nil
	}
	for current.ParentID != nil && len(ancestors) < maxDepth {
		parent, ok := r.categories[*current.ParentID]
		if !ok {
			break
		}
		clone := *parent
		ancestors = append(ancestors, &clone)
		current = parent
	}
	return ancestors, nil
}

func (r *memoryCategoryRepository) FindDescendants(_ context.Context, id uuid.UUID, maxDepth int) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*entity.Category
	frontier := []uuid.UUID{id}
	for level := 0; level < maxDepth && len(frontier) > 0; level++ {
		var next []uuid.UUID
		for _, parentID := range frontier {
			for _, cat := range r.categories {
				if !cat.IsActive || cat.ParentID == nil || *cat.ParentID != parentID {
					continue
				}
				clone := *cat
				result = append(result, &clone)
				next = append(next, cat.ID)
			}
		}
		frontier = next
	}
	return result, nil
}

func (r *memoryCategoryRepository) Update(_ context.Context, cat *entity.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[cat.ID]; !ok {
		return domainerror.ErrCategoryNotFound
	}
	clone := *cat
	r.categories[cat.ID] = &clone
	return nil
}

func (r *memoryCategoryRepository) Deactivate(_ context.Context, id uuid.UUID, when time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cat, ok := r.categories[id]
	if !ok || !cat.IsActive {
		return nil
	}
	cat.IsActive = false
	cat.UpdatedAt = when
	return nil
}

func sortByName(categories []*entity.Category) {
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
}

// memoryTransactionRepository is a usage-oracle stub: it only tracks which
// categories are referenced by active transactions.
type memoryTransactionRepository struct {
	mu         sync.Mutex
	referenced map[uuid.UUID]bool
}

func newMemoryTransactionRepository() *memoryTransactionRepository {
	return &memoryTransactionRepository{
		referenced: make(map[uuid.UUID]bool),
	}
}

func (r *memoryTransactionRepository) reference(categoryID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.referenced[categoryID] = true
}

func (r *memoryTransactionRepository) Create(_ context.Context, txn *entity.Transaction) error {
	if txn.CategoryID != nil {
		r.reference(*txn.CategoryID)
	}
	return nil
}

func (r *memoryTransactionRepository) FindByUser(_ context.Context, _ uuid.UUID, _ adapter.TransactionFilter) ([]*entity.Transaction, int64, error) {
	return nil, 0, nil
}

func (r *memoryTransactionRepository) ExistsActiveByCategory(_ context.Context, categoryID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.referenced[categoryID], nil
}

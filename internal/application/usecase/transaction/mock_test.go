// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

// stubCategoryRepository backs the ledger tests with just enough of the
// category storage contract: FindByID over a seeded map. The tree queries are
// never reached from this package.
type stubCategoryRepository struct {
	categories map[uuid.UUID]*entity.Category
}

func newStubCategoryRepository() *stubCategoryRepository {
	return &stubCategoryRepository{categories: make(map[uuid.UUID]*entity.Category)}
}

func (r *stubCategoryRepository) seed(cat *entity.Category) {
	r.categories[cat.ID] = cat
}

func (r *stubCategoryRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	cat, ok := r.categories[id]
	if !ok {
		return nil, domainerror.ErrCategoryNotFound
	}
	return cat, nil
}

func (r *stubCategoryRepository) Create(context.Context, *entity.Category) error { return nil }

func (r *stubCategoryRepository) FindForest(context.Context, uuid.UUID, *entity.CategoryType, bool) ([]*entity.Category, error) {
	return nil, nil
}

func (r *stubCategoryRepository) List(context.Context, uuid.UUID, adapter.CategoryFilter) ([]*entity.Category, int64, error) {
	return nil, 0, nil
}

func (r *stubCategoryRepository) FindChildren(context.Context, uuid.UUID, *uuid.UUID, bool) ([]*entity.Category, error) {
	return nil, nil
}

func (r *stubCategoryRepository) CountActiveChildren(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *stubCategoryRepository) ExistsActiveSibling(context.Context, uuid.UUID, *uuid.UUID, string, uuid.UUID) (bool, error) {
	return false, nil
}

func (r *stubCategoryRepository) FindAncestors(context.Context, uuid.UUID, int) ([]*entity.Category, error) {
	return nil, nil
}

func (r *stubCategoryRepository) FindDescendants(context.Context, uuid.UUID, int) ([]*entity.Category, error) {
	return nil, nil
}

func (r *stubCategoryRepository) Update(context.Context, *entity.Category) error { return nil }

func (r *stubCategoryRepository) Deactivate(context.Context, uuid.UUID, time.Time) error { return nil }

// memoryTransactionRepository is an in-memory TransactionRepository.
type memoryTransactionRepository struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*entity.Transaction
}

func newMemoryTransactionRepository() *memoryTransactionRepository {
	return &memoryTransactionRepository{transactions: make(map[uuid.UUID]*entity.Transaction)}
}

func (r *memoryTransactionRepository) Create(_ context.Context, txn *entity.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *txn
	r.transactions[txn.ID] = &clone
	return nil
}

func (r *memoryTransactionRepository) FindByUser(_ context.Context, userID uuid.UUID, filter adapter.TransactionFilter) ([]*entity.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*entity.Transaction
	for _, txn := range r.transactions {
		if txn.UserID != userID || txn.DeletedAt != nil {
			continue
		}
		if filter.StartDate != nil && txn.Date.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && txn.Date.After(*filter.EndDate) {
			continue
		}
		if filter.Type != nil && txn.Type != *filter.Type {
			continue
		}
		if len(filter.CategoryIDs) > 0 {
			if txn.CategoryID == nil || !containsID(filter.CategoryIDs, *txn.CategoryID) {
				continue
			}
		}
		clone := *txn
		matches = append(matches, &clone)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Date.After(matches[j].Date)
	})

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

func (r *memoryTransactionRepository) ExistsActiveByCategory(_ context.Context, categoryID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, txn := range r.transactions {
		if txn.DeletedAt == nil && txn.CategoryID != nil && *txn.CategoryID == categoryID {
			return true, nil
		}
	}
	return false, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

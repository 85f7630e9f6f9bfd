// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/budgetree/backend/internal/domain/entity"
)

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	CategoryIDs []uuid.UUID
	Type        *entity.TransactionType
	Page        int
	Limit       int
}

// TransactionRepository defines the interface for transaction persistence
// operations. It doubles as the usage oracle for the category tree:
// ExistsActiveByCategory answers whether a category is still referenced.
type TransactionRepository interface {
	// Create inserts a new transaction.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByUser retrieves a page of one user's transactions ordered by date
	// descending, together with the total match count.
	FindByUser(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]*entity.Transaction, int64, error)

	// ExistsActiveByCategory checks whether any active transaction references
	// the given category.
	ExistsActiveByCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)
}

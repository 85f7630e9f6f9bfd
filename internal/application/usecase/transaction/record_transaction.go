// Package transaction contains transaction-related use cases.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetree/backend/internal/application/adapter"
	"github.com/budgetree/backend/internal/domain/entity"
	domainerror "github.com/budgetree/backend/internal/domain/error"
)

// RecordTransactionInput represents the input for recording a transaction.
type RecordTransactionInput struct {
	UserID      uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        entity.TransactionType
	CategoryID  *uuid.UUID
	Notes       string
}

// RecordTransactionOutput represents the output of recording a transaction.
type RecordTransactionOutput struct {
	Transaction *entity.Transaction
}

// RecordTransactionUseCase handles transaction recording. The ledger side owns
// the rule that a transaction's type must match its category's type; the
// category tree only guarantees type consistency within itself.
type RecordTransactionUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
}

// NewRecordTransactionUseCase creates a new RecordTransactionUseCase instance.
func NewRecordTransactionUseCase(transactionRepo adapter.TransactionRepository, categoryRepo adapter.CategoryRepository) *RecordTransactionUseCase {
	return &RecordTransactionUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// Execute records a new transaction.
func (uc *RecordTransactionUseCase) Execute(ctx context.Context, input RecordTransactionInput) (*RecordTransactionOutput, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionDescriptionRequired,
			"transaction description is required",
			domainerror.ErrTransactionDescriptionRequired,
		)
	}
	if input.Amount.IsZero() {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionAmount,
			"transaction amount must not be zero",
			domainerror.ErrInvalidTransactionAmount,
		)
	}
	if input.Type != entity.TransactionTypeExpense && input.Type != entity.TransactionTypeIncome {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeInvalidTransactionType,
			"transaction type must be 'expense' or 'income'",
			domainerror.ErrInvalidTransactionType,
		)
	}

	if input.CategoryID != nil {
		if err := uc.checkCategory(ctx, input.UserID, *input.CategoryID, input.Type); err != nil {
			return nil, err
		}
	}

	newTransaction := entity.NewTransaction(
		input.UserID,
		input.Date,
		description,
		input.Amount,
		input.Type,
		input.CategoryID,
		input.Notes,
	)

	if err := uc.transactionRepo.Create(ctx, newTransaction); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return &RecordTransactionOutput{
		Transaction: newTransaction,
	}, nil
}

// checkCategory requires the category to exist, belong to the user, be active
// and carry the type matching the transaction.
func (uc *RecordTransactionUseCase) checkCategory(ctx context.Context, userID, categoryID uuid.UUID, transactionType entity.TransactionType) error {
	cat, err := uc.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return categoryInvalidError()
		}
		return fmt.Errorf("failed to resolve category: %w", err)
	}
	if cat.UserID != userID || !cat.IsActive {
		return categoryInvalidError()
	}
	if cat.Type != transactionType.CategoryTypeFor() {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionCategoryMismatch,
			fmt.Sprintf("a %s transaction cannot be classified under a %s category", transactionType, cat.Type),
			domainerror.ErrTransactionCategoryMismatch,
		)
	}
	return nil
}

// categoryInvalidError builds the canonical invalid-category rejection.
func categoryInvalidError() error {
	return domainerror.NewTransactionError(
		domainerror.ErrCodeTransactionCategoryInvalid,
		"category does not exist or is not available",
		domainerror.ErrTransactionCategoryInvalid,
	)
}

// Package error defines domain-specific errors for the BudgeTree application.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidTransactionAmount is returned when the transaction amount is zero or malformed.
	ErrInvalidTransactionAmount = errors.New("invalid transaction amount")

	// ErrInvalidTransactionType is returned when the transaction type is invalid.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrTransactionDescriptionRequired is returned when the description is empty.
	ErrTransactionDescriptionRequired = errors.New("transaction description is required")

	// ErrTransactionCategoryMismatch is returned when the transaction type does not
	// match the category type it is being classified under.
	ErrTransactionCategoryMismatch = errors.New("transaction type does not match category type")

	// ErrTransactionCategoryInvalid is returned when the category is missing,
	// inactive or belongs to another user.
	ErrTransactionCategoryInvalid = errors.New("invalid transaction category")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	ErrCodeInvalidTransactionAmount       TransactionErrorCode = "TXN-010001"
	ErrCodeInvalidTransactionType         TransactionErrorCode = "TXN-010002"
	ErrCodeTransactionDescriptionRequired TransactionErrorCode = "TXN-010003"
	ErrCodeTransactionNotFound            TransactionErrorCode = "TXN-020001"
	ErrCodeTransactionCategoryInvalid     TransactionErrorCode = "TXN-030001"
	ErrCodeTransactionCategoryMismatch    TransactionErrorCode = "TXN-030002"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

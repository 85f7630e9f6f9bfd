// Package error defines domain-specific errors for the BudgeTree application.
package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found in the system.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameExists is returned when an active sibling already carries the same name.
	ErrCategoryNameExists = errors.New("category name already exists under this parent")

	// ErrCategoryNameInvalid is returned when the category name is empty or exceeds the maximum length.
	ErrCategoryNameInvalid = errors.New("invalid category name")

	// ErrInvalidColorFormat is returned when the category color format is invalid.
	ErrInvalidColorFormat = errors.New("invalid color format")

	// ErrIconTooLong is returned when the category icon exceeds the maximum length.
	ErrIconTooLong = errors.New("category icon too long")

	// ErrInvalidCategoryType is returned when the category type is invalid.
	ErrInvalidCategoryType = errors.New("invalid category type")

	// ErrNotAuthorizedToModifyCategory is returned when user is not authorized to modify a category.
	ErrNotAuthorizedToModifyCategory = errors.New("not authorized to modify category")

	// ErrInvalidParent is returned when the requested parent is missing, inactive
	// or belongs to another user.
	ErrInvalidParent = errors.New("invalid parent category")

	// ErrCategoryTypeConflict is returned when a category's type disagrees with its parent's type.
	ErrCategoryTypeConflict = errors.New("category type conflicts with parent type")

	// ErrCircularReference is returned when a move would make a category its own ancestor.
	ErrCircularReference = errors.New("circular category reference")

	// ErrMaxDepthExceeded is returned when an operation would push a category past the depth ceiling.
	ErrMaxDepthExceeded = errors.New("maximum category depth exceeded")

	// ErrCategoryHasChildren is returned when a non-cascade delete hits active children.
	ErrCategoryHasChildren = errors.New("category has active children")

	// ErrCategoryInUse is returned when a category is referenced by active transactions.
	ErrCategoryInUse = errors.New("category is in use")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameInvalid   CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidColorFormat    CategoryErrorCode = "CAT-010002"
	ErrCodeIconTooLong           CategoryErrorCode = "CAT-010003"
	ErrCodeInvalidCategoryType   CategoryErrorCode = "CAT-010004"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010005"

	// Resolution errors (02XXXX)
	ErrCodeCategoryNotFound      CategoryErrorCode = "CAT-020001"
	ErrCodeNotAuthorizedCategory CategoryErrorCode = "CAT-020002"
	ErrCodeInvalidParent         CategoryErrorCode = "CAT-020003"

	// Tree invariant errors (03XXXX)
	ErrCodeCategoryNameExists CategoryErrorCode = "CAT-030001"
	ErrCodeTypeConflict       CategoryErrorCode = "CAT-030002"
	ErrCodeCircularReference  CategoryErrorCode = "CAT-030003"
	ErrCodeMaxDepthExceeded   CategoryErrorCode = "CAT-030004"

	// Deletion errors (04XXXX)
	ErrCodeCategoryHasChildren CategoryErrorCode = "CAT-040001"
	ErrCodeCategoryInUse       CategoryErrorCode = "CAT-040002"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

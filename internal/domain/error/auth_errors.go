// Package error defines domain-specific errors for the BudgeTree application.
package error

import "errors"

// Authentication errors. Identity resolution itself lives outside this
// service; these cover validation of the identity assertion it hands us.
var (
	// ErrInvalidToken is returned when an access token fails validation.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when an access token has expired.
	ErrExpiredToken = errors.New("expired token")
)

// AuthErrorCode defines error codes for authentication errors.
type AuthErrorCode string

const (
	ErrCodeMissingToken AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidToken AuthErrorCode = "AUTH-010002"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-010003"
	ErrCodeRateLimited  AuthErrorCode = "AUTH-010004"
)

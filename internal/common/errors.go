// Package common defines shared constants and sentinel errors used across
// the FoodDiary server layers. Callers should use errors.Is to match these
// values; wrapped variants carry a human readable detail after a colon.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Validation errors raised by domain constructors and setters.
	ErrorValidation = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Account state errors.
	ErrEmailNotConfirmed = errors.New("email not confirmed")
	ErrUserBlocked       = errors.New("user blocked")

	// Resource usage errors.
	ErrAssetInUse    = errors.New("asset in use")
	ErrQuotaExceeded = errors.New("ai quota exceeded")

	// External collaborators.
	ErrAIKeyNotConfigured = errors.New("OpenAI API key not configured")
	ErrExternalService    = errors.New("external service error")
)

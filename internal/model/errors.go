package model

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel conditions surfaced by the auth state machine and media gateway.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("not authenticated")
	ErrNoPendingLogin    = errors.New("no pending login")
	ErrCodeInvalid       = errors.New("verification code invalid or expired")
	ErrTwoFactorRequired = errors.New("two-factor authentication required")
	ErrSessionRevoked    = errors.New("session revoked")
	ErrConnectionFailed  = errors.New("connection to provider failed")
	ErrUploadFailed      = errors.New("upload rejected by provider")
)

// ValidationError represents bad caller input. It maps to HTTP 400 and is
// never logged at error level.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// IsValidationError checks if an error is a validation error (including wrapped errors)
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// ConfigurationError represents missing or invalid server-side provider
// credentials. Operator-actionable, maps to HTTP 500.
type ConfigurationError struct {
	Message string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// NewConfigurationError constructs ConfigurationError
func NewConfigurationError(message string) ConfigurationError {
	return ConfigurationError{Message: message}
}

// IsConfigurationError checks if error is ConfigurationError
func IsConfigurationError(err error) bool {
	var ce ConfigurationError
	return errors.As(err, &ce)
}

// RateLimitError carries the provider-specified wait before the caller may
// retry. The core never retries on its own.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.RetryAfter)
}

// NewRateLimitError constructs RateLimitError from provider-specified seconds.
func NewRateLimitError(seconds int) RateLimitError {
	return RateLimitError{RetryAfter: time.Duration(seconds) * time.Second}
}

// AsRateLimitError extracts a RateLimitError if err carries one.
func AsRateLimitError(err error) (RateLimitError, bool) {
	var re RateLimitError
	ok := errors.As(err, &re)
	return re, ok
}

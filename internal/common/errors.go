// Package common provides shared utilities and types used across the application.
package common

import "errors"

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Registry errors.
	ErrInvalidPattern = errors.New("invalid bank pattern")

	// Categorization errors.
	ErrNoDefaultCategory = errors.New("no default category configured")
	ErrCategoryCycle     = errors.New("category hierarchy must not contain cycles")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

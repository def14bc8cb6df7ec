package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPostNotFound     = fmt.Errorf("post %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)

	ErrUnauthenticated    = errors.New("authentication credentials were not provided")
	ErrInvalidCredentials = fmt.Errorf("no active account found with the given credentials: %w", ErrUnauthenticated)
	ErrForbidden          = errors.New("you do not have permission to perform this action")

	ErrConflict      = errors.New("conflict")
	ErrVoteConflict  = fmt.Errorf("vote could not be applied, concurrent update: %w", ErrConflict)
	ErrCategoryInUse = fmt.Errorf("category is still referenced by posts: %w", ErrConflict)
	ErrUsernameTaken = fmt.Errorf("a user with that username already exists: %w", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("a user with that email already exists: %w", ErrConflict)

	ErrUnavailable = errors.New("service is not configured")
)

// ValidationError names the request field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Package store holds identity records and guarantees that no two records
// share an email or a username, compared case-insensitively.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/isdelr/pokermaster-be/internal/models"
)

// Store is the identity persistence boundary.
//
// Create is an atomic insert-if-absent keyed by the normalized email and
// username: two concurrent calls for the same key never both succeed.
type Store interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// ErrNotFound is returned when no identity matches a lookup.
var ErrNotFound = errors.New("identity not found")

// ErrConflict is the kind shared by all uniqueness violations.
var ErrConflict = errors.New("identity already exists")

// ConflictError reports which uniqueness key was already taken.
type ConflictError struct {
	Field string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%v: %s", ErrConflict, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrConflict }

var (
	ErrEmailTaken    = ConflictError{Field: "email"}
	ErrUsernameTaken = ConflictError{Field: "username"}
)

// NormalizeEmail canonicalizes an email for uniqueness comparisons.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeUsername canonicalizes a username for uniqueness comparisons.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func exists(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}

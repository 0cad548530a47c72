package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/pokermaster-be/internal/models"
)

const userColumns = "id, username, email, password_hash, created_at, updated_at"

// SQLiteStore persists identities in SQLite. Uniqueness is enforced by
// UNIQUE indexes on the normalized columns; writes are serialized.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteStore wraps an open, migrated database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create inserts a new identity unless its email or username is taken.
func (s *SQLiteStore) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	emailKey := NormalizeEmail(email)
	usernameKey := NormalizeUsername(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	taken, err := rowExists(ctx, tx, "SELECT 1 FROM users WHERE email_norm = ?", emailKey)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}
	taken, err = rowExists(ctx, tx, "SELECT 1 FROM users WHERE username_norm = ?", usernameKey)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, ErrUsernameTaken
	}

	now := s.now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users(id, username, username_norm, email, email_norm, password_hash, created_at, updated_at) VALUES(?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Username, usernameKey, user.Email, emailKey, user.PasswordHash,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return models.User{}, constraintError(err)
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, constraintError(err)
	}
	return user, nil
}

// constraintError maps a UNIQUE violation raised by another writer sharing
// the database file onto the matching conflict.
func constraintError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "users.email_norm"):
		return ErrEmailTaken
	case strings.Contains(msg, "users.username_norm"):
		return ErrUsernameTaken
	}
	return fmt.Errorf("insert user: %w", err)
}

func rowExists(ctx context.Context, tx *sql.Tx, query string, arg string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FindByID looks up an identity by exact id.
func (s *SQLiteStore) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

// FindByEmail looks up an identity by email, ignoring case.
func (s *SQLiteStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE email_norm = ?", NormalizeEmail(email))
}

// FindByUsername looks up an identity by username, ignoring case.
func (s *SQLiteStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.findOne(ctx, "SELECT "+userColumns+" FROM users WHERE username_norm = ?", NormalizeUsername(username))
}

func (s *SQLiteStore) findOne(ctx context.Context, query, arg string) (models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		user               models.User
		created, updated string
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &created, &updated); err != nil {
		return models.User{}, err
	}
	var err error
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return models.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return models.User{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return user, nil
}

// ExistsByEmail reports whether an identity uses email.
func (s *SQLiteStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return exists(err)
}

// ExistsByUsername reports whether an identity uses username.
func (s *SQLiteStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	return exists(err)
}

// Count returns the number of stored identities.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/pokermaster-be/internal/models"
)

// MemoryStore keeps identities in process memory for the lifetime of the
// process. Reads share a read lock; Create holds the write lock across the
// uniqueness check and the insert.
type MemoryStore struct {
	mu         sync.RWMutex
	users      []models.User
	byID       map[string]int
	byEmail    map[string]int
	byUsername map[string]int
	now        func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]int),
		byEmail:    make(map[string]int),
		byUsername: make(map[string]int),
		now:        time.Now,
	}
}

// Close is a noop for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// Create inserts a new identity unless its email or username is taken.
// Email is checked before username.
func (s *MemoryStore) Create(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	emailKey := NormalizeEmail(email)
	usernameKey := NormalizeUsername(username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[emailKey]; ok {
		return models.User{}, ErrEmailTaken
	}
	if _, ok := s.byUsername[usernameKey]; ok {
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

	idx := len(s.users)
	s.users = append(s.users, user)
	s.byID[user.ID] = idx
	s.byEmail[emailKey] = idx
	s.byUsername[usernameKey] = idx

	return user, nil
}

// FindByID looks up an identity by exact id.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.find(ctx, s.byID, id)
}

// FindByEmail looks up an identity by email, ignoring case.
func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return s.find(ctx, s.byEmail, NormalizeEmail(email))
}

// FindByUsername looks up an identity by username, ignoring case.
func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (models.User, error) {
	return s.find(ctx, s.byUsername, NormalizeUsername(username))
}

func (s *MemoryStore) find(ctx context.Context, index map[string]int, key string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := index[key]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return s.users[idx], nil
}

// ExistsByEmail reports whether an identity uses email.
func (s *MemoryStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return exists(err)
}

// ExistsByUsername reports whether an identity uses username.
func (s *MemoryStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.FindByUsername(ctx, username)
	return exists(err)
}

// Count returns the number of stored identities.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

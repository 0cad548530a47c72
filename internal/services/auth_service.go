package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/pokermaster-be/internal/auth"
	"github.com/isdelr/pokermaster-be/internal/models"
	"github.com/isdelr/pokermaster-be/internal/store"
	"github.com/isdelr/pokermaster-be/internal/validation"
)

// AuthServiceProvider defines the interface for the authentication use cases.
type AuthServiceProvider interface {
	Register(ctx context.Context, username, email, password string) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	CurrentUser(ctx context.Context) (models.UserSummary, error)
	Logout(ctx context.Context) error
}

// TokenIssuer creates session tokens and reports when they expire.
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// AuthResult is returned by successful register and login calls.
type AuthResult struct {
	User      models.UserSummary
	Token     string
	ExpiresAt time.Time
}

// AuthService composes validation, hashing, the identity store and token
// issuance into the register, login, current-user and logout flows.
type AuthService struct {
	users     store.Store
	hasher    auth.PasswordHasher
	tokens    TokenIssuer
	dummyHash string
}

// NewAuthService creates a new AuthService. It fails when the hasher cannot
// produce the dummy hash used to equalize login timing.
func NewAuthService(users store.Store, hasher auth.PasswordHasher, tokens TokenIssuer) (*AuthService, error) {
	// Verified against when an email is unknown so both login failures cost
	// one hash comparison.
	dummy, err := hasher.Hash("pokermaster-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("compute dummy hash: %w", err)
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

// Register validates input, claims the email and username, stores the
// hashed credential and issues a token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (AuthResult, error) {
	if res := validation.ValidateRegistration(username, email, password); !res.Valid {
		return AuthResult{}, validationError(res.Errors)
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, internal(fmt.Errorf("check email: %w", err))
	}
	if taken {
		return AuthResult{}, emailTaken()
	}

	taken, err = s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return AuthResult{}, internal(fmt.Errorf("check username: %w", err))
	}
	if taken {
		return AuthResult{}, usernameTaken()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, internal(fmt.Errorf("hash password: %w", err))
	}

	// The store re-checks both keys atomically; a concurrent registration
	// that won the race surfaces here as a conflict.
	user, err := s.users.Create(ctx, username, email, hash)
	switch {
	case errors.Is(err, store.ErrEmailTaken):
		return AuthResult{}, emailTaken()
	case errors.Is(err, store.ErrUsernameTaken):
		return AuthResult{}, usernameTaken()
	case err != nil:
		return AuthResult{}, internal(fmt.Errorf("create user: %w", err))
	}

	return s.issue(user)
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if res := validation.ValidateLogin(email, password); !res.Valid {
		return AuthResult{}, validationError(res.Errors)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return AuthResult{}, invalidCredentials()
		}
		return AuthResult{}, internal(fmt.Errorf("find user: %w", err))
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return AuthResult{}, invalidCredentials()
	}

	return s.issue(user)
}

// CurrentUser resolves the identity named by the claims the gating
// middleware attached to ctx.
func (s *AuthService) CurrentUser(ctx context.Context) (models.UserSummary, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok || claims.UserID == "" {
		return models.UserSummary{}, unauthenticated()
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.UserSummary{}, &Error{Kind: ErrNotFound, Message: MsgUserNotFound}
		}
		return models.UserSummary{}, internal(fmt.Errorf("find user: %w", err))
	}
	return user.Summary(), nil
}

// Logout acknowledges a logout. Tokens are self-contained, so nothing is
// revoked server-side; the client discards its token.
func (s *AuthService) Logout(ctx context.Context) error {
	if _, ok := auth.ClaimsFromContext(ctx); !ok {
		return unauthenticated()
	}
	return nil
}

func (s *AuthService) issue(user models.User) (AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return AuthResult{}, internal(fmt.Errorf("issue token: %w", err))
	}
	return AuthResult{
		User:      user.Summary(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

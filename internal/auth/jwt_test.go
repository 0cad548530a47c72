package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/pokermaster-be/internal/auth"
)

func newTokens(t *testing.T, secret string, now func() time.Time) *auth.TokenService {
	t.Helper()
	opts := []auth.TokenOption{}
	if now != nil {
		opts = append(opts, auth.WithClock(now))
	}
	svc, err := auth.NewTokenService(secret, auth.DefaultTokenTTL, opts...)
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokenService("  ", time.Hour)
	assert.ErrorIs(t, err, auth.ErrEmptySecret)

	svc, err := auth.NewTokenService("s", 0)
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultTokenTTL, svc.TTL())
}

func TestTokenService_RoundTrip(t *testing.T) {
	issuedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newTokens(t, "super-secret", func() time.Time { return issuedAt })

	tok, expiresAt, err := svc.Issue("user-123", "alice@test.com")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(24*time.Hour), expiresAt)

	claims, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "alice@test.com", claims.Email)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issuedAt.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.True(t, expiresAt.Equal(claims.ExpiresAt.Time))
}

func TestTokenService_Expired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	svc := newTokens(t, "secret", clock)

	tok, _, err := svc.Issue("u1", "u1@test.com")
	require.NoError(t, err)

	now = now.Add(24*time.Hour + time.Second)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenService_StillValidJustBeforeExpiry(t *testing.T) {
	now := time.Now()
	svc := newTokens(t, "secret", func() time.Time { return now })

	tok, _, err := svc.Issue("u1", "u1@test.com")
	require.NoError(t, err)

	now = now.Add(23 * time.Hour)
	_, err = svc.Verify(tok)
	assert.NoError(t, err)
}

func TestTokenService_WrongSecret(t *testing.T) {
	tok, _, err := newTokens(t, "right-secret", nil).Issue("u2", "u2@test.com")
	require.NoError(t, err)

	_, err = newTokens(t, "wrong-secret", nil).Verify(tok)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenService_Tampered(t *testing.T) {
	svc := newTokens(t, "secret", nil)
	tok, _, err := svc.Issue("u3", "u3@test.com")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	other, _, err := svc.Issue("someone-else", "x@test.com")
	require.NoError(t, err)
	parts[1] = strings.Split(other, ".")[1]

	_, err = svc.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := newTokens(t, "k", nil)

	for _, in := range []string{"not.a.jwt", "garbage", "a.b", "...."} {
		_, err := svc.Verify(in)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid, in)
	}

	_, err := svc.Verify("")
	assert.ErrorIs(t, err, auth.ErrTokenMissing)
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := auth.BearerToken(tc.header)
		assert.Equal(t, tc.ok, ok, tc.header)
		assert.Equal(t, tc.want, got, tc.header)
	}
}

func TestTokenFromRequest(t *testing.T) {
	t.Run("header wins over cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer from-header")
		r.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: "from-cookie"})

		got, err := auth.TokenFromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "from-header", got)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: auth.TokenCookieName, Value: "from-cookie"})

		got, err := auth.TokenFromRequest(r)
		require.NoError(t, err)
		assert.Equal(t, "from-cookie", got)
	})

	t.Run("missing", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := auth.TokenFromRequest(r)
		assert.ErrorIs(t, err, auth.ErrTokenMissing)
	})
}

func TestClaimsContext(t *testing.T) {
	_, ok := auth.ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.WithClaims(context.Background(), &auth.Claims{UserID: "u"})
	claims, ok := auth.ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u", claims.UserID)
}

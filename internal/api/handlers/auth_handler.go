package handlers

import (
	"net/http"
	"time"

	"github.com/isdelr/pokermaster-be/internal/auth"
	"github.com/isdelr/pokermaster-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles HTTP requests for registration and sessions.
type AuthHandler struct {
	service       services.AuthServiceProvider
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies should be true
// when served over HTTPS.
func NewAuthHandler(service services.AuthServiceProvider, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: service, secureCookies: secureCookies}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		WriteServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", result.User.ID).Msg("User registered")
	h.setTokenCookie(w, result.Token, result.ExpiresAt)
	WriteJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "Account created successfully",
		User:    &result.User,
		Token:   result.Token,
	})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		WriteFailure(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", payload.Email).Msg("Failed authentication attempt")
		WriteServiceError(w, r, err)
		return
	}

	h.setTokenCookie(w, result.Token, result.ExpiresAt)
	WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "Login successful",
		User:    &result.User,
		Token:   result.Token,
	})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		WriteServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, Envelope{
		Success: true,
		Message: "User information retrieved",
		User:    &user,
	})
}

// Logout acknowledges a logout and clears the session cookie. The token
// itself stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context()); err != nil {
		WriteServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Message: "Logged out successfully"})
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookieName,
		Value:    token,
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

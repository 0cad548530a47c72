package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/pokermaster-be/internal/models"
	"github.com/isdelr/pokermaster-be/internal/services"
	"github.com/isdelr/pokermaster-be/internal/validation"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Envelope is the response body shared by every auth endpoint.
type Envelope struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	User    *models.UserSummary     `json:"user,omitempty"`
	Token   string                  `json:"token,omitempty"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteFailure writes an unsuccessful envelope.
func WriteFailure(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Envelope{Success: false, Message: message})
}

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError renders a service failure. Internal failures are logged
// and reported with an opaque message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	se := services.AsError(err)
	status := StatusFor(se)
	if status == http.StatusInternalServerError {
		log.Error().Err(se.Cause()).Str("path", r.URL.Path).Msg("Internal error while handling request")
		WriteFailure(w, status, services.MsgInternal)
		return
	}
	if len(se.Fields) > 0 {
		log.Debug().Str("path", r.URL.Path).Str("fields", validation.Format(se.Fields)).Msg("Rejected request fields")
	}
	WriteJSON(w, status, Envelope{Success: false, Message: se.Message, Errors: se.Fields})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

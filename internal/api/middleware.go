package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/pokermaster-be/internal/api/handlers"
	"github.com/isdelr/pokermaster-be/internal/auth"
	"github.com/isdelr/pokermaster-be/internal/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequireAuth gates a route on a valid session token. A missing token is a
// 401; a token that fails verification, including an expired one, is a 403.
// On success the claims are attached to the request context.
func RequireAuth(tokens handlers.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := auth.TokenFromRequest(r)
			if err != nil {
				handlers.WriteFailure(w, http.StatusUnauthorized, services.MsgAuthRequired)
				return
			}

			claims, err := tokens.Verify(tokenStr)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired"
				}
				log.Debug().Str("reason", reason).Str("path", r.URL.Path).Msg("Rejected auth token")
				handlers.WriteFailure(w, http.StatusForbidden, services.MsgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequestLogger logs one line per request through zerolog.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			event := log.Info()
			switch {
			case status >= 500:
				event = log.Error()
			case status >= 400:
				event = log.Warn()
			}
			logRequest(event, r, status, ww.BytesWritten(), time.Since(start))
		}()

		next.ServeHTTP(ww, r)
	})
}

func logRequest(event *zerolog.Event, r *http.Request, status, bytes int, elapsed time.Duration) {
	event.
		Str("request_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("remote", r.RemoteAddr).
		Int("status", status).
		Int("bytes", bytes).
		Dur("duration", elapsed).
		Msg("Request handled")
}

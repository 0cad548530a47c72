package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/isdelr/pokermaster-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserCounter reports how many identities are registered.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// RoomCounter reports realtime activity.
type RoomCounter interface {
	ClientCount() int
	RoomCount() int
}

// HostStatsProvider returns the latest host resource sample.
type HostStatsProvider interface {
	Latest() models.HostStats
}

// HealthHandler serves liveness and API index endpoints.
type HealthHandler struct {
	users   UserCounter
	rooms   RoomCounter
	host    HostStatsProvider
	started time.Time
}

// NewHealthHandler creates a new HealthHandler. host may be nil.
func NewHealthHandler(users UserCounter, rooms RoomCounter, host HostStatsProvider) *HealthHandler {
	return &HealthHandler{users: users, rooms: rooms, host: host, started: time.Now()}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Uptime    string            `json:"uptime"`
	Users     int               `json:"users"`
	Clients   int               `json:"clients"`
	Rooms     int               `json:"rooms"`
	Host      *models.HostStats `json:"host,omitempty"`
}

// Health reports that the service is running.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.Count(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Health check could not count users")
		WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:    "DEGRADED",
			Message:   "Identity store unavailable",
			Timestamp: time.Now().UTC(),
		})
		return
	}

	resp := healthResponse{
		Status:    "OK",
		Message:   "PokerMaster Backend is running",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Users:     users,
		Clients:   h.rooms.ClientCount(),
		Rooms:     h.rooms.RoomCount(),
	}
	if h.host != nil {
		stats := h.host.Latest()
		if !stats.SampledAt.IsZero() {
			resp.Host = &stats
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Index lists the public endpoints.
func (h *HealthHandler) Index(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "PokerMaster API v1.0",
		"endpoints": map[string]interface{}{
			"auth": map[string]string{
				"register": "POST /api/auth/register",
				"login":    "POST /api/auth/login",
				"me":       "GET /api/auth/me",
				"logout":   "POST /api/auth/logout",
			},
			"game": map[string]string{
				"socket": "GET /api/game/ws",
			},
		},
	})
}

// NotFound renders unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteFailure(w, http.StatusNotFound, "Route "+r.Method+" "+r.URL.Path+" not found")
}

// MethodNotAllowed renders known routes hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteFailure(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed on "+r.URL.Path)
}

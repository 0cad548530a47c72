package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/isdelr/pokermaster-be/internal/auth"
	"github.com/isdelr/pokermaster-be/internal/models"
	"github.com/isdelr/pokermaster-be/internal/services"
	ws "github.com/isdelr/pokermaster-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

const maxGameIDLength = 64

// TokenVerifier verifies session tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// WebSocketHandler upgrades authenticated requests to game-room connections.
type WebSocketHandler struct {
	hub      *ws.Hub
	tokens   TokenVerifier
	upgrader websocket.Upgrader
	now      func() time.Time
}

// NewWebSocketHandler creates a new WebSocketHandler. Browser origins must
// appear in allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *ws.Hub, tokens TokenVerifier, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		now: time.Now,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// Serve authenticates the request and handles the WebSocket connection.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		tokenStr, _ = auth.TokenFromRequest(r)
	}
	if tokenStr == "" {
		WriteFailure(w, http.StatusUnauthorized, services.MsgAuthRequired)
		return
	}
	claims, err := h.tokens.Verify(tokenStr)
	if err != nil {
		log.Debug().Err(err).Msg("Rejected websocket token")
		WriteFailure(w, http.StatusForbidden, services.MsgInvalidToken)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID)
	if !h.hub.Connect(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(h.handleIncomingWSMessage)
}

// handleIncomingWSMessage processes messages received from a websocket client.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	var msg ws.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		log.Debug().Err(err).Str("client_id", client.ID).Msg("Error decoding websocket message")
		h.hub.SendTo(client, ws.NewErrorMessage("Malformed message"))
		return
	}

	switch msg.Action {
	case ws.ActionJoinGame:
		var payload ws.JoinPayload
		if len(msg.Payload) > 0 {
			_ = json.Unmarshal(msg.Payload, &payload)
		}
		gameID := strings.TrimSpace(payload.GameID)
		if gameID == "" || len(gameID) > maxGameIDLength {
			h.hub.SendTo(client, ws.NewErrorMessage("Invalid gameId"))
			return
		}
		h.hub.Join(client, gameID)

	case ws.ActionLeaveGame:
		h.hub.Leave(client)

	case ws.ActionPlayerAction:
		var action models.PlayerAction
		if len(msg.Payload) == 0 || json.Unmarshal(msg.Payload, &action) != nil || !action.Valid() {
			h.hub.SendTo(client, ws.NewErrorMessage("Invalid player action"))
			return
		}
		action.PlayerID = client.UserID
		action.Timestamp = h.now().UTC()
		h.hub.Forward(client, ws.EventPlayerAction, func(gameID string) interface{} {
			return struct {
				GameID string `json:"gameId"`
				models.PlayerAction
			}{GameID: gameID, PlayerAction: action}
		})

	default:
		log.Debug().Str("action", msg.Action).Msg("Unknown websocket action received")
		h.hub.SendTo(client, ws.NewErrorMessage("Unknown action: "+msg.Action))
	}
}

package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Client to server actions.
const (
	ActionJoinGame     = "join-game"
	ActionLeaveGame    = "leave-game"
	ActionPlayerAction = "player-action"
)

// Server to client events.
const (
	EventPlayerJoined = "player-joined"
	EventPlayerLeft   = "player-left"
	EventPlayerAction = "player-action"
	EventGameError    = "game-error"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// outbound is the encoded form of server events.
type outbound struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// JoinPayload is the payload of a join-game request.
type JoinPayload struct {
	GameID string `json:"gameId"`
}

// PresencePayload announces a player entering or leaving a room.
type PresencePayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Players  int    `json:"players"`
}

// ErrorPayload carries a game-error message.
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewMessage encodes an outgoing event.
func NewMessage(action string, payload interface{}) []byte {
	data, err := json.Marshal(outbound{Action: action, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("Failed to encode websocket message")
		return nil
	}
	return data
}

// NewErrorMessage encodes a game-error event.
func NewErrorMessage(message string) []byte {
	return NewMessage(EventGameError, ErrorPayload{Message: message})
}

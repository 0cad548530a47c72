package models

import "time"

// Suit of a playing card.
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists every suit in deck order.
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank of a playing card.
type Rank string

// Ranks lists every rank from ace to king.
var Ranks = []Rank{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Card is a single playing card.
type Card struct {
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
	ID   string `json:"id"`
}

// PlayerStatus describes a seat's participation in the current hand.
type PlayerStatus string

const (
	PlayerWaiting      PlayerStatus = "waiting"
	PlayerPlaying      PlayerStatus = "playing"
	PlayerFolded       PlayerStatus = "folded"
	PlayerAllIn        PlayerStatus = "all-in"
	PlayerDisconnected PlayerStatus = "disconnected"
)

// GamePhase is the betting round a table is in.
type GamePhase string

const (
	PhaseWaiting  GamePhase = "waiting"
	PhasePreFlop  GamePhase = "pre-flop"
	PhaseFlop     GamePhase = "flop"
	PhaseTurn     GamePhase = "turn"
	PhaseRiver    GamePhase = "river"
	PhaseShowdown GamePhase = "showdown"
	PhaseEnded    GamePhase = "ended"
)

// Player is a seated participant.
type Player struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Chips      int          `json:"chips"`
	Cards      []Card       `json:"cards"`
	Status     PlayerStatus `json:"status"`
	CurrentBet int          `json:"currentBet"`
	IsDealer   bool         `json:"isDealer"`
	Position   int          `json:"position"`
}

// GameState is the full table state.
type GameState struct {
	ID                string    `json:"id"`
	Players           []Player  `json:"players"`
	CommunityCards    []Card    `json:"communityCards"`
	Pot               int       `json:"pot"`
	CurrentBet        int       `json:"currentBet"`
	Phase             GamePhase `json:"phase"`
	ActivePlayerIndex int       `json:"activePlayerIndex"`
	DealerIndex       int       `json:"dealerIndex"`
	SmallBlind        int       `json:"smallBlind"`
	BigBlind          int       `json:"bigBlind"`
	Deck              []Card    `json:"-"`
}

// GameAction is a move a player can make.
type GameAction string

const (
	ActionCheck GameAction = "check"
	ActionCall  GameAction = "call"
	ActionRaise GameAction = "raise"
	ActionFold  GameAction = "fold"
	ActionAllIn GameAction = "all-in"
)

// Valid reports whether a is a known action.
func (a GameAction) Valid() bool {
	switch a {
	case ActionCheck, ActionCall, ActionRaise, ActionFold, ActionAllIn:
		return true
	}
	return false
}

// PlayerAction is a move submitted by a player.
type PlayerAction struct {
	PlayerID  string     `json:"playerId"`
	Action    GameAction `json:"action"`
	Amount    *int       `json:"amount,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// Valid checks the action kind and that raises carry a positive amount.
func (p PlayerAction) Valid() bool {
	if !p.Action.Valid() {
		return false
	}
	if p.Action == ActionRaise {
		return p.Amount != nil && *p.Amount > 0
	}
	return p.Amount == nil || *p.Amount >= 0
}

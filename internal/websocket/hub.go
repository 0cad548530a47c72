package websocket

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

type room struct {
	members    map[*Client]bool
	emptySince time.Time
}

type membership struct {
	client *Client
	gameID string
}

type roomMessage struct {
	from    *Client
	action  string
	payload func(gameID string) interface{}
}

type directMessage struct {
	client *Client
	data   []byte
}

type sweepRequest struct {
	olderThan time.Duration
	reply     chan int
}

// Hub maintains the set of active clients and the game rooms they are in.
// All membership state is owned by the Run goroutine.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Game rooms by game id.
	rooms map[string]*room

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	join     chan membership
	leave    chan *Client
	forward  chan roomMessage
	direct   chan directMessage
	sweep    chan sweepRequest
	done     chan struct{}
	stopped  atomic.Bool
	nClients atomic.Int64
	nRooms   atomic.Int64
	now      func() time.Time
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]*room),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		join:       make(chan membership),
		leave:      make(chan *Client),
		forward:    make(chan roomMessage),
		direct:     make(chan directMessage),
		sweep:      make(chan sweepRequest),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			h.nClients.Store(int64(len(h.clients)))
			log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Str("user_id", client.UserID).Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case m := <-h.join:
			h.handleJoin(m.client, m.gameID)
		case client := <-h.leave:
			if client.room == "" {
				h.deliver(client, NewErrorMessage("Not in a game"))
				continue
			}
			h.leaveRoom(client)
		case m := <-h.forward:
			h.handleForward(m)
		case m := <-h.direct:
			h.deliver(m.client, m.data)
		case req := <-h.sweep:
			req.reply <- h.sweepRooms(req.olderThan)
		}
	}
}

// Stop terminates Run and disconnects every client.
func (h *Hub) Stop() {
	if h.stopped.CompareAndSwap(false, true) {
		close(h.done)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int { return int(h.nClients.Load()) }

// RoomCount returns the number of open rooms, including empty ones not yet swept.
func (h *Hub) RoomCount() int { return int(h.nRooms.Load()) }

// Connect registers client unless the hub has stopped.
func (h *Hub) Connect(client *Client) bool {
	return trySend(h.Register, client, h.done)
}

// Join moves client into the room for gameID, leaving any current room.
func (h *Hub) Join(client *Client, gameID string) {
	trySend(h.join, membership{client: client, gameID: gameID}, h.done)
}

// Leave removes client from its current room.
func (h *Hub) Leave(client *Client) {
	trySend(h.leave, client, h.done)
}

// Forward relays an event from client to every member of its room. The
// payload is built by the hub goroutine once the room is known.
func (h *Hub) Forward(client *Client, action string, payload func(gameID string) interface{}) {
	trySend(h.forward, roomMessage{from: client, action: action, payload: payload}, h.done)
}

// SendTo queues data for a single client.
func (h *Hub) SendTo(client *Client, data []byte) {
	trySend(h.direct, directMessage{client: client, data: data}, h.done)
}

// SweepIdleRooms deletes rooms that have been empty for longer than
// olderThan and returns how many were removed.
func (h *Hub) SweepIdleRooms(olderThan time.Duration) int {
	reply := make(chan int, 1)
	if !trySend(h.sweep, sweepRequest{olderThan: olderThan, reply: reply}, h.done) {
		return 0
	}
	return <-reply
}

func (h *Hub) unregister(client *Client) {
	trySend(h.Unregister, client, h.done)
}

// trySend delivers v to the Run loop unless the hub has stopped.
func trySend[T any](ch chan T, v T, done <-chan struct{}) bool {
	select {
	case ch <- v:
		return true
	case <-done:
		return false
	}
}

func (h *Hub) handleJoin(client *Client, gameID string) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	if client.room == gameID {
		h.deliver(client, NewErrorMessage("Already in game "+gameID))
		return
	}
	if client.room != "" {
		h.leaveRoom(client)
	}

	r, ok := h.rooms[gameID]
	if !ok {
		r = &room{members: make(map[*Client]bool)}
		h.rooms[gameID] = r
		h.nRooms.Store(int64(len(h.rooms)))
	}
	r.members[client] = true
	client.room = gameID

	log.Debug().Str("user_id", client.UserID).Str("game_id", gameID).Int("players", len(r.members)).Msg("Player joined game")
	h.broadcast(r, NewMessage(EventPlayerJoined, PresencePayload{GameID: gameID, PlayerID: client.UserID, Players: len(r.members)}))
}

func (h *Hub) leaveRoom(client *Client) {
	gameID := client.room
	client.room = ""
	r, ok := h.rooms[gameID]
	if !ok {
		return
	}
	delete(r.members, client)
	msg := NewMessage(EventPlayerLeft, PresencePayload{GameID: gameID, PlayerID: client.UserID, Players: len(r.members)})
	h.deliver(client, msg)
	if len(r.members) == 0 {
		r.emptySince = h.now()
		return
	}
	h.broadcast(r, msg)
}

func (h *Hub) handleForward(m roomMessage) {
	if _, ok := h.clients[m.from]; !ok {
		return
	}
	r, ok := h.rooms[m.from.room]
	if m.from.room == "" || !ok {
		h.deliver(m.from, NewErrorMessage("Join a game first"))
		return
	}
	h.broadcast(r, NewMessage(m.action, m.payload(m.from.room)))
}

func (h *Hub) broadcast(r *room, data []byte) {
	for client := range r.members {
		h.deliver(client, data)
	}
}

// deliver queues data on the client's send buffer, dropping clients that
// cannot keep up.
func (h *Hub) deliver(client *Client, data []byte) {
	if data == nil {
		return
	}
	if _, ok := h.clients[client]; !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		log.Warn().Str("user_id", client.UserID).Msg("Client send buffer full, dropping connection")
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	if client.room != "" {
		h.leaveRoom(client)
	}
	h.nClients.Store(int64(len(h.clients)))
}

func (h *Hub) sweepRooms(olderThan time.Duration) int {
	cutoff := h.now().Add(-olderThan)
	removed := 0
	for id, r := range h.rooms {
		if len(r.members) == 0 && !r.emptySince.After(cutoff) {
			delete(h.rooms, id)
			removed++
		}
	}
	h.nRooms.Store(int64(len(h.rooms)))
	return removed
}

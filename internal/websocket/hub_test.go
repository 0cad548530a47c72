package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func connect(t *testing.T, h *Hub, userID string) *Client {
	t.Helper()
	c := NewClient(h, nil, userID)
	h.Register <- c
	return c
}

func next(t *testing.T, c *Client) received {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg received
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("no message for %s", c.UserID)
		return received{}
	}
}

func presence(t *testing.T, msg received) PresencePayload {
	t.Helper()
	var p PresencePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &p))
	return p
}

func TestHub_JoinBroadcastsPresence(t *testing.T) {
	h := startHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")

	h.Join(alice, "table-1")
	msg := next(t, alice)
	assert.Equal(t, EventPlayerJoined, msg.Action)
	assert.Equal(t, PresencePayload{GameID: "table-1", PlayerID: "alice", Players: 1}, presence(t, msg))

	h.Join(bob, "table-1")
	for _, c := range []*Client{alice, bob} {
		msg := next(t, c)
		assert.Equal(t, EventPlayerJoined, msg.Action)
		assert.Equal(t, PresencePayload{GameID: "table-1", PlayerID: "bob", Players: 2}, presence(t, msg))
	}

	assert.Equal(t, 2, h.ClientCount())
	assert.Equal(t, 1, h.RoomCount())
}

func TestHub_ForwardReachesRoomOnly(t *testing.T) {
	h := startHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")
	carol := connect(t, h, "carol")

	h.Join(alice, "table-1")
	next(t, alice)
	h.Join(bob, "table-1")
	next(t, alice)
	next(t, bob)
	h.Join(carol, "table-2")
	next(t, carol)

	h.Forward(alice, EventPlayerAction, func(gameID string) interface{} {
		return map[string]string{"gameId": gameID, "action": "fold"}
	})

	for _, c := range []*Client{alice, bob} {
		msg := next(t, c)
		assert.Equal(t, EventPlayerAction, msg.Action)
		assert.JSONEq(t, `{"gameId":"table-1","action":"fold"}`, string(msg.Payload))
	}

	h.SendTo(carol, NewMessage("marker", nil))
	assert.Equal(t, "marker", next(t, carol).Action)
}

func TestHub_ForwardWithoutRoomIsError(t *testing.T) {
	h := startHub(t)
	alice := connect(t, h, "alice")

	h.Forward(alice, EventPlayerAction, func(string) interface{} { return nil })

	msg := next(t, alice)
	assert.Equal(t, EventGameError, msg.Action)
}

func TestHub_LeaveAndSwitchRooms(t *testing.T) {
	h := startHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")

	h.Join(alice, "table-1")
	next(t, alice)
	h.Join(bob, "table-1")
	next(t, alice)
	next(t, bob)

	// Switching rooms leaves the old one first.
	h.Join(bob, "table-2")
	left := next(t, bob)
	assert.Equal(t, EventPlayerLeft, left.Action)
	assert.Equal(t, "table-1", presence(t, left).GameID)
	assert.Equal(t, EventPlayerLeft, next(t, alice).Action)
	assert.Equal(t, EventPlayerJoined, next(t, bob).Action)

	h.Leave(alice)
	msg := next(t, alice)
	assert.Equal(t, EventPlayerLeft, msg.Action)
	assert.Equal(t, 0, presence(t, msg).Players)

	h.Leave(alice)
	assert.Equal(t, EventGameError, next(t, alice).Action)
}

func TestHub_UnregisterClosesSendAndNotifiesRoom(t *testing.T) {
	h := startHub(t)
	alice := connect(t, h, "alice")
	bob := connect(t, h, "bob")

	h.Join(alice, "table-1")
	next(t, alice)
	h.Join(bob, "table-1")
	next(t, alice)
	next(t, bob)

	h.Unregister <- bob

	msg := next(t, alice)
	assert.Equal(t, EventPlayerLeft, msg.Action)
	assert.Equal(t, "bob", presence(t, msg).PlayerID)

	_, ok := <-bob.Send
	assert.False(t, ok)
	assert.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHub_SweepIdleRooms(t *testing.T) {
	h := NewHub()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	go h.Run()
	t.Cleanup(h.Stop)

	alice := connect(t, h, "alice")
	h.Join(alice, "table-1")
	next(t, alice)
	h.Leave(alice)
	next(t, alice)

	assert.Equal(t, 0, h.SweepIdleRooms(time.Hour))
	assert.Equal(t, 1, h.RoomCount())

	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, h.SweepIdleRooms(time.Hour))
	assert.Equal(t, 0, h.RoomCount())
}

func TestHub_StopUnblocksCallers(t *testing.T) {
	h := NewHub()
	go h.Run()
	h.Stop()
	h.Stop()

	assert.Equal(t, 0, h.SweepIdleRooms(time.Minute))
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestPlayerAction_Valid(t *testing.T) {
	tests := []struct {
		name string
		in   PlayerAction
		want bool
	}{
		{"check", PlayerAction{Action: ActionCheck}, true},
		{"fold", PlayerAction{Action: ActionFold}, true},
		{"raise with amount", PlayerAction{Action: ActionRaise, Amount: intPtr(50)}, true},
		{"raise without amount", PlayerAction{Action: ActionRaise}, false},
		{"raise zero", PlayerAction{Action: ActionRaise, Amount: intPtr(0)}, false},
		{"negative call", PlayerAction{Action: ActionCall, Amount: intPtr(-1)}, false},
		{"unknown", PlayerAction{Action: "bluff"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Valid())
		})
	}
}

func TestUser_SummaryDropsHash(t *testing.T) {
	u := User{ID: "1", Username: "alice_1", Email: "Alice@Test.com", PasswordHash: "$2a$..."}
	assert.Equal(t, UserSummary{ID: "1", Username: "alice_1", Email: "Alice@Test.com"}, u.Summary())
}

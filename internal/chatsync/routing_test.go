package chatsync

import (
	"testing"

	"github.com/trousseauhq/trousseau/internal/types"
)

func TestAccepts(t *testing.T) {
	team := types.Identity{Kind: types.ConversationTeam}
	directX := types.Identity{Kind: types.ConversationDirect, PeerID: "x"}

	to := func(id string) *string { return &id }

	tests := []struct {
		name   string
		event  types.Message
		active types.Identity
		want   bool
	}{
		{"team message to team view", types.Message{AuthorID: "a"}, team, true},
		{"direct message to team view", types.Message{AuthorID: "a", RecipientID: to("b")}, team, false},
		{"team message to direct view", types.Message{AuthorID: "x"}, directX, false},
		{"peer-authored direct message", types.Message{AuthorID: "x", RecipientID: to("me")}, directX, true},
		{"self-authored direct to peer", types.Message{AuthorID: "me", RecipientID: to("x")}, directX, true},
		{"direct between two other users", types.Message{AuthorID: "a", RecipientID: to("b")}, directX, false},
		{"unknown kind", types.Message{AuthorID: "a"}, types.Identity{}, false},
	}

	for _, tt := range tests {
		if got := Accepts(tt.event, tt.active); got != tt.want {
			t.Errorf("%s: Accepts = %v, expected %v", tt.name, got, tt.want)
		}
	}
}

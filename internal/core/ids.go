package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/trousseauhq/trousseau/internal/types"
)

// TeamConversationID is the fixed id of the shared team conversation.
const TeamConversationID = "team"

// directPrefix marks direct-conversation ids. The suffix is the peer's
// user id, so the id is derived deterministically from the peer.
const directPrefix = "dm-"

// DirectConversationID derives the conversation id for a direct channel
// with the given peer.
func DirectConversationID(peerID string) string {
	return directPrefix + peerID
}

// ResolveSelection derives a routing identity purely from a conversation
// id's shape.
func ResolveSelection(conversationID string) (types.Identity, error) {
	if conversationID == TeamConversationID {
		return types.Identity{Kind: types.ConversationTeam}, nil
	}
	if peer, ok := strings.CutPrefix(conversationID, directPrefix); ok && peer != "" {
		return types.Identity{Kind: types.ConversationDirect, PeerID: peer}, nil
	}
	return types.Identity{}, fmt.Errorf("unroutable conversation id %q", conversationID)
}

// GenerateProvisionalID creates a fresh provisional message id. Provisional
// ids are distinguishable from server ids by prefix and are used only until
// the server confirms the message.
func GenerateProvisionalID() string {
	return types.ProvisionalPrefix + uuid.NewString()
}

package chatsync

import "github.com/trousseauhq/trousseau/internal/types"

// Accepts decides whether an inbound realtime event belongs to the active
// conversation. The push feed is workspace-scoped and cannot be filtered
// per conversation server-side, so every event runs through this predicate;
// rejected events are dropped without side effects.
func Accepts(event types.Message, active types.Identity) bool {
	switch active.Kind {
	case types.ConversationTeam:
		return event.RecipientID == nil
	case types.ConversationDirect:
		if event.RecipientID == nil {
			return false
		}
		return event.AuthorID == active.PeerID || *event.RecipientID == active.PeerID
	default:
		return false
	}
}

package chat

import (
	"github.com/gen2brain/beeep"

	"github.com/trousseauhq/trousseau/internal/types"
)

// maybeNotify raises an OS notification for an inbound direct message.
// Suppressed for own messages and for team chatter; the sidebar's unread
// counts cover those.
func (m *Model) maybeNotify(msg types.Message) {
	if !m.notify {
		return
	}
	if msg.AuthorID == m.selfID {
		return
	}
	if msg.RecipientID == nil {
		return
	}
	body := truncateLine(msg.Content, 120)
	_ = beeep.Notify("trousseau", m.displayName(msg.AuthorID)+": "+body, "")
}

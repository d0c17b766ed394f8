package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/trousseauhq/trousseau/internal/types"
)

// groupWindow suppresses the author header for consecutive messages from
// the same author within this span.
const groupWindow = 5 * time.Minute

func (m *Model) renderMessages(width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	var prev *types.Message
	for i := range m.messages {
		msg := &m.messages[i]
		if prev == nil || !sameGroup(*prev, *msg) {
			if prev != nil {
				b.WriteString("\n")
			}
			b.WriteString(m.renderHeader(*msg))
			b.WriteString("\n")
		}
		b.WriteString(m.renderBody(*msg, width))
		b.WriteString("\n")
		prev = msg
	}
	return b.String()
}

func sameGroup(prev, next types.Message) bool {
	if prev.AuthorID != next.AuthorID {
		return false
	}
	if prev.Delivery != next.Delivery && (prev.Delivery == types.DeliveryPending || next.Delivery == types.DeliveryPending) {
		return false
	}
	return next.CreatedAt-prev.CreatedAt <= groupWindow.Milliseconds()
}

func (m *Model) renderHeader(msg types.Message) string {
	name := lipgloss.NewStyle().
		Foreground(m.colorForAuthor(msg.AuthorID)).
		Bold(true).
		Render(m.displayName(msg.AuthorID))
	stamp := lipgloss.NewStyle().Foreground(dimColor).Render(formatStamp(msg.CreatedAt))
	return name + " " + stamp
}

func (m *Model) renderBody(msg types.Message, width int) string {
	style := lipgloss.NewStyle().Width(width)
	switch msg.Delivery {
	case types.DeliveryPending:
		return style.Foreground(pendingColor).Render(msg.Content + " …")
	case types.DeliveryFailed:
		return style.Background(failBg).Render(msg.Content)
	default:
		return style.Render(msg.Content)
	}
}

// formatStamp shows clock time for today's messages and a relative phrase
// for older ones.
func formatStamp(createdAt int64) string {
	ts := time.UnixMilli(createdAt)
	if time.Since(ts) < 24*time.Hour {
		return ts.Format("15:04")
	}
	return humanize.Time(ts)
}

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trousseauhq/trousseau/internal/chatsync"
)

type sessionEventMsg struct {
	event chatsync.Event
}

type directoryMsg struct {
	err error
}

// waitEventCmd blocks on the session's event channel and re-arms itself
// from the update loop, so all store reads happen on the UI goroutine.
func (m *Model) waitEventCmd() tea.Cmd {
	events := m.session.Events()
	return func() tea.Msg {
		return sessionEventMsg{event: <-events}
	}
}

// directoryTickCmd refreshes the conversation list on a slow interval to
// pick up new peers and updated summaries.
func (m *Model) directoryTickCmd() tea.Cmd {
	directory := m.directory
	return tea.Tick(m.directoryInterval, func(time.Time) tea.Msg {
		return directoryMsg{err: directory.Refresh(context.Background())}
	})
}

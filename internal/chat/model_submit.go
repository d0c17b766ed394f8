package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleSubmit(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	// The session merges a provisional message synchronously, so the
	// store already reflects the send when we re-render here.
	m.session.Send(text)
	m.input.Reset()
	m.status = ""
	m.messages = m.session.Messages()
	m.refreshViewport(true)
	m.newMessageAuthors = nil
	return nil
}

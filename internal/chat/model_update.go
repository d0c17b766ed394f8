package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/trousseauhq/trousseau/internal/chatsync"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case sessionEventMsg:
		return m.handleSessionEvent(msg.event)
	case directoryMsg:
		return m.handleDirectoryMsg(msg)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.resize()
	m.refreshViewport(true)
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.sidebarFocus = !m.sidebarFocus
		if m.sidebarFocus {
			m.input.Blur()
		} else {
			m.input.Focus()
		}
		return m, nil
	case "esc":
		if m.status != "" {
			m.status = ""
			return m, nil
		}
		if m.sidebarFocus {
			m.sidebarFocus = false
			m.input.Focus()
		}
		return m, nil
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		if m.atBottom() {
			m.newMessageAuthors = nil
		}
		return m, nil
	}

	if m.sidebarFocus {
		return m.handleSidebarKey(msg)
	}

	switch msg.String() {
	case "enter":
		return m, m.handleSubmit(m.input.Value())
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSessionEvent(event chatsync.Event) (tea.Model, tea.Cmd) {
	switch event.Kind {
	case chatsync.EventMessages:
		wasAtBottom := m.atBottom()
		previous := len(m.messages)
		m.messages = m.session.Messages()
		if wasAtBottom {
			m.refreshViewport(true)
			m.newMessageAuthors = nil
		} else {
			m.refreshViewport(false)
			for _, msg := range m.messages[min(previous, len(m.messages)):] {
				if msg.AuthorID != m.selfID {
					m.addNewMessageAuthor(m.displayName(msg.AuthorID))
				}
			}
		}
		if event.Msg != nil {
			m.maybeNotify(*event.Msg)
		}
	case chatsync.EventSendFailed:
		m.messages = m.session.Messages()
		m.refreshViewport(false)
		m.status = "message not sent: " + event.Err.Error()
	case chatsync.EventFetchFailed:
		// Loaded data stays; the banner is dismissible with esc.
		m.status = "connection trouble: " + event.Err.Error()
	}
	return m, m.waitEventCmd()
}

func (m *Model) handleDirectoryMsg(msg directoryMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.status = "directory refresh failed: " + msg.err.Error()
	}
	m.rebuildSidebar()
	return m, m.directoryTickCmd()
}

func (m *Model) addNewMessageAuthor(name string) {
	for _, existing := range m.newMessageAuthors {
		if existing == name {
			return
		}
	}
	m.newMessageAuthors = append(m.newMessageAuthors, name)
}

func (m *Model) displayName(userID string) string {
	if userID == m.selfID && m.username != "" {
		return m.username
	}
	if m.profiles != nil {
		return m.profiles.DisplayName(userID)
	}
	return userID
}

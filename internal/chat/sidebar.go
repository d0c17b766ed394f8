package chat

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/trousseauhq/trousseau/internal/core"
	"github.com/trousseauhq/trousseau/internal/types"
)

type sidebarEntry struct {
	conversationID string
	label          string
	unread         int
	// peer is set for directory members with no conversation yet; selecting
	// one synthesizes the direct conversation on the spot.
	peer *types.Profile
}

// rebuildSidebar recomputes the entry list from the directory: the team
// conversation first, then direct conversations, then remaining members a
// direct conversation can be started with.
func (m *Model) rebuildSidebar() {
	conversations := m.directory.List()
	members := m.directory.Members()

	var team []sidebarEntry
	var directs []sidebarEntry
	seen := make(map[string]bool)

	for _, conv := range conversations {
		entry := sidebarEntry{
			conversationID: conv.ID,
			label:          conv.DisplayName,
		}
		if conv.Unread != nil {
			entry.unread = *conv.Unread
		}
		if conv.Kind == types.ConversationTeam {
			team = append(team, entry)
			continue
		}
		directs = append(directs, entry)
		if conv.PeerID != nil {
			seen[*conv.PeerID] = true
		}
	}
	sort.Slice(directs, func(i, j int) bool { return directs[i].label < directs[j].label })

	var others []sidebarEntry
	for i := range members {
		if seen[members[i].UserID] {
			continue
		}
		peer := members[i]
		label := peer.Name
		if label == "" {
			label = peer.UserID
		}
		others = append(others, sidebarEntry{
			conversationID: core.DirectConversationID(peer.UserID),
			label:          label,
			peer:           &peer,
		})
	}
	sort.Slice(others, func(i, j int) bool { return others[i].label < others[j].label })

	m.entries = append(append(team, directs...), others...)
	if m.sidebarIndex >= len(m.entries) {
		m.sidebarIndex = len(m.entries) - 1
	}
	if m.sidebarIndex < 0 {
		m.sidebarIndex = 0
	}
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}
	case "down", "j":
		if m.sidebarIndex < len(m.entries)-1 {
			m.sidebarIndex++
		}
	case "enter":
		return m, m.selectEntry()
	}
	return m, nil
}

// selectEntry switches the active conversation. The session clears its
// store synchronously, so the view empties immediately rather than showing
// the previous conversation's messages under the new name.
func (m *Model) selectEntry() tea.Cmd {
	if len(m.entries) == 0 {
		return nil
	}
	entry := m.entries[m.sidebarIndex]
	if entry.peer != nil {
		conv := m.directory.EnsureDirect(*entry.peer)
		entry.conversationID = conv.ID
		m.rebuildSidebar()
	}
	if entry.conversationID == m.selectedID {
		m.sidebarFocus = false
		m.input.Focus()
		return nil
	}
	if err := m.session.Select(entry.conversationID); err != nil {
		m.status = err.Error()
		return nil
	}
	m.selectedID = entry.conversationID
	m.messages = nil
	m.newMessageAuthors = nil
	m.status = ""
	m.sidebarFocus = false
	m.input.Focus()
	m.refreshViewport(true)
	return nil
}

func (m *Model) selectedLabel() string {
	for _, entry := range m.entries {
		if entry.conversationID == m.selectedID {
			return entry.label
		}
	}
	return m.selectedID
}

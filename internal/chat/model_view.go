package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 26

func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}

	var lines []string
	lines = append(lines, m.renderTitle())
	lines = append(lines, m.viewport.View())
	if hint := m.renderNewMessageHint(); hint != "" {
		lines = append(lines, hint)
	}
	lines = append(lines, m.input.View())
	lines = append(lines, m.renderStatusLine())
	main := lipgloss.JoinVertical(lipgloss.Left, lines...)

	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main)
}

func (m *Model) renderTitle() string {
	return lipgloss.NewStyle().Bold(true).Render("# " + m.selectedLabel())
}

func (m *Model) renderNewMessageHint() string {
	if len(m.newMessageAuthors) == 0 {
		return ""
	}
	hint := fmt.Sprintf("new messages from %s — pgdown to catch up", strings.Join(m.newMessageAuthors, ", "))
	return lipgloss.NewStyle().Foreground(statusColor).Render(hint)
}

func (m *Model) renderStatusLine() string {
	if m.status == "" {
		return lipgloss.NewStyle().Foreground(dimColor).Render("tab: conversations · esc: dismiss · ctrl+c: quit")
	}
	return lipgloss.NewStyle().Foreground(statusColor).Render(m.status + " (esc to dismiss)")
}

func (m *Model) renderSidebar() string {
	border := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(max(m.height-1, 1)).
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(dimColor)

	var rows []string
	rows = append(rows, lipgloss.NewStyle().Bold(true).Render(m.workspaceName))
	rows = append(rows, "")
	for i, entry := range m.entries {
		rows = append(rows, m.renderSidebarRow(entry, i))
	}
	return border.Render(strings.Join(rows, "\n"))
}

func (m *Model) renderSidebarRow(entry sidebarEntry, index int) string {
	label := truncateLine(entry.label, sidebarWidth-4)
	if entry.unread > 0 {
		label = fmt.Sprintf("%s (%d)", truncateLine(entry.label, sidebarWidth-8), entry.unread)
	}

	style := lipgloss.NewStyle()
	switch {
	case entry.conversationID == m.selectedID:
		style = style.Bold(true).Foreground(selfColor)
	case entry.peer != nil:
		style = style.Foreground(dimColor)
	}
	marker := "  "
	if m.sidebarFocus && index == m.sidebarIndex {
		marker = "> "
	}
	return marker + style.Render(label)
}

// resize recomputes pane dimensions after a terminal size change.
func (m *Model) resize() {
	mainWidth := max(m.width-sidebarWidth-2, 20)
	// title + hint slack + input + status line
	viewportHeight := max(m.height-5, 3)
	m.viewport.Width = mainWidth
	m.viewport.Height = viewportHeight
	m.input.SetWidth(mainWidth)
}

// refreshViewport re-renders the message pane. stickToBottom keeps the view
// pinned to the latest message; when the user has scrolled up it is left
// alone.
func (m *Model) refreshViewport(stickToBottom bool) {
	m.viewport.SetContent(m.renderMessages(m.viewport.Width))
	if stickToBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) atBottom() bool {
	return m.viewport.AtBottom()
}

func truncateLine(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= maxLen {
		return value
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

package chat

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

var authorPalette = []lipgloss.Color{
	lipgloss.Color("111"),
	lipgloss.Color("157"),
	lipgloss.Color("216"),
	lipgloss.Color("36"),
	lipgloss.Color("183"),
	lipgloss.Color("230"),
}

var (
	selfColor    = lipgloss.Color("75")
	dimColor     = lipgloss.Color("243")
	statusColor  = lipgloss.Color("214")
	pendingColor = lipgloss.Color("240")
	failBg       = lipgloss.Color("52")
)

// colorForAuthor assigns palette colors in first-seen order and falls back
// to a hash for authors beyond the palette, so colors stay stable within a
// run without coordination.
func (m *Model) colorForAuthor(userID string) lipgloss.Color {
	if userID == m.selfID {
		return selfColor
	}
	if color, ok := m.colorMap[userID]; ok {
		return color
	}
	if len(m.colorMap) < len(authorPalette) {
		color := authorPalette[len(m.colorMap)]
		m.colorMap[userID] = color
		return color
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	color := authorPalette[int(h.Sum32())%len(authorPalette)]
	m.colorMap[userID] = color
	return color
}

package chat

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trousseauhq/trousseau/internal/chatsync"
	"github.com/trousseauhq/trousseau/internal/core"
	"github.com/trousseauhq/trousseau/internal/types"
)

// Options configure the chat screen.
type Options struct {
	Session           *chatsync.Session
	Directory         *chatsync.Directory
	Profiles          *chatsync.ProfileCache
	WorkspaceName     string
	Username          string
	SelfID            string
	DirectoryInterval time.Duration
	Notify            bool
}

// Run starts the chat UI and blocks until exit.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	title := "trousseau"
	if opts.WorkspaceName != "" {
		title = "trousseau · " + opts.WorkspaceName
	}
	fmt.Printf("\033]0;%s\007", title)

	program := tea.NewProgram(model)
	_, err = program.Run()
	model.Close()
	return err
}

// Model implements the chat UI.
type Model struct {
	session   *chatsync.Session
	directory *chatsync.Directory
	profiles  *chatsync.ProfileCache

	workspaceName     string
	username          string
	selfID            string
	directoryInterval time.Duration
	notify            bool

	viewport viewport.Model
	input    textarea.Model

	width  int
	height int

	messages   []types.Message
	selectedID string
	status     string

	entries      []sidebarEntry
	sidebarIndex int
	sidebarFocus bool

	colorMap map[string]lipgloss.Color

	// Authors of messages that arrived while the user was scrolled up;
	// shown as a hint instead of yanking the viewport to the bottom.
	newMessageAuthors []string
}

// NewModel creates the chat model with the team conversation selected.
func NewModel(opts Options) (*Model, error) {
	if opts.Session == nil || opts.Directory == nil {
		return nil, fmt.Errorf("chat requires a session and a directory")
	}
	if opts.DirectoryInterval <= 0 {
		opts.DirectoryInterval = chatsync.DefaultDirectoryInterval
	}

	model := &Model{
		session:           opts.Session,
		directory:         opts.Directory,
		profiles:          opts.Profiles,
		workspaceName:     opts.WorkspaceName,
		username:          opts.Username,
		selfID:            opts.SelfID,
		directoryInterval: opts.DirectoryInterval,
		notify:            opts.Notify,
		viewport:          viewport.New(0, 0),
		input:             newInputModel(),
		colorMap:          make(map[string]lipgloss.Color),
	}
	model.rebuildSidebar()

	if err := opts.Session.Select(core.TeamConversationID); err != nil {
		return nil, err
	}
	model.selectedID = core.TeamConversationID
	return model, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitEventCmd(), m.directoryTickCmd())
}

// Close releases the session and its realtime handle.
func (m *Model) Close() {
	m.session.Close()
}

func newInputModel() textarea.Model {
	input := textarea.New()
	input.Placeholder = "Message…"
	input.Prompt = "> "
	input.CharLimit = 4000
	input.SetHeight(1)
	input.ShowLineNumbers = false
	input.Focus()
	return input
}

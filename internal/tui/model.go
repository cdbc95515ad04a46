package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-core/tui/components/help"
	"github.com/mattsolo1/grove-editor/pkg/shell"
)

type focusArea int

const (
	focusEditor focusArea = iota
	focusNav
)

const navWidth = 32

// Model is the bubbletea front-end over a shell.Shell. The shell holds all
// editor state; the model only tracks presentation.
type Model struct {
	shell         *shell.Shell
	keys          KeyMap
	help          help.Model
	jumpInput     textinput.Model
	jumping       bool
	focus         focusArea
	cursor        int
	scrollOffset  int
	width         int
	height        int
	statusMessage string
}

// New creates a TUI model for an initialized shell. The navigation panel has
// focus when a project is open.
func New(s *shell.Shell) Model {
	helpModel := help.NewBuilder().
		WithKeys(keys).
		WithTitle("Grove Editor - Help").
		Build()

	ti := textinput.New()
	ti.Placeholder = "Jump to..."
	ti.CharLimit = 100
	ti.Prompt = "/"

	focus := focusEditor
	if s.NavActive() {
		focus = focusNav
	}

	return Model{
		shell:     s,
		keys:      keys,
		help:      helpModel,
		jumpInput: ti,
		focus:     focus,
	}
}

// Init publishes the initial window title.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.shell.WindowTitle())
}

func (m Model) getViewportHeight() int {
	// header, tab bar, status line, footer and spacing
	h := m.height - 6
	if h < 1 {
		return 1
	}
	return h
}

func (m Model) editorWidth() int {
	w := m.width
	if m.shell.NavActive() {
		w -= navWidth + 1
	}
	if w < 1 {
		return 1
	}
	return w
}

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-editor/pkg/editor"
	"github.com/mattsolo1/grove-editor/pkg/shell"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		return m, nil

	case shell.NewMsg, shell.RequestOpenDialogMsg, shell.OpenPathMsg, shell.SaveMsg,
		shell.SaveAsMsg, shell.ActivateTabMsg, shell.CloseTabMsg,
		shell.SelectNavEntryMsg, shell.SetWrapMsg:
		return m, m.dispatch(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.help.ShowAll {
			m.help.Toggle()
			return m, nil
		}
		if m.jumping {
			return m.updateJump(msg)
		}
		if cmd, ok := m.globalKey(msg); ok {
			return m, cmd
		}
		if m.focus == focusNav {
			return m.updateNav(msg)
		}
		return m.updateEditor(msg)
	}
	return m, nil
}

// dispatch hands a command to the shell and keeps the cursor in range.
func (m *Model) dispatch(msg tea.Msg) tea.Cmd {
	cmd := m.shell.Update(msg)
	m.clampCursor()
	if !m.shell.NavActive() {
		m.focus = focusEditor
	}
	return cmd
}

func (m *Model) clampCursor() {
	n := m.shell.Nav().Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	vh := m.getViewportHeight()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	} else if m.cursor >= m.scrollOffset+vh {
		m.scrollOffset = m.cursor - vh + 1
	}
}

// globalKey handles bindings that work regardless of focus. Plain keys are
// left alone while the editor is taking text input.
func (m *Model) globalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.New):
		return m.dispatch(shell.NewMsg{}), true
	case key.Matches(msg, m.keys.Open):
		return m.dispatch(shell.RequestOpenDialogMsg{}), true
	case key.Matches(msg, m.keys.Save):
		return m.dispatch(shell.SaveMsg{}), true
	case key.Matches(msg, m.keys.CloseTab):
		return m.dispatch(shell.CloseTabMsg{}), true
	case key.Matches(msg, m.keys.ToggleWrap):
		return m.dispatch(shell.SetWrapMsg{Wrap: !m.shell.Config().Wrap}), true
	case key.Matches(msg, m.keys.SwitchFocus):
		if m.focus == focusNav || !m.shell.NavActive() {
			m.focus = focusEditor
		} else {
			m.focus = focusNav
		}
		return nil, true
	}

	if m.focus == focusEditor && m.editorTakesText() {
		return nil, false
	}
	switch {
	case key.Matches(msg, m.keys.NextTab):
		return m.cycleTab(1), true
	case key.Matches(msg, m.keys.PrevTab):
		return m.cycleTab(-1), true
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return nil, true
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit, true
	}
	return nil, false
}

func (m *Model) cycleTab(step int) tea.Cmd {
	active := m.shell.Tabs().Active()
	all := m.shell.Tabs().Tabs()
	if active == nil || len(all) < 2 {
		return nil
	}
	pos, _ := m.shell.Tabs().Position(active.ID)
	next := (pos + step + len(all)) % len(all)
	return m.dispatch(shell.ActivateTabMsg{ID: all[next].ID})
}

func (m Model) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.clampCursor()
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
	case key.Matches(msg, m.keys.Confirm):
		id, ok := m.shell.Nav().EntityAt(m.cursor)
		if !ok {
			return m, nil
		}
		return m, m.dispatch(shell.SelectNavEntryMsg{ID: id})
	case key.Matches(msg, m.keys.Jump):
		m.jumping = true
		m.jumpInput.SetValue("")
		return m, m.jumpInput.Focus()
	}
	return m, nil
}

func (m Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumping = false
		m.jumpInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.jumping = false
		m.jumpInput.Blur()
		matches := m.shell.Nav().Match(m.jumpInput.Value())
		if len(matches) == 0 {
			m.statusMessage = fmt.Sprintf("No entry matches %q", m.jumpInput.Value())
			return m, nil
		}
		if pos, ok := m.shell.Nav().Position(matches[0]); ok {
			m.cursor = pos
			m.clampCursor()
		}
		m.statusMessage = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)
	return m, cmd
}

// editorTakesText reports whether the active engine is in a text entry mode.
func (m Model) editorTakesText() bool {
	mode := m.activeMode()
	return mode.Kind == editor.ModeInsert || mode.Kind == editor.ModeCommand || mode.Kind == editor.ModeSearch
}

func (m Model) activeMode() editor.Mode {
	var mode editor.Mode
	if t := m.shell.Tabs().Active(); t != nil {
		_ = t.Engine().With(func(e editor.Engine) error {
			mode = e.Mode()
			return nil
		})
	}
	return mode
}

func (m Model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.shell.Tabs().Active()
	if active == nil {
		return m, nil
	}

	var follow tea.Msg
	err := active.Engine().With(func(e editor.Engine) error {
		follow = m.editKey(e, msg)
		return nil
	})
	if err != nil {
		m.statusMessage = err.Error()
		return m, nil
	}
	if follow != nil {
		return m, m.dispatch(follow)
	}
	return m, nil
}

// editKey applies a key press to the engine. It returns a shell command
// when the key completes an ex command.
func (m *Model) editKey(e editor.Engine, msg tea.KeyMsg) tea.Msg {
	mode := e.Mode()
	switch mode.Kind {
	case editor.ModeInsert:
		switch msg.Type {
		case tea.KeyEsc:
			e.SetMode(editor.Mode{Kind: editor.ModeNormal})
		case tea.KeyEnter:
			e.InsertText("\n")
		case tea.KeyTab:
			e.InsertText("\t")
		case tea.KeyBackspace:
			e.DeleteBackward()
		case tea.KeySpace:
			e.InsertText(" ")
		case tea.KeyRunes:
			e.InsertText(string(msg.Runes))
		}
		return nil

	case editor.ModeCommand, editor.ModeSearch:
		switch msg.Type {
		case tea.KeyEsc:
			e.SetMode(editor.Mode{Kind: editor.ModeNormal})
		case tea.KeyEnter:
			e.SetMode(editor.Mode{Kind: editor.ModeNormal})
			if mode.Kind == editor.ModeCommand {
				return m.exCommand(mode.Value)
			}
		case tea.KeyBackspace:
			if mode.Value == "" {
				e.SetMode(editor.Mode{Kind: editor.ModeNormal})
				return nil
			}
			e.DeleteBackward()
		case tea.KeySpace:
			e.InsertText(" ")
		case tea.KeyRunes:
			e.InsertText(string(msg.Runes))
		}
		return nil
	}

	switch msg.String() {
	case "i", "a":
		e.SetMode(editor.Mode{Kind: editor.ModeInsert})
	case ":":
		e.SetMode(editor.Mode{Kind: editor.ModeCommand})
	case "/":
		e.SetMode(editor.Mode{Kind: editor.ModeSearch, Forwards: true})
	case "?":
		e.SetMode(editor.Mode{Kind: editor.ModeSearch})
	}
	return nil
}

// exCommand maps a typed ":" command to a shell command.
func (m *Model) exCommand(line string) tea.Msg {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	switch verb {
	case "w":
		if arg != "" {
			return shell.SaveAsMsg{Path: arg}
		}
		return shell.SaveMsg{}
	case "e":
		if arg == "" {
			return shell.RequestOpenDialogMsg{}
		}
		return shell.OpenPathMsg{Path: arg}
	case "q":
		return shell.CloseTabMsg{}
	case "enew":
		return shell.NewMsg{}
	case "set":
		switch arg {
		case "wrap":
			return shell.SetWrapMsg{Wrap: true}
		case "nowrap":
			return shell.SetWrapMsg{Wrap: false}
		}
	case "":
		return nil
	}
	m.statusMessage = fmt.Sprintf("Not an editor command: %s", line)
	return nil
}

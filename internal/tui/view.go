package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattsolo1/grove-core/tui/theme"
	"github.com/mattsolo1/grove-editor/pkg/editor"
	"github.com/mattsolo1/grove-editor/pkg/tree"
)

func (m Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}

	header := theme.DefaultTheme.Header.Render(m.shell.Header())
	body := m.renderEditor()
	if m.shell.NavActive() {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(navWidth).Render(m.renderNav()),
			" ",
			body,
		)
	}

	footer := m.help.View()
	if m.jumping {
		footer = m.jumpInput.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.renderTabBar(),
		body,
		m.renderStatus(),
		footer,
	)
}

func (m Model) renderTabBar() string {
	active := m.shell.Tabs().Active()
	var parts []string
	for _, t := range m.shell.Tabs().Tabs() {
		label := t.Title()
		if t.Dirty() {
			label += " ●"
		}
		label = " " + label + " "
		if active != nil && t.ID == active.ID {
			parts = append(parts, theme.DefaultTheme.Selected.Render(label))
		} else {
			parts = append(parts, theme.DefaultTheme.Muted.Render(label))
		}
	}
	return strings.Join(parts, "│")
}

func (m Model) renderNav() string {
	entries := m.shell.Nav().Entries()
	vh := m.getViewportHeight()
	start := m.scrollOffset
	end := min(start+vh, len(entries))

	var b strings.Builder
	for i := start; i < end; i++ {
		e := entries[i]
		cursor := "  "
		if i == m.cursor && m.focus == focusNav {
			cursor = theme.DefaultTheme.Highlight.Render("▶ ")
		}

		fold := "  "
		if e.Node.IsFolder() {
			if e.Node.Open {
				fold = "▼ "
			} else {
				fold = "▶ "
			}
		}
		name := e.Node.Name
		if e.Node.Root {
			name = shortenPath(e.Node.Path)
		}
		line := cursor + strings.Repeat("  ", e.Indent) + fold + truncate(name, navWidth-4-2*e.Indent)
		if i == m.cursor {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		} else if e.Node.Kind == tree.KindFolder {
			line = theme.DefaultTheme.Info.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(entries) > vh {
		b.WriteString(lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf(" (%d-%d of %d)", start+1, end, len(entries))))
	}
	return b.String()
}

func (m Model) renderEditor() string {
	active := m.shell.Tabs().Active()
	if active == nil {
		return theme.DefaultTheme.Muted.Render("No open file")
	}
	var lines []string
	err := active.Engine().With(func(e editor.Engine) error {
		lines = e.Lines(m.editorWidth())
		return nil
	})
	if err != nil {
		return theme.DefaultTheme.Muted.Render(err.Error())
	}
	if vh := m.getViewportHeight(); len(lines) > vh {
		lines = lines[len(lines)-vh:]
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	var parts []string
	if active := m.shell.Tabs().Active(); active != nil {
		if label := active.ModeLabel(); label != "" {
			parts = append(parts, theme.DefaultTheme.Highlight.Render(label))
		}
		if active.HasPath() {
			parts = append(parts, shortenPath(active.Path()))
		}
	}
	if m.shell.Config().Wrap {
		parts = append(parts, "wrap")
	}
	if m.statusMessage != "" {
		parts = append(parts, theme.DefaultTheme.Info.Render(m.statusMessage))
	}
	return strings.Join(parts, "  ")
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mattsolo1/grove-core/tui/keymap"
)

// KeyMap defines the keybindings for the editor TUI
type KeyMap struct {
	keymap.Base
	New         key.Binding
	Open        key.Binding
	Save        key.Binding
	CloseTab    key.Binding
	NextTab     key.Binding
	PrevTab     key.Binding
	ToggleWrap  key.Binding
	SwitchFocus key.Binding
	Jump        key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchFocus, k.Save, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	baseHelp := k.Base.FullHelp()
	return append(baseHelp, []key.Binding{
		k.New,
		k.Open,
		k.Save,
		k.CloseTab,
	}, []key.Binding{
		k.NextTab,
		k.PrevTab,
		k.ToggleWrap,
		k.SwitchFocus,
		k.Jump,
	})
}

func newKeyMap() KeyMap {
	base := keymap.NewBase()
	base.Up = key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	)
	base.Down = key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	)
	base.Confirm = key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open / fold"),
	)
	base.Quit = key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	)

	return KeyMap{
		Base: base,
		New: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new tab"),
		),
		Open: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "open file"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "close tab"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		ToggleWrap: key.NewBinding(
			key.WithKeys("alt+z"),
			key.WithHelp("alt+z", "toggle wrap"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "tree / editor"),
		),
		Jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump to entry"),
		),
	}
}

var keys = newKeyMap()

package shell

import (
	"github.com/mattsolo1/grove-editor/pkg/dialog"
	"github.com/mattsolo1/grove-editor/pkg/tabs"
	"github.com/mattsolo1/grove-editor/pkg/tree"
)

// Commands accepted by the reducer. They are plain tea.Msg values so the
// terminal front-end can route them straight through its update loop.

// NewMsg opens a blank tab.
type NewMsg struct{}

// RequestOpenDialogMsg asks the user for a file to open.
type RequestOpenDialogMsg struct{}

// OpenPathMsg opens Path. Directories become projects, everything else a tab.
type OpenPathMsg struct {
	Path string
}

// SaveMsg saves the active tab, asking for a destination when it has none.
type SaveMsg struct{}

// SaveAsMsg binds a tab to Path and saves it. A zero Tab means the active tab.
type SaveAsMsg struct {
	Tab  tabs.ID
	Path string
}

// ActivateTabMsg makes a tab active.
type ActivateTabMsg struct {
	ID tabs.ID
}

// CloseTabMsg closes a tab. A zero ID means the active tab.
type CloseTabMsg struct {
	ID tabs.ID
}

// SelectNavEntryMsg selects a navigation entry.
type SelectNavEntryMsg struct {
	ID tree.ID
}

// SetWrapMsg changes the wrap option for every tab.
type SetWrapMsg struct {
	Wrap bool
}

// Effect is an outcome of a reduction that the driver has to carry out.
type Effect interface {
	effect()
}

// EmitTitle publishes a new header and window title.
type EmitTitle struct {
	Header string
	Window string
}

// SpawnDialog asks the driver to run a file dialog. Tab is the tab a save
// dialog resolves a destination for.
type SpawnDialog struct {
	Kind dialog.Kind
	Tab  tabs.ID
}

func (EmitTitle) effect()   {}
func (SpawnDialog) effect() {}

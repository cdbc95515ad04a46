package tabs

import (
	"path/filepath"

	"github.com/mattsolo1/grove-editor/pkg/editor"
)

// UntitledTitle is shown for tabs without a path.
const UntitledTitle = "Untitled"

// ID identifies a tab for the lifetime of the registry.
type ID uint64

// Tab is one open document. It exclusively owns its engine handle.
type Tab struct {
	ID     ID
	path   string
	handle *editor.Handle
}

// Title is the base name of the bound path, or UntitledTitle.
func (t *Tab) Title() string {
	if t.path == "" {
		return UntitledTitle
	}
	return filepath.Base(t.path)
}

func (t *Tab) Path() string           { return t.path }
func (t *Tab) HasPath() bool          { return t.path != "" }
func (t *Tab) SetPath(path string)    { t.path = path }
func (t *Tab) Engine() *editor.Handle { return t.handle }

// ModeLabel returns the engine's status label, or an empty string when the
// engine is busy.
func (t *Tab) ModeLabel() string {
	var label string
	_ = t.handle.With(func(e editor.Engine) error {
		label = e.ModeLabel()
		return nil
	})
	return label
}

// Dirty reports whether the document has unsaved changes.
func (t *Tab) Dirty() bool {
	var dirty bool
	_ = t.handle.With(func(e editor.Engine) error {
		dirty = e.Dirty()
		return nil
	})
	return dirty
}

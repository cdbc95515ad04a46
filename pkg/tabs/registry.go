package tabs

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/mattsolo1/grove-editor/pkg/editor"
	"github.com/mattsolo1/grove-editor/pkg/models"
	"github.com/sirupsen/logrus"
)

// Registry is the ordered set of open tabs with one active tab.
type Registry struct {
	factory editor.Factory
	config  models.Config
	logger  *logrus.Entry
	tabs    []*Tab
	active  ID
	nextID  ID
}

// NewRegistry creates an empty registry. Engines for new tabs come from
// factory and receive cfg before anything is loaded.
func NewRegistry(factory editor.Factory, cfg models.Config, logger *logrus.Entry) *Registry {
	if factory == nil {
		factory = editor.BufferFactory(nil)
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Registry{
		factory: factory,
		config:  cfg,
		logger:  logger.WithField("sub-component", "tabs"),
	}
}

// Open creates a tab, loads path into it when set, appends it and makes it
// active. Paths are stored absolute. A failed load is logged and the tab
// stays bound to path, so a later save creates the file.
func (r *Registry) Open(path string) *Tab {
	path = absPath(path)
	engine := r.factory()
	engine.ApplyConfig(r.config)
	if path != "" {
		if err := engine.Load(path); err != nil {
			r.logger.WithError(err).WithField("path", path).Error("failed to load document")
		}
	}

	r.nextID++
	tab := &Tab{ID: r.nextID, path: path, handle: editor.NewHandle(engine)}
	r.tabs = append(r.tabs, tab)
	r.active = tab.ID
	r.logger.WithFields(logrus.Fields{"tab": tab.ID, "path": path}).Debug("opened tab")
	return tab
}

// FindByPath returns the tab bound to path. Relative paths are resolved
// against the working directory before comparing.
func (r *Registry) FindByPath(path string) *Tab {
	if path == "" {
		return nil
	}
	want := absPath(path)
	for _, t := range r.tabs {
		if t.path != "" && absPath(t.path) == want {
			return t
		}
	}
	return nil
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Get returns the tab with id.
func (r *Registry) Get(id ID) (*Tab, bool) {
	pos, ok := r.Position(id)
	if !ok {
		return nil, false
	}
	return r.tabs[pos], true
}

// Position returns the 0-based index of id.
func (r *Registry) Position(id ID) (int, bool) {
	for i, t := range r.tabs {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Close removes a tab. The tab before it becomes active, or the one after it
// when it was first. Closing the last tab opens a blank one.
func (r *Registry) Close(id ID) error {
	pos, ok := r.Position(id)
	if !ok {
		return fmt.Errorf("close tab %d: %w", id, ErrUnknownTab)
	}
	switch {
	case pos > 0:
		r.active = r.tabs[pos-1].ID
	case pos+1 < len(r.tabs):
		r.active = r.tabs[pos+1].ID
	default:
		r.active = 0
	}
	r.tabs = slices.Delete(r.tabs, pos, pos+1)

	if len(r.tabs) == 0 {
		r.Open("")
	}
	return nil
}

// Activate makes id the active tab.
func (r *Registry) Activate(id ID) error {
	if _, ok := r.Position(id); !ok {
		return fmt.Errorf("activate tab %d: %w", id, ErrUnknownTab)
	}
	r.active = id
	return nil
}

// Active returns the active tab, or nil when there is none.
func (r *Registry) Active() *Tab {
	t, _ := r.Get(r.active)
	return t
}

// Tabs returns the tabs in display order.
func (r *Registry) Tabs() []*Tab {
	return slices.Clone(r.tabs)
}

func (r *Registry) Len() int {
	return len(r.tabs)
}

// Config returns the configuration given to new engines.
func (r *Registry) Config() models.Config {
	return r.config
}

// ApplyConfig stores cfg and fans it out to every tab engine. A busy engine
// is skipped with a warning.
func (r *Registry) ApplyConfig(cfg models.Config) {
	r.config = cfg
	for _, t := range r.tabs {
		err := t.handle.With(func(e editor.Engine) error {
			e.ApplyConfig(cfg)
			return nil
		})
		if err != nil {
			r.logger.WithError(err).WithField("tab", t.ID).Warn("failed to apply config")
		}
	}
}

// SaveActive persists the active tab to its path.
func (r *Registry) SaveActive() error {
	t := r.Active()
	if t == nil {
		return ErrNoActiveTab
	}
	return r.Save(t.ID)
}

// Save persists tab id to its bound path. Untitled tabs return ErrNoPath; the
// caller resolves a destination and uses SaveAs.
func (r *Registry) Save(id ID) error {
	t, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("save tab %d: %w", id, ErrUnknownTab)
	}
	if !t.HasPath() {
		return fmt.Errorf("save tab %d: %w", id, ErrNoPath)
	}
	return r.persist(t)
}

// SaveAs binds tab id to path and persists it there. A path already bound to
// another tab is rejected with ErrPathOpen and nothing is written.
func (r *Registry) SaveAs(id ID, path string) error {
	t, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("save tab %d: %w", id, ErrUnknownTab)
	}
	path = absPath(path)
	if other := r.FindByPath(path); other != nil && other.ID != id {
		return fmt.Errorf("save tab %d as %s: %w (tab %d)", id, path, ErrPathOpen, other.ID)
	}
	t.SetPath(path)
	return r.persist(t)
}

func (r *Registry) persist(t *Tab) error {
	err := t.handle.With(func(e editor.Engine) error {
		return e.Persist(t.path)
	})
	if err != nil {
		return fmt.Errorf("save tab %d: %w", t.ID, err)
	}
	r.logger.WithFields(logrus.Fields{"tab": t.ID, "path": t.path}).Debug("saved tab")
	return nil
}

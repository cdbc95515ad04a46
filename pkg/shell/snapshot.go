package shell

import (
	"github.com/mattsolo1/grove-editor/pkg/tabs"
	"github.com/mattsolo1/grove-editor/pkg/tree"
	"gopkg.in/yaml.v3"
)

// Snapshot is a serialisable view of the shell state.
type Snapshot struct {
	Title       string     `yaml:"title"`
	WindowTitle string     `yaml:"window_title"`
	NavActive   bool       `yaml:"nav_active"`
	Wrap        bool       `yaml:"wrap"`
	Nav         []NavEntry `yaml:"nav,omitempty"`
	Tabs        []TabEntry `yaml:"tabs"`
}

type NavEntry struct {
	ID     tree.ID `yaml:"id"`
	Indent int     `yaml:"indent"`
	Kind   string  `yaml:"kind"`
	Name   string  `yaml:"name"`
	Path   string  `yaml:"path"`
	Icon   string  `yaml:"icon"`
	Open   bool    `yaml:"open,omitempty"`
	Root   bool    `yaml:"root,omitempty"`
}

type TabEntry struct {
	ID     tabs.ID `yaml:"id"`
	Title  string  `yaml:"title"`
	Path   string  `yaml:"path,omitempty"`
	Active bool    `yaml:"active,omitempty"`
	Dirty  bool    `yaml:"dirty,omitempty"`
	Mode   string  `yaml:"mode,omitempty"`
}

// Snapshot captures the current state.
func (s *Shell) Snapshot() Snapshot {
	snap := Snapshot{
		Title:       s.Title(),
		WindowTitle: s.WindowTitle(),
		NavActive:   s.NavActive(),
		Wrap:        s.config.Wrap,
	}
	for _, e := range s.nav.Entries() {
		snap.Nav = append(snap.Nav, NavEntry{
			ID:     e.ID,
			Indent: e.Indent,
			Kind:   e.Node.Kind.String(),
			Name:   e.Node.Name,
			Path:   e.Node.Path,
			Icon:   string(tree.IconCategory(e.Node)),
			Open:   e.Node.Open,
			Root:   e.Node.Root,
		})
	}
	active := s.tabs.Active()
	for _, t := range s.tabs.Tabs() {
		snap.Tabs = append(snap.Tabs, TabEntry{
			ID:     t.ID,
			Title:  t.Title(),
			Path:   t.Path(),
			Active: active != nil && active.ID == t.ID,
			Dirty:  t.Dirty(),
			Mode:   t.ModeLabel(),
		})
	}
	return snap
}

// YAML renders the snapshot.
func (s Snapshot) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

package tree

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// ID identifies an entry independently of its position.
type ID uint64

// Entry is one row of the navigation tree.
type Entry struct {
	ID     ID
	Indent int
	Node   Node
}

// Navigation is a flat, indent-encoded tree of filesystem entries. All
// descendants of a folder occupy the contiguous run of entries directly after
// it whose indent is greater than the folder's.
type Navigation struct {
	fs      afero.Fs
	logger  *logrus.Entry
	entries []Entry
	nextID  ID
}

// NewNavigation creates an empty tree reading from fs.
func NewNavigation(fs afero.Fs, logger *logrus.Entry) *Navigation {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Navigation{
		fs:     fs,
		logger: logger.WithField("sub-component", "navigation"),
	}
}

// Len returns the number of materialized entries.
func (n *Navigation) Len() int {
	return len(n.entries)
}

// Entries returns a copy of the entries in display order.
func (n *Navigation) Entries() []Entry {
	return slices.Clone(n.entries)
}

// Entry returns the entry for id.
func (n *Navigation) Entry(id ID) (Entry, bool) {
	pos, ok := n.Position(id)
	if !ok {
		return Entry{}, false
	}
	return n.entries[pos], true
}

// Position returns the 0-based index of id.
func (n *Navigation) Position(id ID) (int, bool) {
	for i, e := range n.entries {
		if e.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Indent returns the depth of id.
func (n *Navigation) Indent(id ID) (int, bool) {
	e, ok := n.Entry(id)
	return e.Indent, ok
}

// Node returns the node stored for id.
func (n *Navigation) Node(id ID) (Node, bool) {
	e, ok := n.Entry(id)
	return e.Node, ok
}

// EntityAt returns the id found at position.
func (n *Navigation) EntityAt(position int) (ID, bool) {
	if position < 0 || position >= len(n.entries) {
		return 0, false
	}
	return n.entries[position].ID, true
}

// InsertAt inserts node at position with the given indent and returns its id.
// Out of range positions are clamped to the sequence bounds.
func (n *Navigation) InsertAt(position, indent int, node Node) ID {
	position = max(0, min(position, len(n.entries)))
	entry := n.newEntry(max(indent, 0), node)
	n.entries = slices.Insert(n.entries, position, entry)
	return entry.ID
}

func (n *Navigation) newEntry(indent int, node Node) Entry {
	n.nextID++
	return Entry{ID: n.nextID, Indent: indent, Node: node}
}

// Remove deletes an entry together with its descendants.
func (n *Navigation) Remove(id ID) bool {
	pos, ok := n.Position(id)
	if !ok {
		return false
	}
	n.entries = slices.Delete(n.entries, pos, n.subtreeEnd(pos))
	return true
}

// subtreeEnd returns the position just past the descendants of pos.
func (n *Navigation) subtreeEnd(pos int) int {
	indent := n.entries[pos].Indent
	end := pos + 1
	for end < len(n.entries) && n.entries[end].Indent > indent {
		end++
	}
	return end
}

func (n *Navigation) folderAt(id ID, op string) (int, error) {
	pos, ok := n.Position(id)
	if !ok {
		return 0, fmt.Errorf("%s %d: %w", op, id, ErrUnknownID)
	}
	if !n.entries[pos].Node.IsFolder() {
		return 0, fmt.Errorf("%s %s: %w", op, n.entries[pos].Node.Path, ErrNotFolder)
	}
	return pos, nil
}

// Expand materializes the children of a collapsed folder directly after it.
// Children that cannot be classified are logged and skipped. If the directory
// cannot be read at all the folder stays collapsed.
func (n *Navigation) Expand(id ID) error {
	pos, err := n.folderAt(id, "expand")
	if err != nil {
		return err
	}
	folder := n.entries[pos]
	if folder.Node.Open {
		return nil
	}

	children, err := n.readChildren(folder.Node.Path)
	if err != nil {
		n.logger.WithError(err).WithField("path", folder.Node.Path).Error("failed to read directory")
		return err
	}
	Sort(children)

	added := make([]Entry, 0, len(children))
	for _, child := range children {
		added = append(added, n.newEntry(folder.Indent+1, child))
	}
	n.entries = slices.Insert(n.entries, pos+1, added...)
	n.entries[pos].Node.Open = true
	return nil
}

func (n *Navigation) readChildren(dir string) ([]Node, error) {
	infos, err := afero.ReadDir(n.fs, dir)
	if err != nil {
		return nil, &FilesystemError{Op: "readdir", Path: dir, Err: err}
	}

	nodes := make([]Node, 0, len(infos))
	for _, info := range infos {
		childPath := filepath.Join(dir, info.Name())
		node, err := Classify(n.fs, childPath)
		if err != nil {
			n.logger.WithError(err).WithFields(logrus.Fields{
				"dir":   dir,
				"entry": childPath,
			}).Error("failed to open directory entry")
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Collapse removes every descendant of a folder and marks it closed.
func (n *Navigation) Collapse(id ID) error {
	pos, err := n.folderAt(id, "collapse")
	if err != nil {
		return err
	}
	n.entries = slices.Delete(n.entries, pos+1, n.subtreeEnd(pos))
	n.entries[pos].Node.Open = false
	return nil
}

// Toggle expands a collapsed folder or collapses an open one.
func (n *Navigation) Toggle(id ID) error {
	pos, err := n.folderAt(id, "toggle")
	if err != nil {
		return err
	}
	if n.entries[pos].Node.Open {
		return n.Collapse(id)
	}
	return n.Expand(id)
}

// Select handles a user selection. Folders are toggled; files are returned
// unchanged so the caller can open them.
func (n *Navigation) Select(id ID) (Node, error) {
	node, ok := n.Node(id)
	if !ok {
		return Node{}, fmt.Errorf("select %d: %w", id, ErrUnknownID)
	}
	if !node.IsFolder() {
		return node, nil
	}
	if err := n.Toggle(id); err != nil {
		return node, err
	}
	node, _ = n.Node(id)
	return node, nil
}

// OpenProject appends path as an expanded root folder. Non-directories are
// rejected without touching the tree.
func (n *Navigation) OpenProject(path string) (ID, error) {
	node, err := Classify(n.fs, path)
	if err != nil {
		n.logger.WithError(err).WithField("path", path).Error("failed to open project")
		return 0, err
	}
	if !node.IsFolder() {
		err := fmt.Errorf("open project %s: %w", path, ErrInvalidProjectRoot)
		n.logger.WithField("path", path).Error("failed to open project: not a directory")
		return 0, err
	}

	node.Root = true
	id := n.InsertAt(len(n.entries), 0, node)
	if err := n.Expand(id); err != nil {
		return id, err
	}
	return id, nil
}

// Roots returns the ids of project root entries.
func (n *Navigation) Roots() []ID {
	var ids []ID
	for _, e := range n.entries {
		if e.Node.Root {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Match returns the ids of entries whose name fuzzily matches query, best
// match first.
func (n *Navigation) Match(query string) []ID {
	query = strings.TrimSpace(query)
	if query == "" || len(n.entries) == 0 {
		return nil
	}
	names := make([]string, len(n.entries))
	for i, e := range n.entries {
		names[i] = e.Node.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	ids := make([]ID, 0, len(ranks))
	for _, r := range ranks {
		ids = append(ids, n.entries[r.OriginalIndex].ID)
	}
	return ids
}

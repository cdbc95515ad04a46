package tree

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Kind categorizes the entries shown in the navigation tree.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Node describes a single filesystem entry. Name is derived from Path when the
// node is built and never recomputed; Open and Root only apply to folders.
type Node struct {
	Kind Kind
	Path string
	Name string
	Open bool
	Root bool
}

// NewFolder builds a collapsed folder node for path.
func NewFolder(path string) Node {
	return Node{Kind: KindFolder, Path: path, Name: nodeName(path)}
}

// NewFile builds a file node for path.
func NewFile(path string) Node {
	return Node{Kind: KindFile, Path: path, Name: nodeName(path)}
}

// IsFolder reports whether the node is a directory.
func (n Node) IsFolder() bool {
	return n.Kind == KindFolder
}

func nodeName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == string(filepath.Separator) {
		return path
	}
	return name
}

// Classify stats path and returns the matching node. Symlinks are followed.
func Classify(fs afero.Fs, path string) (Node, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return Node{}, &FilesystemError{Op: "stat", Path: path, Err: err}
	}
	if info.IsDir() {
		return NewFolder(path), nil
	}
	return NewFile(path), nil
}

// Icon is a freedesktop icon name used as a presentation hint.
type Icon string

const (
	IconFolder     Icon = "folder-symbolic"
	IconFolderOpen Icon = "folder-open-symbolic"
	IconText       Icon = "text-x-generic"
	IconSource     Icon = "text-x-script"
	IconMarkup     Icon = "text-html"
	IconData       Icon = "application-json"
	IconImage      Icon = "image-x-generic"
	IconArchive    Icon = "package-x-generic"
	IconExecutable Icon = "application-x-executable"
)

var iconsByExtension = map[string]Icon{
	".go":   IconSource,
	".rs":   IconSource,
	".py":   IconSource,
	".c":    IconSource,
	".h":    IconSource,
	".cpp":  IconSource,
	".hpp":  IconSource,
	".java": IconSource,
	".js":   IconSource,
	".ts":   IconSource,
	".rb":   IconSource,
	".lua":  IconSource,
	".sh":   IconExecutable,
	".bash": IconExecutable,
	".zsh":  IconExecutable,
	".html": IconMarkup,
	".htm":  IconMarkup,
	".xml":  IconMarkup,
	".md":   IconMarkup,
	".json": IconData,
	".yaml": IconData,
	".yml":  IconData,
	".toml": IconData,
	".csv":  IconData,
	".png":  IconImage,
	".jpg":  IconImage,
	".jpeg": IconImage,
	".gif":  IconImage,
	".svg":  IconImage,
	".zip":  IconArchive,
	".tar":  IconArchive,
	".gz":   IconArchive,
	".xz":   IconArchive,
}

// IconCategory returns the icon used to present node.
func IconCategory(n Node) Icon {
	if n.IsFolder() {
		if n.Open {
			return IconFolderOpen
		}
		return IconFolder
	}
	if icon, ok := iconsByExtension[strings.ToLower(filepath.Ext(n.Name))]; ok {
		return icon
	}
	return IconText
}

// collate.Collator keeps internal buffers, so access is serialized.
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase, collate.Numeric)
)

// Compare orders folders before files, then names case-insensitively. Ties
// fall back to a byte comparison of the name and finally the path, so the
// order is total.
func Compare(a, b Node) int {
	if a.IsFolder() != b.IsFolder() {
		if a.IsFolder() {
			return -1
		}
		return 1
	}
	collatorMu.Lock()
	c := collator.CompareString(a.Name, b.Name)
	collatorMu.Unlock()
	if c != 0 {
		return c
	}
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.Path, b.Path)
}

// Sort orders sibling nodes in place using Compare.
func Sort(nodes []Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return Compare(nodes[i], nodes[j]) < 0
	})
}

package tree

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj/sub", 0755))
	require.NoError(t, afero.WriteFile(fs, "/proj/readme.md", []byte("# hi"), 0644))

	folder, err := Classify(fs, "/proj/sub")
	require.NoError(t, err)
	assert.Equal(t, KindFolder, folder.Kind)
	assert.Equal(t, "sub", folder.Name)
	assert.False(t, folder.Open)
	assert.False(t, folder.Root)

	file, err := Classify(fs, "/proj/readme.md")
	require.NoError(t, err)
	assert.Equal(t, KindFile, file.Kind)
	assert.Equal(t, "readme.md", file.Name)

	_, err = Classify(fs, "/proj/missing.txt")
	require.Error(t, err)
	var fsErr *FilesystemError
	require.ErrorAs(t, err, &fsErr)
	assert.Equal(t, "stat", fsErr.Op)
	assert.Equal(t, "/proj/missing.txt", fsErr.Path)
}

func TestNameIsFixedAtConstruction(t *testing.T) {
	n := NewFile("/x/y/readme.md")
	n.Path = "/x/y/other.txt"
	assert.Equal(t, "readme.md", n.Name)
}

func TestIconCategory(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want Icon
	}{
		{"closed folder", NewFolder("/p/src"), IconFolder},
		{"open folder", Node{Kind: KindFolder, Path: "/p/src", Name: "src", Open: true}, IconFolderOpen},
		{"go source", NewFile("/p/main.go"), IconSource},
		{"upper case extension", NewFile("/p/LOGO.PNG"), IconImage},
		{"markdown", NewFile("/p/readme.md"), IconMarkup},
		{"no extension", NewFile("/p/Makefile"), IconText},
		{"script", NewFile("/p/run.sh"), IconExecutable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IconCategory(tt.node))
		})
	}
}

func TestCompareFoldersFirstThenCaseInsensitive(t *testing.T) {
	nodes := []Node{
		NewFile("/p/b.txt"),
		NewFile("/p/B.txt"),
		NewFolder("/p/zeta"),
		NewFile("/p/a.txt"),
		NewFolder("/p/Alpha"),
		NewFile("/p/file10.txt"),
		NewFile("/p/file2.txt"),
	}
	Sort(nodes)

	var names []string
	for _, n := range nodes {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Alpha", "zeta", "a.txt", "B.txt", "b.txt", "file2.txt", "file10.txt"}, names)
}

func TestSortIsDeterministic(t *testing.T) {
	unsorted := []Node{
		NewFile("/p/c"), NewFolder("/p/b"), NewFile("/p/A"), NewFile("/p/a"),
		NewFolder("/p/B"), NewFile("/q/a"), NewFile("/p/_x"),
	}
	first := append([]Node(nil), unsorted...)
	second := append([]Node(nil), unsorted...)
	// Reverse the second input so stability cannot mask a partial order.
	for i, j := 0, len(second)-1; i < j; i, j = i+1, j-1 {
		second[i], second[j] = second[j], second[i]
	}
	Sort(first)
	Sort(second)
	assert.Equal(t, first, second)
}

func TestCompareIsAntisymmetric(t *testing.T) {
	a := NewFile("/p/a")
	b := NewFile("/p/A")
	assert.Equal(t, -Compare(a, b), Compare(b, a))
	assert.Zero(t, Compare(a, a))
}

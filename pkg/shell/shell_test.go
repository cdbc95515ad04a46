package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-editor/pkg/dialog"
	"github.com/mattsolo1/grove-editor/pkg/editor"
	"github.com/mattsolo1/grove-editor/pkg/history"
	"github.com/mattsolo1/grove-editor/pkg/models"
	"github.com/mattsolo1/grove-editor/pkg/tree"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type recorded struct {
	kind history.Kind
	path string
}

type fakeRecorder struct {
	entries []recorded
	err     error
}

func (f *fakeRecorder) Record(_ context.Context, kind history.Kind, path string) error {
	f.entries = append(f.entries, recorded{kind, path})
	return f.err
}

type fixture struct {
	shell    *Shell
	fs       afero.Fs
	recorder *fakeRecorder
}

func newFixture(t *testing.T, picker dialog.Picker) fixture {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj/sub", 0755))
	require.NoError(t, afero.WriteFile(fs, "/proj/a.txt", []byte("alpha"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/proj/b.txt", []byte("beta"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/proj/sub/inner.txt", []byte("inner"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/x/y/readme.md", []byte("# readme"), 0644))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	rec := &fakeRecorder{}
	if picker == nil {
		picker = dialog.Static{}
	}
	s := New(Options{
		Fs:       fs,
		Picker:   picker,
		Recorder: rec,
		Config:   models.DefaultConfig(),
		Logger:   logrus.NewEntry(logger),
	})
	return fixture{shell: s, fs: fs, recorder: rec}
}

func titleOf(t *testing.T, effects []Effect) EmitTitle {
	t.Helper()
	for _, e := range effects {
		if title, ok := e.(EmitTitle); ok {
			return title
		}
	}
	t.Fatalf("no title effect in %v", effects)
	return EmitTitle{}
}

func navNames(s *Shell) []string {
	var out []string
	for _, e := range s.Nav().Entries() {
		out = append(out, e.Node.Name)
	}
	return out
}

func TestInitWithoutArgsOpensBlankTab(t *testing.T) {
	f := newFixture(t, nil)
	effects := f.shell.Init(nil)

	require.Equal(t, 1, f.shell.Tabs().Len())
	assert.False(t, f.shell.NavActive())
	assert.Equal(t, EmitTitle{Header: "Untitled", Window: "Untitled - Grove Editor"}, titleOf(t, effects))
}

func TestInitSingleFile(t *testing.T) {
	f := newFixture(t, nil)
	effects := f.shell.Init([]string{"/x/y/readme.md"})

	require.Equal(t, 1, f.shell.Tabs().Len())
	active := f.shell.Tabs().Active()
	require.NotNil(t, active)
	assert.Equal(t, "readme.md", active.Title())
	assert.False(t, f.shell.NavActive())
	assert.Equal(t, "readme.md - Grove Editor", titleOf(t, effects).Window)
	assert.Equal(t, []recorded{{history.KindFile, "/x/y/readme.md"}}, f.recorder.entries)
}

func TestInitProject(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj"})

	assert.True(t, f.shell.NavActive())
	assert.Equal(t, []string{"proj", "sub", "a.txt", "b.txt"}, navNames(f.shell))
	assert.Equal(t, 1, f.shell.Tabs().Len(), "blank tab keeps the registry non-empty")
	assert.Equal(t, []recorded{{history.KindProject, "/proj"}}, f.recorder.entries)
}

func TestInitKeepsArgumentOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj/b.txt", "/proj", "/proj/a.txt"})

	var got []string
	for _, tab := range f.shell.Tabs().Tabs() {
		got = append(got, tab.Title())
	}
	assert.Equal(t, []string{"b.txt", "a.txt"}, got)
	assert.Equal(t, "a.txt", f.shell.Title())
	assert.True(t, f.shell.NavActive())
}

func TestTitleWithNoTabs(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, NoOpenFileTitle, f.shell.Title())
	assert.Equal(t, "No Open File - Grove Editor", f.shell.WindowTitle())
}

func TestNewAndClose(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj/a.txt"})

	effects := f.shell.Reduce(NewMsg{})
	assert.Equal(t, "Untitled", titleOf(t, effects).Header)
	require.Equal(t, 2, f.shell.Tabs().Len())

	effects = f.shell.Reduce(CloseTabMsg{})
	assert.Equal(t, "a.txt", titleOf(t, effects).Header)
	assert.Equal(t, "a.txt", f.shell.Header())

	first := f.shell.Tabs().Active()
	effects = f.shell.Reduce(CloseTabMsg{ID: first.ID})
	require.Equal(t, 1, f.shell.Tabs().Len())
	assert.Equal(t, "Untitled", titleOf(t, effects).Header)
}

func TestActivateTab(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj/a.txt", "/proj/b.txt"})
	first := f.shell.Tabs().Tabs()[0]

	effects := f.shell.Reduce(ActivateTabMsg{ID: first.ID})
	assert.Equal(t, "a.txt", titleOf(t, effects).Header)

	effects = f.shell.Reduce(ActivateTabMsg{ID: 404})
	assert.Equal(t, "a.txt", titleOf(t, effects).Header)
}

func TestSelectNavEntry(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj"})
	sub, _ := f.shell.Nav().EntityAt(1)

	assert.Empty(t, f.shell.Reduce(SelectNavEntryMsg{ID: sub}))
	assert.Equal(t, []string{"proj", "sub", "inner.txt", "a.txt", "b.txt"}, navNames(f.shell))

	file, _ := f.shell.Nav().EntityAt(2)
	effects := f.shell.Reduce(SelectNavEntryMsg{ID: file})
	assert.Equal(t, "inner.txt", titleOf(t, effects).Header)
	assert.Equal(t, 2, f.shell.Tabs().Len())

	assert.Empty(t, f.shell.Reduce(SelectNavEntryMsg{ID: tree.ID(999)}))
}

func TestReopeningPathActivatesExistingTab(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj/a.txt", "/proj/b.txt"})
	first := f.shell.Tabs().Tabs()[0]

	effects := f.shell.Reduce(OpenPathMsg{Path: "/proj/sub/../a.txt"})
	assert.Equal(t, 2, f.shell.Tabs().Len())
	assert.Equal(t, first, f.shell.Tabs().Active())
	assert.Equal(t, "a.txt", titleOf(t, effects).Header)

	f.shell.Reduce(OpenPathMsg{Path: "/proj"})
	file, _ := f.shell.Nav().EntityAt(3)
	node, _ := f.shell.Nav().Node(file)
	require.Equal(t, "b.txt", node.Name)
	f.shell.Reduce(SelectNavEntryMsg{ID: file})
	assert.Equal(t, 2, f.shell.Tabs().Len())
	assert.Equal(t, "b.txt", f.shell.Title())
}

func TestRelativeArgumentAndTreeEntryShareATab(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0644))
	t.Chdir(dir)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(Options{Fs: afero.NewOsFs(), Picker: dialog.Static{}, Logger: logrus.NewEntry(logger)})
	s.Init([]string{dir, "a.txt"})
	require.Equal(t, 1, s.Tabs().Len())
	assert.Equal(t, filepath.Join(dir, "a.txt"), s.Tabs().Active().Path())

	file, ok := s.Nav().EntityAt(1)
	require.True(t, ok)
	node, _ := s.Nav().Node(file)
	require.Equal(t, filepath.Join(dir, "a.txt"), node.Path)

	s.Reduce(SelectNavEntryMsg{ID: file})
	assert.Equal(t, 1, s.Tabs().Len())

	s.Reduce(OpenPathMsg{Path: "./a.txt"})
	assert.Equal(t, 1, s.Tabs().Len())
}

func TestReopeningProjectKeepsSingleRoot(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj"})

	f.shell.Reduce(OpenPathMsg{Path: "/proj/"})
	f.shell.Reduce(OpenPathMsg{Path: "/proj/sub/.."})
	assert.Len(t, f.shell.Nav().Roots(), 1)
	assert.Equal(t, []string{"proj", "sub", "a.txt", "b.txt"}, navNames(f.shell))
	assert.Equal(t, []recorded{{history.KindProject, "/proj"}}, f.recorder.entries)
}

func TestSaveAsOverAnotherOpenTabIsRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj/a.txt"})
	f.shell.Reduce(NewMsg{})
	blank := f.shell.Tabs().Active()

	f.shell.Reduce(SaveAsMsg{Tab: blank.ID, Path: "/proj/a.txt"})
	assert.False(t, blank.HasPath())
	data, err := afero.ReadFile(f.fs, "/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha", string(data))
	assert.Equal(t, []recorded{{history.KindFile, "/proj/a.txt"}}, f.recorder.entries)
}

func TestOpenDialogFlow(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init(nil)

	effects := f.shell.Reduce(RequestOpenDialogMsg{})
	require.Equal(t, []Effect{SpawnDialog{Kind: dialog.KindOpen}}, effects)

	msg, err := resolveDialog(context.Background(), dialog.Static{Open: "/proj/b.txt"}, effects[0].(SpawnDialog))
	require.NoError(t, err)
	require.Equal(t, OpenPathMsg{Path: "/proj/b.txt"}, msg)

	f.shell.Reduce(msg)
	assert.Equal(t, "b.txt", f.shell.Title())

	msg, err = resolveDialog(context.Background(), dialog.Static{}, SpawnDialog{Kind: dialog.KindOpen})
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestUpdateRunsDialogOffLoop(t *testing.T) {
	f := newFixture(t, dialog.Static{Open: "/proj/a.txt"})
	f.shell.Init(nil)

	cmd := f.shell.Update(RequestOpenDialogMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, 1, f.shell.Tabs().Len(), "dialog must not mutate state")

	assert.Equal(t, OpenPathMsg{Path: "/proj/a.txt"}, cmd())
}

func TestUpdateEmitsWindowTitle(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init(nil)

	cmd := f.shell.Update(NewMsg{})
	require.NotNil(t, cmd)
	assert.NotNil(t, cmd())
	assert.Nil(t, f.shell.Update(SetWrapMsg{Wrap: true}))
}

func TestSaveFlows(t *testing.T) {
	f := newFixture(t, dialog.Static{Save: "/out.txt"})
	f.shell.Init([]string{"/proj/a.txt"})
	ctx := context.Background()

	active := f.shell.Tabs().Active()
	require.NoError(t, active.Engine().With(func(e editor.Engine) error {
		e.InsertText("!")
		return nil
	}))
	assert.Empty(t, f.shell.Reduce(SaveMsg{}))
	data, err := afero.ReadFile(f.fs, "/proj/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "alpha!", string(data))

	f.shell.Reduce(NewMsg{})
	blank := f.shell.Tabs().Active()
	effects := f.shell.Reduce(SaveMsg{})
	assert.Equal(t, []Effect{SpawnDialog{Kind: dialog.KindSave, Tab: blank.ID}}, effects)

	require.NoError(t, f.shell.Apply(ctx, SaveMsg{}))
	assert.Equal(t, "out.txt", blank.Title())
	assert.Equal(t, "out.txt", f.shell.Header())
	exists, err := afero.Exists(f.fs, "/out.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSaveAsTargetsTheRequestingTab(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init(nil)
	blank := f.shell.Tabs().Active()
	f.shell.Reduce(OpenPathMsg{Path: "/proj/a.txt"})

	f.shell.Reduce(SaveAsMsg{Tab: blank.ID, Path: "/draft.txt"})
	assert.Equal(t, "draft.txt", blank.Title())
	assert.Equal(t, "a.txt", f.shell.Title())
}

func TestSaveWithNoActiveTab(t *testing.T) {
	f := newFixture(t, nil)
	assert.Empty(t, f.shell.Reduce(SaveMsg{}))
}

func TestApplyPropagatesDialogErrors(t *testing.T) {
	boom := errors.New("no display")
	f := newFixture(t, dialog.Static{Err: boom})
	f.shell.Init(nil)

	err := f.shell.Apply(context.Background(), RequestOpenDialogMsg{})
	assert.ErrorIs(t, err, boom)
}

func TestApplyCancelledDialogIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init(nil)

	require.NoError(t, f.shell.Apply(context.Background(), RequestOpenDialogMsg{}))
	assert.Equal(t, 1, f.shell.Tabs().Len())
}

func TestSetWrapBroadcasts(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj/a.txt", "/proj/b.txt"})

	f.shell.Reduce(SetWrapMsg{Wrap: true})
	assert.True(t, f.shell.Config().Wrap)
	for _, tab := range f.shell.Tabs().Tabs() {
		require.NoError(t, tab.Engine().With(func(e editor.Engine) error {
			assert.True(t, e.Wrap())
			return nil
		}))
	}

	f.shell.Reduce(NewMsg{})
	require.NoError(t, f.shell.Tabs().Active().Engine().With(func(e editor.Engine) error {
		assert.True(t, e.Wrap())
		return nil
	}))
}

func TestRecorderFailuresAreNotFatal(t *testing.T) {
	f := newFixture(t, nil)
	f.recorder.err = errors.New("disk full")
	f.shell.Init([]string{"/proj/a.txt"})
	assert.Equal(t, "a.txt", f.shell.Title())
}

func TestUnknownMessagesAreIgnored(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init(nil)
	assert.Nil(t, f.shell.Reduce(tea.WindowSizeMsg{Width: 10}))
	assert.Empty(t, f.shell.Reduce(OpenPathMsg{}))
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.Init([]string{"/proj", "/proj/a.txt"})

	snap := f.shell.Snapshot()
	assert.Equal(t, "a.txt", snap.Title)
	assert.True(t, snap.NavActive)
	require.Len(t, snap.Nav, 4)
	assert.Equal(t, NavEntry{ID: snap.Nav[0].ID, Kind: "folder", Name: "proj", Path: "/proj", Icon: "folder-open-symbolic", Open: true, Root: true}, snap.Nav[0])
	require.Len(t, snap.Tabs, 1)
	assert.True(t, snap.Tabs[0].Active)

	out, err := snap.YAML()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "a.txt - Grove Editor", decoded["window_title"])
}

func TestReplayScript(t *testing.T) {
	f := newFixture(t, dialog.Static{Open: "/proj/b.txt", Save: "/saved.txt"})
	ctx := context.Background()
	f.shell.Init([]string{"/proj"})

	msgs, err := ParseScript(strings.NewReader(`
# open two files, save the blank one somewhere
open /proj/a.txt
open
activate 1
save
close
wrap on
`))
	require.NoError(t, err)
	for _, msg := range msgs {
		require.NoError(t, f.shell.Apply(ctx, msg))
	}

	var got []string
	for _, tab := range f.shell.Tabs().Tabs() {
		got = append(got, tab.Title())
	}
	assert.Equal(t, []string{"a.txt", "b.txt"}, got)
	assert.Equal(t, "a.txt", f.shell.Title())
	assert.True(t, f.shell.Config().Wrap)
	exists, err := afero.Exists(f.fs, "/saved.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

package shell

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-editor/pkg/dialog"
	"github.com/mattsolo1/grove-editor/pkg/editor"
	"github.com/mattsolo1/grove-editor/pkg/history"
	"github.com/mattsolo1/grove-editor/pkg/models"
	"github.com/mattsolo1/grove-editor/pkg/tabs"
	"github.com/mattsolo1/grove-editor/pkg/tree"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// NoOpenFileTitle is the header shown when no tab is active.
const NoOpenFileTitle = "No Open File"

// Options configures a Shell. Zero values fall back to the real filesystem, a
// zenity picker and no history.
type Options struct {
	Fs       afero.Fs
	Picker   dialog.Picker
	Recorder history.Recorder
	Config   models.Config
	Logger   *logrus.Entry
}

// Shell owns the navigation tree and the tab registry and is the only place
// either is mutated from. It is not safe for concurrent use.
type Shell struct {
	fs       afero.Fs
	nav      *tree.Navigation
	tabs     *tabs.Registry
	config   models.Config
	picker   dialog.Picker
	recorder history.Recorder
	logger   *logrus.Entry
	header   string
}

// New creates a shell with an empty tree and registry. Call Init before
// handing it to a driver.
func New(opts Options) *Shell {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.New())
	}
	if opts.Picker == nil {
		opts.Picker = dialog.NewCommand(dialog.DefaultOpenCommand, dialog.DefaultSaveCommand, opts.Logger)
	}
	return &Shell{
		fs:       opts.Fs,
		nav:      tree.NewNavigation(opts.Fs, opts.Logger),
		tabs:     tabs.NewRegistry(editor.BufferFactory(opts.Fs), opts.Config, opts.Logger),
		config:   opts.Config,
		picker:   opts.Picker,
		recorder: opts.Recorder,
		logger:   opts.Logger.WithField("sub-component", "shell"),
		header:   NoOpenFileTitle,
	}
}

func (s *Shell) Nav() *tree.Navigation { return s.nav }
func (s *Shell) Tabs() *tabs.Registry  { return s.tabs }
func (s *Shell) Config() models.Config { return s.config }

// Header returns the last emitted header title.
func (s *Shell) Header() string { return s.header }

// NavActive reports whether the navigation panel has anything to show.
func (s *Shell) NavActive() bool {
	return s.nav.Len() > 0
}

// Title is the active tab's title, or NoOpenFileTitle.
func (s *Shell) Title() string {
	if t := s.tabs.Active(); t != nil {
		return t.Title()
	}
	return NoOpenFileTitle
}

// WindowTitle is Title with the product name appended.
func (s *Shell) WindowTitle() string {
	return WindowTitle(s.Title())
}

// WindowTitle formats a window title for header.
func WindowTitle(header string) string {
	return fmt.Sprintf("%s - %s", header, models.ProductName)
}

// Init seeds the shell from command line arguments. Directories are opened
// as projects and everything else as tabs, in argument order. A blank tab is
// opened when no tab exists afterwards.
func (s *Shell) Init(args []string) []Effect {
	for _, arg := range args {
		s.openPath(arg)
	}
	if s.tabs.Len() == 0 {
		s.tabs.Open("")
	}
	return []Effect{s.emitTitle()}
}

// Reduce applies msg to the shell state and returns the effects the driver
// has to carry out. Unknown messages are ignored.
func (s *Shell) Reduce(msg tea.Msg) []Effect {
	switch msg := msg.(type) {
	case NewMsg:
		s.tabs.Open("")
		return []Effect{s.emitTitle()}

	case RequestOpenDialogMsg:
		return []Effect{SpawnDialog{Kind: dialog.KindOpen}}

	case OpenPathMsg:
		if msg.Path == "" {
			return nil
		}
		s.openPath(msg.Path)
		return []Effect{s.emitTitle()}

	case SaveMsg:
		return s.save()

	case SaveAsMsg:
		s.saveAs(msg.Tab, msg.Path)
		return []Effect{s.emitTitle()}

	case ActivateTabMsg:
		if err := s.tabs.Activate(msg.ID); err != nil {
			s.logger.WithError(err).Warn("failed to activate tab")
		}
		return []Effect{s.emitTitle()}

	case CloseTabMsg:
		id := msg.ID
		if id == 0 {
			if t := s.tabs.Active(); t != nil {
				id = t.ID
			}
		}
		if err := s.tabs.Close(id); err != nil {
			s.logger.WithError(err).Warn("failed to close tab")
		}
		return []Effect{s.emitTitle()}

	case SelectNavEntryMsg:
		return s.selectEntry(msg.ID)

	case SetWrapMsg:
		s.config.Wrap = msg.Wrap
		s.tabs.ApplyConfig(s.config)
		return nil
	}
	return nil
}

func (s *Shell) emitTitle() EmitTitle {
	s.header = s.Title()
	return EmitTitle{Header: s.header, Window: WindowTitle(s.header)}
}

// openPath opens a directory as a project or a file as a tab. A path that
// is already open as a tab or a project root is not opened again.
func (s *Shell) openPath(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if node, err := tree.Classify(s.fs, path); err == nil && node.IsFolder() {
		if s.projectOpen(path) {
			s.logger.WithField("path", path).Debug("project already open")
			return
		}
		if _, err := s.nav.OpenProject(path); err != nil {
			return
		}
		s.record(history.KindProject, path)
		return
	}
	s.openFile(path)
}

func (s *Shell) projectOpen(path string) bool {
	for _, id := range s.nav.Roots() {
		if node, ok := s.nav.Node(id); ok && filepath.Clean(node.Path) == path {
			return true
		}
	}
	return false
}

func (s *Shell) openFile(path string) {
	if existing := s.tabs.FindByPath(path); existing != nil {
		if err := s.tabs.Activate(existing.ID); err != nil {
			s.logger.WithError(err).Warn("failed to activate tab")
		}
		return
	}
	s.tabs.Open(path)
	s.record(history.KindFile, path)
}

func (s *Shell) selectEntry(id tree.ID) []Effect {
	node, err := s.nav.Select(id)
	switch {
	case errors.Is(err, tree.ErrUnknownID):
		s.logger.WithError(err).Warn("failed to select navigation entry")
		return nil
	case err != nil:
		// Filesystem failures are already logged by the tree.
		return nil
	}
	if node.IsFolder() {
		return nil
	}
	s.openFile(node.Path)
	return []Effect{s.emitTitle()}
}

func (s *Shell) save() []Effect {
	active := s.tabs.Active()
	if active == nil {
		s.logger.Warn("save requested with no active tab")
		return nil
	}
	if !active.HasPath() {
		return []Effect{SpawnDialog{Kind: dialog.KindSave, Tab: active.ID}}
	}
	if err := s.tabs.Save(active.ID); err != nil {
		s.logger.WithError(err).WithField("path", active.Path()).Error("failed to save")
	}
	return nil
}

func (s *Shell) saveAs(id tabs.ID, path string) {
	if id == 0 {
		active := s.tabs.Active()
		if active == nil {
			s.logger.Warn("save requested with no active tab")
			return
		}
		id = active.ID
	}
	if path == "" {
		return
	}
	if err := s.tabs.SaveAs(id, path); err != nil {
		if errors.Is(err, tabs.ErrUnknownTab) || errors.Is(err, tabs.ErrPathOpen) {
			s.logger.WithError(err).Warn("failed to save tab")
			return
		}
		s.logger.WithError(err).WithField("path", path).Error("failed to save")
		return
	}
	s.record(history.KindFile, path)
}

func (s *Shell) record(kind history.Kind, path string) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.Background(), kind, path); err != nil {
		s.logger.WithError(err).WithField("path", path).Warn("failed to record history")
	}
}

// Update reduces msg and turns the effects into bubbletea commands.
func (s *Shell) Update(msg tea.Msg) tea.Cmd {
	return s.Commands(s.Reduce(msg))
}

// Commands maps effects to bubbletea commands. Dialogs run off the update
// loop and re-enter it as OpenPathMsg or SaveAsMsg, or not at all when
// cancelled.
func (s *Shell) Commands(effects []Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case EmitTitle:
			cmds = append(cmds, tea.SetWindowTitle(e.Window))
		case SpawnDialog:
			cmds = append(cmds, s.dialogCmd(e))
		}
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Batch(cmds...)
}

func (s *Shell) dialogCmd(e SpawnDialog) tea.Cmd {
	picker := s.picker
	logger := s.logger
	return func() tea.Msg {
		msg, err := resolveDialog(context.Background(), picker, e)
		if err != nil {
			logger.WithError(err).WithField("dialog", e.Kind.String()).Error("file dialog failed")
			return nil
		}
		return msg
	}
}

// resolveDialog runs the picker and builds the follow-up command. It returns
// a nil message when the user cancelled.
func resolveDialog(ctx context.Context, picker dialog.Picker, e SpawnDialog) (tea.Msg, error) {
	path, ok, err := dialog.Pick(ctx, picker, e.Kind)
	if err != nil || !ok {
		return nil, err
	}
	if e.Kind == dialog.KindSave {
		return SaveAsMsg{Tab: e.Tab, Path: path}, nil
	}
	return OpenPathMsg{Path: path}, nil
}

// Apply reduces msg synchronously, running dialogs inline and feeding their
// results back until nothing is left to do.
func (s *Shell) Apply(ctx context.Context, msg tea.Msg) error {
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, e := range s.Reduce(next) {
			d, ok := e.(SpawnDialog)
			if !ok {
				continue
			}
			follow, err := resolveDialog(ctx, s.picker, d)
			if err != nil {
				return fmt.Errorf("%s dialog: %w", d.Kind, err)
			}
			if follow != nil {
				queue = append(queue, follow)
			}
		}
	}
	return nil
}

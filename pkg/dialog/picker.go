package dialog

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Default chooser commands. The chosen path is read from stdout.
const (
	DefaultOpenCommand = "zenity --file-selection"
	DefaultSaveCommand = "zenity --file-selection --save --confirm-overwrite"
)

// ErrNoCommand is returned when a Command picker has nothing to run.
var ErrNoCommand = errors.New("no dialog command configured")

// Kind selects between the open and save dialogs.
type Kind int

const (
	KindOpen Kind = iota
	KindSave
)

func (k Kind) String() string {
	if k == KindSave {
		return "save"
	}
	return "open"
}

// Picker asks the user for a path. ok is false when the user cancelled.
type Picker interface {
	PickFile(ctx context.Context) (path string, ok bool, err error)
	PickSaveFile(ctx context.Context) (path string, ok bool, err error)
}

// Pick dispatches to the picker method matching kind.
func Pick(ctx context.Context, p Picker, kind Kind) (string, bool, error) {
	if kind == KindSave {
		return p.PickSaveFile(ctx)
	}
	return p.PickFile(ctx)
}

// Command runs an external chooser program.
type Command struct {
	openArgs []string
	saveArgs []string
	logger   *logrus.Entry
}

// NewCommand builds a picker from whitespace separated command lines.
func NewCommand(openCommand, saveCommand string, logger *logrus.Entry) *Command {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &Command{
		openArgs: strings.Fields(openCommand),
		saveArgs: strings.Fields(saveCommand),
		logger:   logger.WithField("sub-component", "dialog"),
	}
}

func (c *Command) PickFile(ctx context.Context) (string, bool, error) {
	return c.run(ctx, c.openArgs)
}

func (c *Command) PickSaveFile(ctx context.Context) (string, bool, error) {
	return c.run(ctx, c.saveArgs)
}

// run treats exit status 1 and empty output as a cancelled dialog.
func (c *Command) run(ctx context.Context, args []string) (string, bool, error) {
	if len(args) == 0 {
		return "", false, ErrNoCommand
	}
	c.logger.WithField("command", strings.Join(args, " ")).Debug("running file dialog")

	out, err := exec.CommandContext(ctx, args[0], args[1:]...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("run %s: %w", args[0], err)
	}

	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", false, nil
	}
	return path, true, nil
}

// Static answers with fixed paths. An empty path means cancelled.
type Static struct {
	Open string
	Save string
	Err  error
}

func (s Static) PickFile(context.Context) (string, bool, error) {
	return s.Open, s.Open != "" && s.Err == nil, s.Err
}

func (s Static) PickSaveFile(context.Context) (string, bool, error) {
	return s.Save, s.Save != "" && s.Err == nil, s.Err
}

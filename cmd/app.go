package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattsolo1/grove-editor/cmd/config"
	"github.com/mattsolo1/grove-editor/pkg/dialog"
	"github.com/mattsolo1/grove-editor/pkg/history"
	"github.com/mattsolo1/grove-editor/pkg/shell"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// App is built once before any subcommand runs.
type App struct {
	Settings config.Settings
	Logger   *logrus.Logger
	History  *history.Store
	logFile  io.Closer
}

// NewApp sets up logging and, when enabled, the history store. A history
// database that cannot be opened is logged and skipped.
func NewApp(settings config.Settings) (*App, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(settings.LogLevel)

	app := &App{Settings: settings, Logger: logger}
	if settings.LogFile != "" {
		if err := app.logTo(settings.LogFile); err != nil {
			return nil, err
		}
	}

	if settings.History {
		store, err := history.Open(settings.DataDir)
		if err != nil {
			logger.WithError(err).Warn("history disabled")
		} else {
			app.History = store
		}
	}
	return app, nil
}

// LogToDataDir moves logging off the terminal, into <data_dir>/ged.log,
// unless a log file was configured explicitly.
func (a *App) LogToDataDir() error {
	if a.logFile != nil {
		return nil
	}
	return a.logTo(filepath.Join(a.Settings.DataDir, "ged.log"))
}

func (a *App) logTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	a.logFile = f
	a.Logger.SetOutput(f)
	return nil
}

// NewShell builds a shell on the real filesystem that records opened paths
// in the history. A nil picker uses the configured dialog commands.
func (a *App) NewShell(picker dialog.Picker) *shell.Shell {
	return a.newShell(picker, a.History != nil)
}

// NewStateShell builds a shell for printing state. It never shows dialogs
// and leaves the history untouched.
func (a *App) NewStateShell() *shell.Shell {
	return a.newShell(dialog.Static{}, false)
}

func (a *App) newShell(picker dialog.Picker, record bool) *shell.Shell {
	entry := logrus.NewEntry(a.Logger).WithField("component", "ged")
	if picker == nil {
		picker = dialog.NewCommand(a.Settings.OpenCommand, a.Settings.SaveCommand, entry)
	}
	opts := shell.Options{
		Fs:     afero.NewOsFs(),
		Picker: picker,
		Config: a.Settings.Config(),
		Logger: entry,
	}
	if record {
		opts.Recorder = a.History
	}
	return shell.New(opts)
}

// Close releases the history store and log file.
func (a *App) Close() error {
	var firstErr error
	if a.History != nil {
		if err := a.History.Close(); err != nil {
			firstErr = err
		}
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.Logger.SetOutput(os.Stderr)
		a.logFile = nil
	}
	return firstErr
}

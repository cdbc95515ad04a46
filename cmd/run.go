package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/mattsolo1/grove-editor/internal/tui"
	"github.com/mattsolo1/grove-editor/pkg/shell"
	"github.com/spf13/cobra"
)

// NewRunE returns the root command action: open each argument and start the
// editor. Without a terminal the resulting state is printed instead.
func NewRunE(app **App) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a := *app

		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			s := a.NewStateShell()
			s.Init(args)
			return writeSnapshot(cmd.OutOrStdout(), s)
		}

		// The alternate screen owns the terminal, so logs go to a file.
		if err := a.LogToDataDir(); err != nil {
			return err
		}
		s := a.NewShell(nil)
		s.Init(args)

		p := tea.NewProgram(tui.New(s), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	}
}

func writeSnapshot(w io.Writer, s *shell.Shell) error {
	out, err := s.Snapshot().YAML()
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	_, err = w.Write(out)
	return err
}

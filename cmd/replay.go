package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattsolo1/grove-editor/pkg/dialog"
	"github.com/mattsolo1/grove-editor/pkg/shell"
	"github.com/spf13/cobra"
)

// NewReplayCmd creates the `ged replay` command.
func NewReplayCmd(app **App) *cobra.Command {
	var (
		pickOpen string
		pickSave string
	)

	cmd := &cobra.Command{
		Use:   "replay <script|-> [path...]",
		Short: "Run a command script against the editor and print the result",
		Long: `Start the editor headless with the given paths, apply every command in
the script and print the final state as YAML. Use - to read the script from
stdin.

Script commands, one per line:
  new | open [PATH] | save | save-as PATH | activate ID | close [ID]
  select ID | wrap on|off | # comment

Dialogs are answered by --pick-open and --pick-save when given, otherwise by
the configured dialog commands.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			msgs, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			var picker dialog.Picker
			if pickOpen != "" || pickSave != "" {
				picker = dialog.Static{Open: pickOpen, Save: pickSave}
			}
			s := (*app).NewShell(picker)
			s.Init(args[1:])

			for i, msg := range msgs {
				if err := s.Apply(ctx, msg); err != nil {
					return fmt.Errorf("command %d: %w", i+1, err)
				}
			}
			return writeSnapshot(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().StringVar(&pickOpen, "pick-open", "", "Answer open dialogs with this path")
	cmd.Flags().StringVar(&pickSave, "pick-save", "", "Answer save dialogs with this path")

	return cmd
}

func readScript(stdin io.Reader, name string) ([]tea.Msg, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open script: %w", err)
		}
		defer f.Close()
		r = f
	}
	msgs, err := shell.ParseScript(r)
	if err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return msgs, nil
}

package cmd

import "github.com/spf13/cobra"

// NewStateCmd creates the `ged state` command.
func NewStateCmd(app **App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state [path...]",
		Short: "Print the editor state after opening paths",
		Long: `Open each path the way the editor would and print the resulting
navigation tree and tabs as YAML. Directories become projects, anything else
is opened in a tab. Nothing is added to the history.

Examples:
  ged state .                # tree of the current directory
  ged state main.go go.mod   # two tabs, no projects`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := (*app).NewStateShell()
			s.Init(args)
			return writeSnapshot(cmd.OutOrStdout(), s)
		},
	}
	return cmd
}

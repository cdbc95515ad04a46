package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	grovelogging "github.com/mattsolo1/grove-core/logging"
	"github.com/mattsolo1/grove-editor/pkg/history"
	"github.com/spf13/cobra"
)

var recentUlog = grovelogging.NewUnifiedLogger("grove-editor.cmd.recent")

// NewRecentCmd creates the `ged recent` command.
func NewRecentCmd(app **App) *cobra.Command {
	var (
		recentLimit  int
		recentJSON   bool
		recentForget []string
	)

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently opened projects and files",
		Long: `List the projects and files opened most recently, newest first.

Examples:
  ged recent                 # last 20 entries
  ged recent -n 0            # everything
  ged recent --forget ./old  # drop a path from the list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store := (*app).History
			if store == nil {
				return fmt.Errorf("history is disabled")
			}

			for _, path := range recentForget {
				if err := store.Forget(ctx, path); err != nil {
					return fmt.Errorf("forget %s: %w", path, err)
				}
			}

			entries, err := store.Recent(ctx, recentLimit)
			if err != nil {
				return fmt.Errorf("list recent: %w", err)
			}

			if len(entries) == 0 {
				pretty := "No recent files"
				if recentJSON {
					pretty = "[]"
				}
				recentUlog.Info("No recent files").
					Pretty(pretty).
					PrettyOnly().
					Log(ctx)
				return nil
			}

			if recentJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(entries)
			}
			return printRecentTable(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&recentJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringArrayVar(&recentForget, "forget", nil, "Remove a path from the history before listing")

	return cmd
}

func printRecentTable(out io.Writer, entries []history.Entry) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KIND\tOPENED\tCOUNT\tPATH")
	fmt.Fprintln(w, "-------\t----------------\t-----\t----")

	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Kind, e.OpenedAt.Local().Format("2006-01-02 15:04"), e.OpenCount, e.Path)
	}

	return w.Flush()
}

package main

import (
	"os"

	"github.com/mattsolo1/grove-core/cli"
	"github.com/mattsolo1/grove-editor/cmd"
	"github.com/mattsolo1/grove-editor/cmd/config"
	"github.com/spf13/cobra"
)

var app *cmd.App

func main() {
	rootCmd := cli.NewStandardCommand(
		"ged",
		"A terminal editor shell over a lazily expanded project tree",
	)
	rootCmd.Use = "ged [path...]"
	rootCmd.Long = `Open files and project directories in tabs and a navigation tree.

Each argument that is a directory is opened as a project; anything else is
opened in a tab. Without a terminal the resulting state is printed as YAML.`
	rootCmd.Args = cobra.ArbitraryArgs
	config.AddGlobalFlags(rootCmd)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// This runs once before any subcommand
		config.InitConfig()
		settings, err := config.Load()
		if err != nil {
			return err
		}
		app, err = cmd.NewApp(settings)
		return err
	}
	rootCmd.PersistentPostRunE = func(c *cobra.Command, args []string) error {
		return app.Close()
	}
	rootCmd.RunE = cmd.NewRunE(&app)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewStateCmd(&app))
	rootCmd.AddCommand(cmd.NewReplayCmd(&app))
	rootCmd.AddCommand(cmd.NewRecentCmd(&app))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

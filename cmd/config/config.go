package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattsolo1/grove-editor/pkg/dialog"
	"github.com/mattsolo1/grove-editor/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings are the resolved runtime options. Values come from flags, GED_*
// environment variables and built-in defaults, in that order.
type Settings struct {
	Wrap        bool
	LogLevel    logrus.Level
	LogFile     string
	DataDir     string
	History     bool
	OpenCommand string
	SaveCommand string
}

// Config returns the editor options broadcast to documents.
func (s Settings) Config() models.Config {
	return models.Config{Wrap: s.Wrap}
}

func InitConfig() {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("GED")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Set defaults
	viper.SetDefault("wrap", models.DefaultConfig().Wrap)
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_file", "")
	viper.SetDefault("data_dir", defaultDataDir())
	viper.SetDefault("history", true)
	viper.SetDefault("dialog.open_command", dialog.DefaultOpenCommand)
	viper.SetDefault("dialog.save_command", dialog.DefaultSaveCommand)
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "ged")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "ged")
}

// Load resolves the current settings.
func Load() (Settings, error) {
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid log_level: %w", err)
	}
	dataDir := viper.GetString("data_dir")
	if dataDir == "" {
		return Settings{}, fmt.Errorf("data_dir must not be empty")
	}
	return Settings{
		Wrap:        viper.GetBool("wrap"),
		LogLevel:    level,
		LogFile:     viper.GetString("log_file"),
		DataDir:     dataDir,
		History:     viper.GetBool("history"),
		OpenCommand: viper.GetString("dialog.open_command"),
		SaveCommand: viper.GetString("dialog.save_command"),
	}, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.Bool("wrap", false, "Soft-wrap long lines")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Write logs to this file instead of stderr")
	flags.String("data-dir", "", "Directory for history and logs (default is $HOME/.local/share/ged)")
	flags.Bool("history", true, "Record opened projects and files")

	cobra.CheckErr(viper.BindPFlag("wrap", flags.Lookup("wrap")))
	cobra.CheckErr(viper.BindPFlag("log_level", flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag("log_file", flags.Lookup("log-file")))
	cobra.CheckErr(viper.BindPFlag("data_dir", flags.Lookup("data-dir")))
	cobra.CheckErr(viper.BindPFlag("history", flags.Lookup("history")))
}

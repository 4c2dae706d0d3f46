package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qbank/internal/logging"
	"qbank/internal/store"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create ~/.qbank/config.toml",
	}
	cmd.AddCommand(newConfigPathCmd(app))
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigInitCmd(app))
	return cmd
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": path})
		},
	}
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the config file merged over defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, app.cfg)
		},
	}
}

func newConfigInitCmd(app *App) *cobra.Command {
	var (
		user    string
		server  string
		dataDir string
		level   string
		logFile string
		theme   string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("config already exists: %s (use --force to overwrite)", path))
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return writeErr(cmd, err)
			}
			if _, err := logging.ParseLevel(level); err != nil {
				return writeErr(cmd, err)
			}
			switch theme {
			case "light", "dark", "auto":
			default:
				return writeErr(cmd, fmt.Errorf("invalid theme %q (light|dark|auto)", theme))
			}

			cfg := store.DefaultConfig()
			cfg.User = user
			cfg.Server = server
			cfg.DataDir = dataDir
			cfg.Log.Level = level
			cfg.Log.File = logFile
			cfg.TUI.Theme = theme
			if err := store.SaveConfig(&cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"path": path, "config": cfg})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Current user id")
	cmd.Flags().StringVar(&server, "server", "", "Base URL of a qbank server")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data dir (default ~/.qbank/data)")
	cmd.Flags().StringVar(&level, "log-level", "warn", "Log level")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Log file for TUI sessions")
	cmd.Flags().StringVar(&theme, "theme", "auto", "TUI theme (light|dark|auto)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

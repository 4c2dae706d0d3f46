package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"qbank/internal/client"
	"qbank/internal/format"
	"qbank/internal/logging"
	"qbank/internal/nav"
	"qbank/internal/resources"
	"qbank/internal/store"
	"qbank/internal/tui"
)

type App struct {
	Dir        string
	Server     string
	UserID     string
	LogLevel   string
	PrettyJSON bool
	Format     string

	cfg store.GlobalConfig
	log zerolog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "qbank",
		Short:        "Question bank manager (TUI, CLI and API server)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  qbank --user u1

  # Scriptable commands
  qbank projects list
  qbank banks create --project proj-abc12345 --title "Mechanics"

  # Share one database between several clients
  qbank serve --addr 127.0.0.1:7410
  qbank --server http://127.0.0.1:7410 projects list
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.resolve(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("QBANK_DIR", ""), "Data dir holding qbank.sqlite (default: data_dir from config, then ~/.qbank/data)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("QBANK_SERVER", ""), "Base URL of a running `qbank serve`; when set, no local database is opened")
	cmd.PersistentFlags().StringVar(&app.UserID, "user", envOr("QBANK_USER", ""), "Current user id (projects are scoped to it)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("QBANK_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("QBANK_FORMAT", format.JSON), "Output format (json|edn|toml)")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newBanksCmd(app))
	cmd.AddCommand(newQuestionsCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// resolve fills unset flags from the config file. Flags and QBANK_* env vars
// win over the file.
func (app *App) resolve(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	app.cfg = *cfg

	if app.UserID == "" {
		app.UserID = cfg.User
	}
	if app.Server == "" {
		app.Server = cfg.Server
	}
	if app.Dir == "" && app.Server == "" {
		dir, err := cfg.ResolvedDataDir()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.Dir = dir
	}
	if app.LogLevel == "" {
		app.LogLevel = cfg.Log.Level
	}
	f, err := format.Normalize(app.Format)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.Format = f

	level, err := logging.ParseLevel(app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = logging.New(cmd.ErrOrStderr(), level)
	return nil
}

// openAPI returns the HTTP client when --server is set and the local store
// otherwise. The returned func releases it.
func openAPI(ctx context.Context, app *App) (resources.API, func(), error) {
	if app.Server != "" {
		return client.New(app.Server, client.WithLogger(app.log)), func() {}, nil
	}
	db, err := (store.Store{Dir: app.Dir}).Open(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return db, func() { _ = db.Close() }, nil
}

func currentUserID(app *App) (string, error) {
	if u := strings.TrimSpace(app.UserID); u != "" {
		return u, nil
	}
	return "", errors.New("no current user; pass --user, set QBANK_USER, or set user in config.toml (`qbank config init --user <id>`)")
}

func runTUI(cmd *cobra.Command, app *App) error {
	api, closeAPI, err := openAPI(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeAPI()

	// stdout belongs to the TUI; logs go to the configured file or nowhere.
	level, _ := logging.ParseLevel(app.LogLevel)
	logFile, err := logging.Open(app.cfg.Log.File, level)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = logFile.Close() }()

	opts := tui.Options{
		API:    api,
		UserID: app.UserID,
		Theme:  app.cfg.TUI.Theme,
		Log:    logFile.Logger,
	}
	// Resume the last screen for the same user. State files are best effort.
	s := store.Store{Dir: app.Dir}
	if app.Server == "" {
		if st, err := s.LoadTUIState(); err == nil && st.UserID == app.UserID {
			opts.StartPath = st.Path
			opts.StartState = st.State
		}
		opts.OnExit = func(r nav.Route) {
			st := &store.TUIState{UserID: app.UserID, Path: r.Path, State: r.State}
			if err := s.SaveTUIState(st); err != nil {
				logFile.Logger.Warn().Err(err).Msg("save tui state")
			}
		}
	}
	return tui.Run(opts)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qbank/internal/api"
	"qbank/internal/store"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database over HTTP",
		Long: "Serve the projects/question banks/questions API backed by the local SQLite database.\n" +
			"Other qbank processes reach it with --server (or server in config.toml).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Dir == "" {
				return writeErr(cmd, errors.New("serve needs a local data dir; pass --dir or unset server in config.toml"))
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := (store.Store{Dir: app.Dir}).Open(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = db.Close() }()

			srv, err := api.NewServer(api.ServerConfig{Addr: addr, API: db, Log: app.log})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("addr", srv.Addr()).Str("db", db.Path()).Msg("serving")
			if err := srv.Run(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("QBANK_ADDR", "127.0.0.1:7410"), "Listen address")
	return cmd
}

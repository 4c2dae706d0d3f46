package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qbank/internal/web"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Browse and edit collections in a web browser",
		Long: "Serve server-rendered project, question bank and question pages that update live.\n" +
			"Uses the local database, or the API named by --server. Projects are scoped to --user.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api, closeAPI, err := openAPI(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeAPI()

			srv, err := web.NewServer(web.ServerConfig{Addr: addr, API: api, UserID: app.UserID, Log: app.log})
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info().Str("addr", srv.Addr()).Str("user", app.UserID).Msg("web ui")
			if err := srv.Run(ctx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", envOr("QBANK_WEB_ADDR", "127.0.0.1:7411"), "Listen address")
	return cmd
}

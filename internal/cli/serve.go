package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: "Serves the board API, image uploads and the remote drag session used by\n" +
			"browser clients. Stops cleanly on interrupt.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.v.GetString(cfgKeyServerAddr)
			}
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			revs := server.NewRevisions(nil)
			svc, closeFn, err := a.openService(ctx, board.WithProjector(revs))
			if err != nil {
				return err
			}
			defer closeFn()

			srv := server.New(svc,
				server.WithRevisions(revs),
				server.WithLogger(a.log),
				server.WithMaxBytes(a.v.GetInt64(cfgKeyImportMaxBytes)),
			)
			fmt.Fprintf(cmd.ErrOrStderr(), "tierboard listening on %s\n", addr)
			if err := srv.ListenAndServe(ctx, addr); err != nil {
				return sysError("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}

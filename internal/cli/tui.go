package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/paths"
	"github.com/mesh-intelligence/tierboard/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the board in the terminal",
		Long: "Drag items between tiers and the pool with the mouse, and drag a tier\n" +
			"by its handle to reorder it. Logs go to tierboard.log in the data\n" +
			"directory while the board is open.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := a.dataDir()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return sysError("create data dir: %w", err)
			}
			closeLog, err := logToFile(a.log, paths.LogFile(dataDir))
			if err != nil {
				return sysError("%w", err)
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			view := tui.NewView()
			svc, closeFn, err := a.openService(ctx, board.WithProjector(view))
			if err != nil {
				return err
			}
			defer closeFn()

			if err := tui.Run(ctx, svc, view, a.log); err != nil {
				return sysError("%w", err)
			}
			return nil
		},
	}
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
)

func newPoolCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Manage the unranked pool",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every item in the pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				n := len(svc.Snapshot().Pool)
				if err := svc.ClearPool(ctx); err != nil {
					return sysError("clear pool: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d items from the pool\n", n)
				return nil
			})
		},
	})
	return cmd
}

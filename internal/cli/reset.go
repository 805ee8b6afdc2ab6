package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
)

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard the board and start over with the default tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return userError("reset discards every tier and item; rerun with --yes to confirm")
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				if err := svc.Reset(ctx); err != nil {
					return sysError("reset: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "board reset")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the reset")
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

func newTierCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Add, edit, reorder and remove tiers",
	}
	cmd.AddCommand(
		newTierAddCmd(a),
		newTierEditCmd(a),
		newTierDeleteCmd(a),
		newTierClearCmd(a),
		newTierMoveCmd(a),
	)
	return cmd
}

func newTierAddCmd(a *app) *cobra.Command {
	var color string
	cmd := &cobra.Command{
		Use:   "add [label]",
		Short: "Append a tier at the bottom",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := ""
			if len(args) == 1 {
				label = args[0]
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				t, err := svc.AddTier(ctx, label, color)
				if err != nil {
					return userError("add tier: %w", err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), t)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added tier %s (%s)\n", t.Label, t.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "tier color as #rgb or #rrggbb (default "+types.DefaultTierColor+")")
	return cmd
}

func newTierEditCmd(a *app) *cobra.Command {
	var label, color string
	cmd := &cobra.Command{
		Use:   "edit <tier>",
		Short: "Change a tier's label or color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if label == "" && color == "" {
				return userError("edit: nothing to change (use --label or --color)")
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				id, err := resolveTier(svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				if err := svc.UpdateTier(ctx, id, label, color); err != nil {
					return userError("edit tier: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated tier %s\n", id)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&color, "color", "", "new color as #rgb or #rrggbb")
	return cmd
}

func newTierDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <tier>",
		Short: "Remove a tier; its items return to the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				id, err := resolveTier(svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				if err := svc.DeleteTier(ctx, id); err != nil {
					return sysError("delete tier: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted tier %s\n", id)
				return nil
			})
		},
	}
}

func newTierClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <tier>",
		Short: "Move every item in a tier back to the pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				id, err := resolveTier(svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				if err := svc.ClearTier(ctx, id); err != nil {
					return userError("clear tier: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleared tier %s\n", id)
				return nil
			})
		},
	}
}

func newTierMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <tier> <index>",
		Short: "Move a tier to a zero-based row position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := strconv.Atoi(args[1])
			if err != nil {
				return userError("index %q: must be an integer", args[1])
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				id, err := resolveTier(svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				if err := svc.MoveTier(ctx, id, idx); err != nil {
					return sysError("move tier: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved tier %s to %d\n", id, svc.Snapshot().TierIndex(id))
				return nil
			})
		},
	}
}

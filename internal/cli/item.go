package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
)

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Create, move and delete items",
	}
	cmd.AddCommand(newItemAddCmd(a), newItemDeleteCmd(a), newItemMoveCmd(a))
	return cmd
}

func newItemAddCmd(a *app) *cobra.Command {
	var image string
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add an item to the pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				it, err := svc.CreateItem(ctx, text, image)
				if err != nil {
					return userError("add item: %w", err)
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), it)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", it.Label(), it.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "image URL or data URI")
	return cmd
}

func newItemDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item>",
		Short: "Delete an item wherever it is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				id, err := resolveItem(svc.Snapshot(), args[0])
				if err != nil {
					return err
				}
				if err := svc.DeleteItem(ctx, id); err != nil {
					return sysError("delete item: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted item %s\n", id)
				return nil
			})
		},
	}
}

func newItemMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <item> <tier|pool>",
		Short: "Move an item to the end of a tier or the pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				b := svc.Snapshot()
				id, err := resolveItem(b, args[0])
				if err != nil {
					return err
				}
				target, err := resolveContainer(b, args[1])
				if err != nil {
					return err
				}
				if err := svc.MoveItem(ctx, id, target); err != nil {
					return sysError("move item: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "moved %s to %s\n", id, target)
				return nil
			})
		},
	}
}

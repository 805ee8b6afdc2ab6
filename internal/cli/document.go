package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/document"
)

func newExportCmd(a *app) *cobra.Command {
	var stdout bool
	cmd := &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write the board to a JSON document",
		Long:  "Without FILE the document is written to tierlist_<unixmillis>.json in the\ncurrent directory. Use - or --stdout to print it.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				data, err := document.Encode(svc.Snapshot())
				if err != nil {
					return sysError("%w", err)
				}
				path := document.Filename(time.Now())
				if len(args) == 1 {
					path = args[0]
				}
				if stdout || path == "-" {
					fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return nil
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return sysError("write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported board to %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print the document instead of writing a file")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the board with a previously exported document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return userError("read %s: %w", args[0], err)
			}
			b, err := document.Decode(data)
			if err != nil {
				return userError("%s: %w", args[0], err)
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				if err := svc.Replace(ctx, b); err != nil {
					return userError("import: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d tiers and %d items\n", len(b.Tiers), b.ItemCount())
				return nil
			})
		},
	}
}

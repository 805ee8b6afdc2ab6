package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/document"
)

func newShowCmd(a *app) *cobra.Command {
	var format string
	var raw bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.jsonMode {
				format = formatJSON
			}
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				b := svc.Snapshot()
				out := cmd.OutOrStdout()
				switch format {
				case formatText:
					renderText(out, b)
				case formatJSON:
					data, err := document.Encode(b)
					if err != nil {
						return sysError("%w", err)
					}
					fmt.Fprintln(out, string(data))
				case formatMarkdown:
					md := boardMarkdown(b)
					if !raw {
						md = renderMarkdown(md, 0)
					}
					fmt.Fprint(out, md)
				default:
					return userError("unknown format %q (want text, json or markdown)", format)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, json or markdown")
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without terminal styling")
	return cmd
}

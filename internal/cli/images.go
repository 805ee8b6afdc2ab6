package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/ingest"
)

func newImportImagesCmd(a *app) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "import-images FILE...",
		Short: "Add image files to the pool",
		Long: "Each file becomes a pool item named after the file. Files that are not\n" +
			"images or exceed import.max_bytes are reported and skipped; the rest are\n" +
			"added together.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *board.Service) error {
				return a.importImages(ctx, cmd, svc, args, quiet)
			})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}

func (a *app) importImages(ctx context.Context, cmd *cobra.Command, svc *board.Service, args []string, quiet bool) error {
	errOut := cmd.ErrOrStderr()
	opts := []ingest.Option{
		ingest.WithLogger(a.log),
		ingest.WithMaxBytes(a.v.GetInt64(cfgKeyImportMaxBytes)),
	}
	if !quiet && !a.flags.jsonMode {
		opts = append(opts, ingest.WithProgress(func(done, total int) {
			fmt.Fprintf(errOut, "Processing %d of %d\n", done, total)
		}))
	}

	files := make([]ingest.File, len(args))
	for i, p := range args {
		files[i] = ingest.FromPath(p)
	}

	res, err := ingest.NewPipeline(svc, opts...).Import(ctx, files)
	if err != nil {
		return sysError("import: %w", err)
	}

	if a.flags.jsonMode {
		type failure struct {
			Name  string `json:"name"`
			Error string `json:"error"`
		}
		out := struct {
			Succeeded int       `json:"succeeded"`
			Failed    int       `json:"failed"`
			Failures  []failure `json:"failures"`
		}{Succeeded: res.Succeeded, Failed: res.Failed, Failures: []failure{}}
		for _, f := range res.Failures {
			out.Failures = append(out.Failures, failure{Name: f.Name, Error: f.Err.Error()})
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	for _, f := range res.Failures {
		fmt.Fprintf(errOut, "skipped %s: %v\n", f.Name, f.Err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d, failed %d\n", res.Succeeded, res.Failed)
	if res.Succeeded == 0 {
		return userError("no images imported")
	}
	return nil
}

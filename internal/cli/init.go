package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tierboard/internal/paths"
	"github.com/mesh-intelligence/tierboard/pkg/store"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize tierboard storage",
		Long: "Create the configuration and data directories, then store the default\n" +
			"board if the backend holds none yet. The backend and, when given with\n" +
			"--data-dir, the data directory are recorded in config.yaml. Running init\n" +
			"again is harmless.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return sysError("initialize %s store: %w", cfg.Backend, err)
	}
	defer st.Close()

	ctx := commandContext(cmd)
	_, err = st.Load(ctx)
	switch {
	case errors.Is(err, types.ErrNoBoard):
		if err := st.Save(ctx, types.DefaultBoard()); err != nil {
			return sysError("store default board: %w", err)
		}
	case errors.Is(err, types.ErrMalformed):
		a.log.WithError(err).Warn("stored board is malformed; leaving it in place")
	case err != nil:
		return sysError("read board: %w", err)
	}

	// Record the choices so later runs use them without flags.
	var dataDir string
	if a.flags.dataDir != "" {
		dataDir = cfg.DataDir
	}
	if err := recordInitChoices(paths.ConfigFile(a.configDir), cfg.Backend, dataDir); err != nil {
		return sysError("write config: %w", err)
	}

	if a.flags.jsonMode {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"config_file": paths.ConfigFile(a.configDir),
			"data_dir":    cfg.DataDir,
			"backend":     cfg.Backend,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tierboard initialized (%s backend, data in %s)\n", cfg.Backend, cfg.DataDir)
	return nil
}

// Package cli implements the tierboard command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tierboard/internal/board"
	"github.com/mesh-intelligence/tierboard/internal/paths"
	"github.com/mesh-intelligence/tierboard/pkg/store"
	"github.com/mesh-intelligence/tierboard/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// exitCode maps an error returned by a command to its exit code. Errors that
// carry no code are treated as user errors (bad flags, bad arguments).
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	logLevel  string
}

// app is the state shared by every command of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	log       *log.Logger
}

// NewRootCmd creates the top-level "tierboard" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: log.New()}

	root := &cobra.Command{
		Use:   "tierboard",
		Short: "Rank things into tiers by drag and drop",
		Long: "tierboard sorts a pool of items into ranked tiers. Drag items and tiers\n" +
			"around in the terminal board (tui), drive it from a browser through the\n" +
			"HTTP API (serve), or edit it directly with the commands below.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.tierboard)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: file, sqlite or redis")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newShowCmd(a),
		newTierCmd(a),
		newItemCmd(a),
		newPoolCmd(a),
		newImportImagesCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newResetCmd(a),
		newTUICmd(a),
		newServeCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tierboard:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves directories, loads the config file and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	a.configDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return sysError("%w", err)
	}
	a.v = v

	if a.flags.backend != "" {
		v.Set(cfgKeyBackend, a.flags.backend)
	}
	switch {
	case a.flags.logLevel != "":
		v.Set(cfgKeyLogLevel, a.flags.logLevel)
	case os.Getenv("DEBUG") == "1":
		v.Set(cfgKeyLogLevel, "debug")
	}
	if err := configureLogger(a.log, v.GetString(cfgKeyLogLevel), cmd.ErrOrStderr()); err != nil {
		return userError("%w", err)
	}
	return nil
}

// storeConfig assembles the backend configuration from flags and config.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError("resolve data dir: %w", err)
	}
	cfg := types.Config{
		Backend:  a.v.GetString(cfgKeyBackend),
		DataDir:  dataDir,
		RedisURL: a.v.GetString(cfgKeyRedisAddr),
		RedisKey: a.v.GetString(cfgKeyRedisKey),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, userError("config: %w", err)
	}
	return cfg, nil
}

// dataDir returns the resolved data directory.
func (a *app) dataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
	if err != nil {
		return "", sysError("resolve data dir: %w", err)
	}
	return dir, nil
}

// openService opens the configured store and loads the board. The returned
// close function releases the store.
func (a *app) openService(ctx context.Context, opts ...board.Option) (*board.Service, func(), error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, nil, sysError("open %s store: %w", cfg.Backend, err)
	}

	opts = append([]board.Option{board.WithLogger(a.log)}, opts...)
	svc := board.NewService(st, opts...)
	svc.Load(ctx)

	closeFn := func() {
		if err := st.Close(); err != nil {
			a.log.WithError(err).Warn("closing store")
		}
	}
	return svc, closeFn, nil
}

// withService runs fn against a loaded service and closes the store after.
func (a *app) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *board.Service) error) error {
	ctx := commandContext(cmd)
	svc, closeFn, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(ctx, svc)
}

// commandContext returns the command's context, or a background context when
// the command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := marshalIndent(v)
	if err != nil {
		return sysError("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

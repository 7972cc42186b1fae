// Package cli implements the admindesk command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/admindesk/internal/api"
	"github.com/mesh-intelligence/admindesk/internal/mockstore"
	"github.com/mesh-intelligence/admindesk/internal/paths"
	"github.com/mesh-intelligence/admindesk/internal/storage"
	"github.com/mesh-intelligence/admindesk/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	format    string
	verbose   bool
}

// session is the state of one invocation: the global flags, the decoded
// configuration and, once a command asks for it, the opened store.
type session struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
	logger    *slog.Logger
	stderr    io.Writer
	env       paths.Env

	kv     storage.KV
	store  *mockstore.Store
	facade *api.Facade
}

// systemError marks failures of the environment (filesystem, storage
// backend) rather than of the user's input.
type systemError struct{ err error }

func (e systemError) Error() string { return e.err.Error() }
func (e systemError) Unwrap() error { return e.err }

func sysErrorf(format string, args ...any) error {
	return systemError{fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "admindesk" command with global flags
// and all subcommands registered.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	return newRootCmd(&session{stderr: stderr, env: paths.OS()}, stdout, stderr)
}

func newRootCmd(s *session, stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "admindesk",
		Short: "Administration console over a synthetic data store",
		Long: "Admindesk manages users, products and trading orders kept by a\n" +
			"synthetic store with pluggable persistence, and serves products over REST.",
		Version: Version,
		// Errors are printed once by Run.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&s.flags.dataDir, "data-dir", "", "data directory for the file and sqlite backends (default: platform data dir)")
	pf.StringVar(&s.flags.format, "format", formatText, "output format: text, json or yaml")
	pf.BoolVarP(&s.flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(s))
	root.AddCommand(newUsersCmd(s))
	root.AddCommand(newProductsCmd(s))
	root.AddCommand(newOrdersCmd(s))
	root.AddCommand(newStatsCmd(s))
	root.AddCommand(newServeCmd(s))
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes args and returns the process exit code. Errors are printed
// to stderr.
func Run(args []string, stdout, stderr io.Writer) int {
	s := &session{stderr: stderr, env: paths.OS()}
	root := newRootCmd(s, stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if cerr := s.close(); cerr != nil && err == nil {
		err = sysErrorf("close storage: %w", cerr)
	}
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error to 2 for system failures and 1 for everything
// the user can fix.
func exitCode(err error) int {
	var se systemError
	if errors.As(err, &se) || errors.Is(err, types.ErrTransientIO) {
		return exitSysError
	}
	return exitUserError
}

// setup resolves the config directory, loads the configuration and
// installs the logger.
func (s *session) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	switch s.flags.format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q (valid: text, json, yaml)", types.ErrValidation, s.flags.format)
	}

	configDir, err := s.env.ConfigDir(s.flags.configDir)
	if err != nil {
		return sysErrorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(s.env, configDir, s.flags.dataDir)
	if err != nil {
		return err
	}
	s.configDir = configDir
	s.cfg = cfg
	s.logger = newLogger(s.stderr, s.flags.format, logLevel(cmd, s.flags.verbose))
	return nil
}

func logLevel(cmd *cobra.Command, verbose bool) slog.Level {
	switch {
	case verbose:
		return slog.LevelDebug
	case cmd.Name() == "serve":
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// newLogger logs as JSON when the output is JSON and as text otherwise.
func newLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == formatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// open connects the configured storage backend and builds the store and
// facade over it. Later calls reuse them.
func (s *session) open(ctx context.Context) (*api.Facade, error) {
	if s.facade != nil {
		return s.facade, nil
	}
	kv, err := storage.Open(ctx, s.cfg.Storage)
	if err != nil {
		return nil, sysErrorf("open %s storage: %w", s.cfg.Storage.Backend, err)
	}

	var latency mockstore.Latency
	if s.cfg.Latency.Enabled {
		latency = mockstore.DefaultLatency().Scaled(s.cfg.Latency.Scale)
	}
	s.kv = kv
	s.store = mockstore.New(kv, mockstore.Options{
		Latency:  latency,
		Fixtures: mockstore.FixturesFromConfig(s.cfg.Fixtures),
		Logger:   s.logger,
	})
	s.facade = api.New(s.store, api.Options{
		Remote: api.NewRemoteProducts(s.cfg.Remote, s.logger),
		Logger: s.logger,
	})
	s.logger.Debug("storage opened", "backend", s.cfg.Storage.Backend, "data_dir", s.cfg.Storage.DataDir)
	return s.facade, nil
}

func (s *session) close() error {
	if s.kv == nil {
		return nil
	}
	err := s.kv.Close()
	s.kv, s.store, s.facade = nil, nil, nil
	return err
}

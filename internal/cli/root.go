// Package cli implements the pretenst command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pretenst/internal/logging"
	"github.com/mesh-intelligence/pretenst/internal/paths"
	"github.com/mesh-intelligence/pretenst/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError carries the exit code a failed command should end with.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// exitCode maps an error returned by a command to a process exit code.
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

// app holds the global flags and what PersistentPreRunE derives from them.
type app struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool

	settings *settings
	logger   *slog.Logger
}

// NewRootCmd creates the top-level "pretenst" command with its global flags
// and subcommands.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:     "pretenst",
		Short:   "Grow, shape and realize tensegrity fabrics",
		Long:    "pretenst builds tensegrity fabrics from blueprints, steps them through\ntheir lifecycle and records every run.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "run store directory (env "+paths.EnvDataDir+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().BoolVar(&a.jsonMode, "json", false, "output as JSON")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newBlueprintsCmd(a),
		newRunCmd(a),
		newRunsCmd(a),
		newShowCmd(a),
		newFramesCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the matching code. An
// interrupt stops a simulation between frames.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(stderr, "pretenst:", err)
	}
	return exitCode(err)
}

// load resolves the config directory, reads config.yaml and builds the
// logger. Flags override configured values.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	configDir, err := paths.ResolveConfigDir(a.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	s, err := loadSettings(configDir)
	if err != nil {
		if errors.Is(err, types.ErrInvalidWorld) {
			return userError(err)
		}
		return sysError(err)
	}
	if a.logLevel != "" {
		s.LogLevel = a.logLevel
	}
	a.settings = s
	a.logger = logging.NewLogger(s.LogLevel, s.LogFormat, cmd.ErrOrStderr())
	return nil
}

// resolveDataDir applies the precedence --data-dir > config.yaml data_dir >
// PRETENST_DATA_DIR > platform default.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.dataDir, a.settings.DataDir)
}

// Package cli defines the term-list command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomicstack/term-list-popup/internal/app"
	"github.com/atomicstack/term-list-popup/internal/config"
	"github.com/atomicstack/term-list-popup/internal/logging"
	"github.com/atomicstack/term-list-popup/internal/telemetry"
	"github.com/spf13/cobra"
)

// Version is injected at build time with -ldflags "-X .../cli.Version=...".
var Version = "dev"

// configError marks failures that happen before any command runs.
type configError struct{ err error }

func (e *configError) Error() string { return fmt.Sprintf("configuration error: %v", e.err) }
func (e *configError) Unwrap() error { return e.err }

type rootOptions struct {
	configPath string
	cfg        *config.Config
	args       []string
}

var runPanel = app.Run

// NewRootCommand builds the command tree. args are recorded for the startup
// trace.
func NewRootCommand(args []string) *cobra.Command {
	opts := &rootOptions{args: args}
	cmd := &cobra.Command{
		Use:   "term-list",
		Short: "Searchable popup menu of open terminal tabs",
		Long: `term-list shows a panel bar with a toggle button. Opening it lists every
terminal tab the terminal's search provider knows about; type to filter with
'*' wildcards and press enter to switch to a tab.

Bind "term-list toggle" to a desktop keyboard shortcut to open and close a
running panel.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: opts.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			traceStartup(opts)
			return runPanel(cmd.Context(), opts.cfg)
		},
	}
	cmd.SetArgs(args)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the config file")
	config.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newListCommand(opts),
		newActivateCommand(opts),
		newToggleCommand(),
		newServeTmuxCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// load resolves the config for every command and configures logging.
func (o *rootOptions) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(o.configPath, os.Environ())
	if err != nil {
		return &configError{err: err}
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return &configError{err: err}
	}
	if err := config.Validate(cfg); err != nil {
		return &configError{err: err}
	}
	logging.Configure(cfg.LogFile)
	logging.SetTraceEnabled(cfg.Trace)
	o.cfg = cfg
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	telemetry.Version = Version
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := NewRootCommand(os.Args[1:]).ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	logging.Error(err)
	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}

// Package cli implements the moonunit command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/moonunit/internal/config"
	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/store"
	"github.com/roach88/moonunit/internal/suite"
)

// RootOptions holds global flags and the dependencies shared by all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	NoColor    bool

	// Registry supplies the suites. Nil uses suite.Default.
	Registry *suite.Registry
	// IDs generates run ids for history. Nil uses store.UUIDv7Generator.
	IDs store.IDGenerator
	// Clock times tests and stamps recorded runs. Nil uses engine.SystemClock.
	Clock engine.Clock
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the moonunit CLI.
func NewRootCommand(reg *suite.Registry) *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{Registry: reg})
}

// NewRootCommandWithOptions creates the root command with preset
// dependencies. Flags are parsed into opts.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "moonunit",
		Short: "MoonUnit - run registered unit-test suites",
		Long: `MoonUnit discovers the test methods of registered suites, runs each on a
fresh instance, classifies every outcome and writes an XML or JSON report.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: moonunit.yaml, moonunit.yml or moonunit.cue in the working directory)")
	cmd.PersistentFlags().BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// Execute runs the command line with args and returns the process exit
// code. Errors go to stderr, or to stdout as a JSON error response under
// --format json. Test failures are not reported twice in JSON mode; the
// command output already describes them.
func Execute(ctx context.Context, opts *RootOptions, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommandWithOptions(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	code := GetExitCode(err)
	if err == nil {
		return code
	}
	if opts.Format == "json" {
		if code != ExitFailure {
			f := &OutputFormatter{Format: "json", Writer: stdout}
			if ferr := f.Error(ErrorCode(err), err.Error(), nil); ferr != nil {
				fmt.Fprintln(stderr, "moonunit:", ferr)
			}
		}
		return code
	}
	fmt.Fprintln(stderr, "moonunit:", err)
	return code
}

func (o *RootOptions) registry() *suite.Registry {
	if o.Registry == nil {
		return suite.Default
	}
	return o.Registry
}

func (o *RootOptions) ids() store.IDGenerator {
	if o.IDs == nil {
		return store.UUIDv7Generator{}
	}
	return o.IDs
}

func (o *RootOptions) clock() engine.Clock {
	if o.Clock == nil {
		return engine.SystemClock{}
	}
	return o.Clock
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// loadConfig reads --config, or the config file found in the working
// directory, or the defaults when there is none.
func (o *RootOptions) loadConfig() (config.Config, error) {
	path := o.ConfigPath
	if path == "" {
		found, err := config.Discover(".")
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "load config", err).WithCode(ErrCodeConfig)
		}
		path = found
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "load config", err).WithCode(ErrCodeConfig)
	}
	return cfg, nil
}

// newLogger returns a text logger at Info level, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

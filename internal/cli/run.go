package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/moonunit/internal/config"
	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/report"
	"github.com/roach88/moonunit/internal/store"
)

// ValidReportFormats are the formats a run report can be written in. "text"
// writes no report file; the console output is the report.
var ValidReportFormats = []string{"xml", "json", "text"}

// RunOptions holds flags for the run command. Flags that are set override
// the config file.
type RunOptions struct {
	*RootOptions
	Output       string
	ReportFormat string
	Run          []string
	Skip         []string
	TimeoutMode  engine.TimeoutMode
	History      string
	FileLocation string
	VersionLabel string
}

// RunSummary is the result of the run command.
type RunSummary struct {
	RunID           string          `json:"run_id,omitempty"`
	Counts          engine.Counts   `json:"counts"`
	DiscoveryErrors []string        `json:"discovery_errors,omitempty"`
	Digest          string          `json:"digest"`
	Output          string          `json:"output,omitempty"`
	Failures        []string        `json:"failures,omitempty"`
	Rerun           string          `json:"rerun,omitempty"`
	Report          json.RawMessage `json:"report,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [suite...]",
		Short: "Run registered test suites",
		Long: `Run the tests of the named suites, or of every registered suite.

Each test runs on a fresh instance of its suite. Outcomes are written as a
report in discovery order and, when a history database is configured,
recorded there.

Exit codes:
  0 - All selected tests passed or were skipped
  1 - A test failed, timed out or raised an unhandled error
  2 - Command error (bad config, unknown suite, etc.)

Examples:
  moonunit run
  moonunit run Calculator --run 'Divide' --report-format json -o report.json
  moonunit run --timeout-mode preemptive --history moonunit.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuites(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "report file (default: standard output)")
	cmd.Flags().StringVar(&opts.ReportFormat, "report-format", "", "report format (xml|json|text)")
	cmd.Flags().StringArrayVar(&opts.Run, "run", nil, "regex pattern(s) over Suite/Method selecting tests to run")
	cmd.Flags().StringArrayVar(&opts.Skip, "skip", nil, "regex pattern(s) over Suite/Method selecting tests not to run")
	cmd.Flags().Var(&opts.TimeoutMode, "timeout-mode", "how time budgets are enforced (post-hoc|preemptive)")
	cmd.Flags().StringVar(&opts.History, "history", "", "SQLite database to record the run in")
	cmd.Flags().StringVar(&opts.FileLocation, "file-location", "", "report header FileLocation")
	cmd.Flags().StringVar(&opts.VersionLabel, "version-label", "", "report header Version")

	return cmd
}

// applyFlags overrides cfg with every flag the user set.
func (o *RunOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output.Path = o.Output
	}
	if flags.Changed("report-format") {
		cfg.Output.Format = o.ReportFormat
	}
	cfg.Filters.Run = append(cfg.Filters.Run, o.Run...)
	cfg.Filters.Skip = append(cfg.Filters.Skip, o.Skip...)
	if flags.Changed("timeout-mode") {
		cfg.TimeoutMode = o.TimeoutMode.String()
	}
	if flags.Changed("history") {
		cfg.History.Database = o.History
	}
	if flags.Changed("file-location") {
		cfg.Header.FileLocation = o.FileLocation
	}
	if flags.Changed("version-label") {
		cfg.Header.Version = o.VersionLabel
	}
}

func runSuites(cmd *cobra.Command, opts *RunOptions, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	opts.applyFlags(cmd, &cfg)

	if !slices.Contains(ValidReportFormats, cfg.Output.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid report format %q: must be one of %v", cfg.Output.Format, ValidReportFormats))
	}
	mode, err := cfg.EngineTimeoutMode()
	if err != nil {
		return WrapExitError(ExitCommandError, "timeout mode", err)
	}
	filters, err := cfg.RegexFilters()
	if err != nil {
		return WrapExitError(ExitCommandError, "filters", err)
	}

	names := args
	if len(names) == 0 {
		names = cfg.Suites
	}
	suites, err := opts.registry().Resolve(names...)
	if err != nil {
		return WrapExitError(ExitCommandError, "resolve suites", err).WithCode(ErrCodeUnknownSuite)
	}

	// The report owns standard output unless it goes to a file or is text.
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	reportToStdout := cfg.Output.Path == "" && cfg.Output.Format != "text" && opts.Format == "text"
	progress := stdout
	if reportToStdout || opts.Format == "json" {
		progress = stderr
	}
	console := NewConsoleListener(progress, opts.Verbose, opts.NoColor)
	logger := newLogger(stderr, opts.Verbose)
	if desc := filters.Describe(); desc != "" {
		logger.Info("filtering tests", "filters", desc)
	}

	eng := engine.New(engine.Config{
		TimeoutMode: mode,
		Filter:      filters.Match,
		Clock:       opts.clock(),
		Listener:    console,
		Logger:      logger,
	})
	result := eng.Run(cmd.Context(), suites)

	rep := report.FromResult(report.Header{
		FileLocation: cfg.Header.FileLocation,
		Version:      cfg.Header.Version,
	}, result)
	digest, err := report.Digest(rep)
	if err != nil {
		return WrapExitError(ExitCommandError, "digest report", err)
	}

	summary := RunSummary{
		Counts: rep.Counts(),
		Digest: digest,
		Output: cfg.Output.Path,
		Rerun:  rerunCommand(result.Failures(), opts.ConfigPath),
	}
	for _, derr := range result.DiscoveryErrors {
		summary.DiscoveryErrors = append(summary.DiscoveryErrors, derr.Error())
	}
	for _, e := range result.Failures() {
		summary.Failures = append(summary.Failures, e.ID.String())
	}

	if err := writeReport(cfg.Output, rep, reportToStdout, stdout, &summary, opts.Format); err != nil {
		return err
	}

	if cfg.History.Database != "" {
		runID, err := recordRun(cmd, opts, cfg.History.Database, rep)
		if err != nil {
			return err
		}
		summary.RunID = runID
		logger.Info("run recorded", "run_id", runID, "database", cfg.History.Database)
	}

	if opts.Format == "json" {
		if err := opts.formatter(cmd).Success(summary); err != nil {
			return err
		}
	} else {
		console.Summary(summary.Counts, len(summary.DiscoveryErrors))
		if summary.RunID != "" {
			console.Printf("Recorded run %s", summary.RunID)
		}
		if summary.Rerun != "" {
			console.Printf("Rerun failed tests: %s", summary.Rerun)
		}
	}

	if !summary.Counts.OK() || len(summary.DiscoveryErrors) > 0 {
		failed := summary.Counts.Failed + summary.Counts.TimedOut + summary.Counts.Unhandled
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d tests failed, %d suites failed discovery",
			failed, summary.Counts.Total, len(summary.DiscoveryErrors)))
	}
	return nil
}

// writeReport writes the report to its file, or to stdout, or into the JSON
// summary when the command output is JSON.
func writeReport(out config.Output, rep *report.Report, toStdout bool, stdout io.Writer, summary *RunSummary, format string) error {
	if out.Format == "text" {
		return nil
	}
	var (
		data []byte
		err  error
	)
	if out.Format == "json" {
		data, err = report.MarshalJSON(rep)
	} else {
		data, err = report.MarshalXML(rep)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "encode report", err)
	}

	switch {
	case out.Path != "":
		if dir := filepath.Dir(out.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return WrapExitError(ExitCommandError, "write report", err).WithCode(ErrCodeWriteFailed)
			}
		}
		if err := os.WriteFile(out.Path, data, 0o644); err != nil {
			return WrapExitError(ExitCommandError, "write report", err).WithCode(ErrCodeWriteFailed)
		}
	case toStdout:
		if _, err := stdout.Write(append(data, '\n')); err != nil {
			return WrapExitError(ExitCommandError, "write report", err).WithCode(ErrCodeWriteFailed)
		}
	case format == "json":
		if out.Format == "json" {
			summary.Report = data
		} else {
			summary.Report, err = json.Marshal(string(data))
			if err != nil {
				return WrapExitError(ExitCommandError, "encode report", err)
			}
		}
	}
	return nil
}

func recordRun(cmd *cobra.Command, opts *RunOptions, database string, rep *report.Report) (string, error) {
	s, err := store.Open(database)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "open history", err).WithCode(ErrCodeHistory)
	}
	defer s.Close()

	id := opts.ids().Generate()
	if err := s.WriteRun(cmd.Context(), id, opts.clock().Now(), rep); err != nil {
		return "", WrapExitError(ExitCommandError, "record run", err).WithCode(ErrCodeHistory)
	}
	return id, nil
}

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
	"github.com/roach88/moonunit/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	Test     string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List runs recorded in the history database, newest first.

With --test, list the outcomes of one test across recorded runs instead.

Examples:
  moonunit history --db moonunit.db
  moonunit history --db moonunit.db --test Calculator/Divide --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database (default: history.database from config)")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "maximum number of rows (0 for all)")
	cmd.Flags().StringVar(&opts.Test, "test", "", "Suite/Method to show the history of")

	return cmd
}

// openHistory opens the database named by flag, or by the config file.
func (o *RootOptions) openHistory(flag string) (*store.Store, error) {
	path := flag
	if path == "" {
		cfg, err := o.loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.History.Database
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no history database: pass --db or set history.database in the config").WithCode(ErrCodeHistory)
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open history", err).WithCode(ErrCodeHistory)
	}
	return s, nil
}

func showHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	s, err := opts.openHistory(opts.Database)
	if err != nil {
		return err
	}
	defer s.Close()

	if opts.Test != "" {
		suiteName, method, ok := strings.Cut(opts.Test, "/")
		if !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid test %q: want Suite/Method", opts.Test))
		}
		records, err := s.TestHistory(cmd.Context(), engine.TestID{Suite: suiteName, Method: method}, opts.Limit)
		if err != nil {
			return WrapExitError(ExitCommandError, "read history", err).WithCode(ErrCodeHistory)
		}
		if opts.Format == "json" {
			return opts.formatter(cmd).Success(records)
		}
		printTestHistory(cmd.OutOrStdout(), records)
		return nil
	}

	runs, err := s.ListRuns(cmd.Context(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "read history", err).WithCode(ErrCodeHistory)
	}
	if opts.Format == "json" {
		return opts.formatter(cmd).Success(runs)
	}
	printRuns(cmd.OutOrStdout(), runs)
	return nil
}

func printRuns(w io.Writer, runs []store.RunSummary) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tRECORDED\tVERSION\tTOTAL\tPASSED\tFAILED\tSKIPPED\tTIMED OUT\tUNHANDLED")
	for _, r := range runs {
		c := r.Counts
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			r.ID, r.RecordedAt.Format(time.RFC3339), r.Header.Version,
			c.Total, c.Passed, c.Failed, c.Skipped, c.TimedOut, c.Unhandled)
	}
	tw.Flush()
}

func printTestHistory(w io.Writer, records []store.TestRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded for this test.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tRECORDED\tSTATUS\tDETAIL")
	for _, r := range records {
		detail := r.Outcome.Message
		if r.Outcome.Status == outcome.StatusSkipped {
			detail = r.Outcome.SkipReason
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.RunID, r.RecordedAt.Format(time.RFC3339), r.Status, firstLine(detail))
	}
	tw.Flush()
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

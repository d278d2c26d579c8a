package cli

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/moonunit/internal/report"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database     string
	ReportFormat string
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print the report of a recorded run",
		Long: `Print the report of a recorded run, rebuilt from the history database.

Examples:
  moonunit show --db moonunit.db 0190a5e4-...
  moonunit show --db moonunit.db 0190a5e4-... --report-format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database (default: history.database from config)")
	cmd.Flags().StringVar(&opts.ReportFormat, "report-format", "xml", "report format (xml|json)")

	return cmd
}

func showRun(cmd *cobra.Command, opts *ShowOptions, runID string) error {
	if !slices.Contains([]string{"xml", "json"}, opts.ReportFormat) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid report format %q: must be xml or json", opts.ReportFormat))
	}
	s, err := opts.openHistory(opts.Database)
	if err != nil {
		return err
	}
	defer s.Close()

	rep, err := s.LoadRun(cmd.Context(), runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "load run", err).WithCode(ErrCodeHistory)
	}

	var data []byte
	if opts.ReportFormat == "json" {
		data, err = report.MarshalJSON(rep)
	} else {
		data, err = report.MarshalXML(rep)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "encode report", err)
	}

	if opts.Format == "json" {
		raw := json.RawMessage(data)
		if opts.ReportFormat == "xml" {
			if raw, err = json.Marshal(string(data)); err != nil {
				return WrapExitError(ExitCommandError, "encode report", err)
			}
		}
		return opts.formatter(cmd).Success(map[string]any{"run_id": runID, "report": raw})
	}
	_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	return err
}

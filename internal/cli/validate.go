package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/report"
)

// ValidateResult is the result of the validate command.
type ValidateResult struct {
	Valid  bool          `json:"valid"`
	Digest string        `json:"digest,omitempty"`
	Counts engine.Counts `json:"counts"`
	Error  string        `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <report.json>",
		Short: "Validate a JSON report",
		Long: `Validate a JSON report against the report schema and print its digest.

Exit codes:
  0 - Report is valid
  1 - Report does not match the schema
  2 - Command error (file not found, etc.)

Examples:
  moonunit validate report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateReport(cmd, rootOpts, args[0])
		},
	}
}

func validateReport(cmd *cobra.Command, opts *RootOptions, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "read report", err)
	}
	f := opts.formatter(cmd)

	invalid := func(err error) error {
		if opts.Format == "json" {
			if ferr := f.Error(ErrCodeInvalidReport, err.Error(), ValidateResult{Error: err.Error()}); ferr != nil {
				return ferr
			}
		}
		return WrapExitError(ExitFailure, fmt.Sprintf("%s is not a valid report", path), err).WithCode(ErrCodeInvalidReport)
	}

	if err := report.ValidateJSON(data); err != nil {
		return invalid(err)
	}
	rep, err := report.DecodeJSON(data)
	if err != nil {
		return invalid(err)
	}
	digest, err := report.Digest(rep)
	if err != nil {
		return invalid(err)
	}

	result := ValidateResult{Valid: true, Digest: digest, Counts: rep.Counts()}
	if opts.Format == "json" {
		return f.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid, %d tests, digest %s\n", path, result.Counts.Total, digest)
	return nil
}

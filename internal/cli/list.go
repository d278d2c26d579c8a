package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/moonunit/internal/suite"
)

// SuiteListing describes one registered suite.
type SuiteListing struct {
	Name  string        `json:"name"`
	Tests []TestListing `json:"tests"`
	Error string        `json:"error,omitempty"`
}

// TestListing describes one declared test.
type TestListing struct {
	Name          string `json:"name"`
	Skip          bool   `json:"skip,omitempty"`
	SkipReason    string `json:"skip_reason,omitempty"`
	TimeoutMillis int64  `json:"timeout_ms,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [suite...]",
		Short: "List registered suites and their tests",
		Long: `List registered suites and the tests they declare, in discovery order.

Examples:
  moonunit list
  moonunit list Calculator --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			suites, err := rootOpts.registry().Resolve(args...)
			if err != nil {
				return WrapExitError(ExitCommandError, "resolve suites", err).WithCode(ErrCodeUnknownSuite)
			}
			listings := listSuites(suites)
			if rootOpts.Format == "json" {
				return rootOpts.formatter(cmd).Success(listings)
			}
			printListings(cmd.OutOrStdout(), listings)
			return nil
		},
	}
}

func listSuites(suites []suite.Suite) []SuiteListing {
	listings := make([]SuiteListing, 0, len(suites))
	for _, s := range suites {
		l := SuiteListing{Name: s.Name(), Tests: []TestListing{}}
		methods, err := s.Methods()
		if err != nil {
			l.Error = err.Error()
		}
		for _, m := range methods {
			if !m.IsTest() {
				continue
			}
			l.Tests = append(l.Tests, TestListing{
				Name:          m.Name,
				Skip:          m.Declaration.Skip,
				SkipReason:    m.Declaration.SkipReason,
				TimeoutMillis: m.Declaration.TimeoutMillis,
			})
		}
		listings = append(listings, l)
	}
	return listings
}

func printListings(w io.Writer, listings []SuiteListing) {
	for _, l := range listings {
		fmt.Fprintln(w, l.Name)
		if l.Error != "" {
			fmt.Fprintf(w, "  discovery failed: %s\n", l.Error)
			continue
		}
		for _, t := range l.Tests {
			line := "  " + t.Name
			if t.TimeoutMillis > 0 {
				line += fmt.Sprintf(" (timeout %dms)", t.TimeoutMillis)
			}
			if t.Skip {
				line += fmt.Sprintf(" [skip: %s]", t.SkipReason)
			}
			fmt.Fprintln(w, line)
		}
	}
}

package engine

import (
	"slices"

	"github.com/roach88/moonunit/internal/outcome"
	"github.com/roach88/moonunit/internal/suite"
)

// TestID labels one test. It is not unique: a suite may declare the same
// method name twice and both are reported.
type TestID struct {
	Suite  string
	Method string
}

// String returns "Suite/Method".
func (id TestID) String() string {
	return id.Suite + "/" + id.Method
}

// Entry is the outcome of one discovered test.
type Entry struct {
	// Seq is the test's position in discovery order, starting at 1.
	Seq     int64
	ID      TestID
	Outcome outcome.Outcome
}

// Result is everything one run produced.
type Result struct {
	// Entries has one entry per selected test, in discovery order.
	Entries []Entry
	// DiscoveryErrors lists suites whose methods could not be listed.
	DiscoveryErrors []*suite.DiscoveryError
}

// Counts tallies entries by status.
type Counts struct {
	Total     int `json:"total"`
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	TimedOut  int `json:"timed_out"`
	Unhandled int `json:"unhandled"`
}

// OK reports whether no entry failed, timed out or raised an unhandled error.
func (c Counts) OK() bool {
	return c.Failed == 0 && c.TimedOut == 0 && c.Unhandled == 0
}

// Count tallies entries by status.
func Count(entries []Entry) Counts {
	c := Counts{Total: len(entries)}
	for _, e := range entries {
		switch e.Outcome.Status {
		case outcome.StatusPassed:
			c.Passed++
		case outcome.StatusFailed:
			c.Failed++
		case outcome.StatusSkipped:
			c.Skipped++
		case outcome.StatusTimedOut:
			c.TimedOut++
		case outcome.StatusUnhandled:
			c.Unhandled++
		}
	}
	return c
}

// Counts tallies the result's entries.
func (r *Result) Counts() Counts {
	return Count(r.Entries)
}

// Failures returns the entries that are not OK, in discovery order.
func (r *Result) Failures() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if !e.Outcome.OK() {
			out = append(out, e)
		}
	}
	return out
}

// sortEntries orders entries by Seq.
func sortEntries(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		switch {
		case a.Seq < b.Seq:
			return -1
		case a.Seq > b.Seq:
			return 1
		}
		return 0
	})
}

// Package report aggregates engine entries and serializes them.
//
// The XML encoding is the wire format read by external renderers; its element
// names and nesting are fixed. The JSON encoding carries the same data in
// RFC 8785 canonical form, so identical runs produce identical bytes and the
// same Digest.
package report

import (
	"slices"
	"sync"

	"github.com/roach88/moonunit/internal/engine"
)

// Header describes where the tested code came from.
type Header struct {
	FileLocation string `json:"file_location"`
	Version      string `json:"version"`
}

// Report is the ordered list of entries of one run plus its header.
type Report struct {
	Header  Header
	Entries []engine.Entry
}

// Counts tallies the report's entries.
func (r *Report) Counts() engine.Counts {
	return engine.Count(r.Entries)
}

// Aggregator collects entries as they arrive and returns them in discovery
// order. Entries may be recorded from several goroutines and in any order.
type Aggregator struct {
	mu      sync.Mutex
	header  Header
	entries []engine.Entry
}

// NewAggregator creates an aggregator for a run with the given header.
func NewAggregator(h Header) *Aggregator {
	return &Aggregator{header: h}
}

// Record adds one entry.
func (a *Aggregator) Record(e engine.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

// RecordAll adds entries in the order given.
func (a *Aggregator) RecordAll(entries []engine.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entries...)
}

// Report returns a snapshot with entries sorted by sequence number. Entries
// with equal numbers keep their arrival order; none are dropped.
func (a *Aggregator) Report() *Report {
	a.mu.Lock()
	defer a.mu.Unlock()
	entries := slices.Clone(a.entries)
	slices.SortStableFunc(entries, func(x, y engine.Entry) int {
		switch {
		case x.Seq < y.Seq:
			return -1
		case x.Seq > y.Seq:
			return 1
		}
		return 0
	})
	return &Report{Header: a.header, Entries: entries}
}

// FromResult builds a report from a finished run.
func FromResult(h Header, r *engine.Result) *Report {
	a := NewAggregator(h)
	a.RecordAll(r.Entries)
	return a.Report()
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
	"github.com/roach88/moonunit/internal/report"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// RunSummary describes one stored run without its entries.
type RunSummary struct {
	ID         string        `json:"id"`
	RecordedAt time.Time     `json:"recorded_at"`
	Header     report.Header `json:"header"`
	Digest     string        `json:"digest"`
	Counts     engine.Counts `json:"counts"`
}

// TestRecord is the outcome of one test in one stored run.
type TestRecord struct {
	RunID      string          `json:"run_id"`
	RecordedAt time.Time       `json:"recorded_at"`
	Outcome    outcome.Outcome `json:"-"`
	Status     string          `json:"status"`
}

// ListRuns returns stored runs, newest first. A limit <= 0 returns all runs.
// Returns an empty slice (not nil) if nothing has been recorded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT id, recorded_at, file_location, version, digest,
		       total, passed, failed, skipped, timed_out, unhandled
		FROM runs
		ORDER BY recorded_at DESC, id COLLATE BINARY DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the summary of one run.
func (s *Store) GetRun(ctx context.Context, id string) (RunSummary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, recorded_at, file_location, version, digest,
		       total, passed, failed, skipped, timed_out, unhandled
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunSummary{}, err
	}
	return run, nil
}

// LoadRun rebuilds the report stored under id, entries in their original
// order.
func (s *Store) LoadRun(ctx context.Context, id string) (*report.Report, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, class, method, status, kind, expected, actual,
		       message, stack_trace, error_type, skip_reason, elapsed_ms, budget_ms
		FROM entries
		WHERE run_id = ?
		ORDER BY ordinal ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	r := &report.Report{Header: run.Header, Entries: []engine.Entry{}}
	for rows.Next() {
		var (
			e            engine.Entry
			status, kind string
		)
		o := &e.Outcome
		if err := rows.Scan(&e.Seq, &e.ID.Suite, &e.ID.Method, &status, &kind,
			&o.Expected, &o.Actual, &o.Message, &o.StackTrace, &o.ErrorType,
			&o.SkipReason, &o.ElapsedMillis, &o.BudgetMillis); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := decodeOutcome(o, status, kind); err != nil {
			return nil, fmt.Errorf("run %s entry %d: %w", id, e.Seq, err)
		}
		r.Entries = append(r.Entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return r, nil
}

// TestHistory returns the outcomes of one test across stored runs, newest
// first.
func (s *Store) TestHistory(ctx context.Context, id engine.TestID, limit int) ([]TestRecord, error) {
	query := `
		SELECT r.id, r.recorded_at, e.status, e.kind, e.expected, e.actual,
		       e.message, e.stack_trace, e.error_type, e.skip_reason, e.elapsed_ms, e.budget_ms
		FROM entries e
		JOIN runs r ON e.run_id = r.id
		WHERE e.class = ? AND e.method = ?
		ORDER BY r.recorded_at DESC, r.id COLLATE BINARY DESC, e.ordinal ASC
	`
	args := []any{id.Suite, id.Method}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query test history: %w", err)
	}
	defer rows.Close()

	records := []TestRecord{}
	for rows.Next() {
		var (
			rec          TestRecord
			recordedAt   string
			status, kind string
		)
		o := &rec.Outcome
		if err := rows.Scan(&rec.RunID, &recordedAt, &status, &kind,
			&o.Expected, &o.Actual, &o.Message, &o.StackTrace, &o.ErrorType,
			&o.SkipReason, &o.ElapsedMillis, &o.BudgetMillis); err != nil {
			return nil, fmt.Errorf("scan test history: %w", err)
		}
		if rec.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
			return nil, fmt.Errorf("run %s: parse recorded_at: %w", rec.RunID, err)
		}
		if err := decodeOutcome(o, status, kind); err != nil {
			return nil, fmt.Errorf("run %s: %w", rec.RunID, err)
		}
		rec.Status = status
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test history: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunSummary, error) {
	var (
		run        RunSummary
		recordedAt string
	)
	c := &run.Counts
	err := row.Scan(&run.ID, &recordedAt, &run.Header.FileLocation, &run.Header.Version, &run.Digest,
		&c.Total, &c.Passed, &c.Failed, &c.Skipped, &c.TimedOut, &c.Unhandled)
	if errors.Is(err, sql.ErrNoRows) {
		return RunSummary{}, err
	}
	if err != nil {
		return RunSummary{}, fmt.Errorf("scan run: %w", err)
	}
	if run.RecordedAt, err = time.Parse(timeLayout, recordedAt); err != nil {
		return RunSummary{}, fmt.Errorf("run %s: parse recorded_at: %w", run.ID, err)
	}
	return run, nil
}

func decodeOutcome(o *outcome.Outcome, status, kind string) error {
	var ok bool
	if o.Status, ok = outcome.ParseStatus(status); !ok {
		return fmt.Errorf("unknown status %q", status)
	}
	if o.Kind, ok = outcome.ParseKind(kind); !ok {
		return fmt.Errorf("unknown kind %q", kind)
	}
	return nil
}

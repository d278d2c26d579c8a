package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/moonunit/internal/report"
)

// timeLayout is used for recorded_at so that text order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// WriteRun records a report under id. The run row and every entry are written
// in one transaction.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency - writing the same id twice
// keeps the first run and returns nil.
func (s *Store) WriteRun(ctx context.Context, id string, recordedAt time.Time, r *report.Report) error {
	digest, err := report.Digest(r)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	counts := r.Counts()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, recorded_at, file_location, version, digest, total, passed, failed, skipped, timed_out, unhandled)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		id,
		recordedAt.UTC().Format(timeLayout),
		r.Header.FileLocation,
		r.Header.Version,
		digest,
		counts.Total,
		counts.Passed,
		counts.Failed,
		counts.Skipped,
		counts.TimedOut,
		counts.Unhandled,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("write run: %w", err)
	} else if n == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries
		(run_id, ordinal, seq, class, method, status, kind, expected, actual,
		 message, stack_trace, error_type, skip_reason, elapsed_ms, budget_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("write run: prepare entries: %w", err)
	}
	defer stmt.Close()

	for i, e := range r.Entries {
		o := e.Outcome
		_, err := stmt.ExecContext(ctx,
			id,
			i,
			e.Seq,
			e.ID.Suite,
			e.ID.Method,
			o.Status.String(),
			o.Kind.String(),
			o.Expected,
			o.Actual,
			o.Message,
			o.StackTrace,
			o.ErrorType,
			o.SkipReason,
			o.ElapsedMillis,
			o.BudgetMillis,
		)
		if err != nil {
			return fmt.Errorf("write run: entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// DeleteRun removes a run and its entries. Deleting a missing run returns
// ErrRunNotFound.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

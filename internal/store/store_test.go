package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
	"github.com/roach88/moonunit/internal/report"
	"github.com/roach88/moonunit/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport() *report.Report {
	return &report.Report{
		Header: report.Header{FileLocation: "./cmd/shop", Version: "1.2.0"},
		Entries: []engine.Entry{
			{Seq: 1, ID: engine.TestID{Suite: "Cart", Method: "AddItem"}, Outcome: outcome.Passed()},
			{Seq: 2, ID: engine.TestID{Suite: "Cart", Method: "Discount"}, Outcome: outcome.Outcome{
				Status:     outcome.StatusFailed,
				Kind:       outcome.KindNotBetween,
				Expected:   "1 - 10",
				Actual:     "12",
				Message:    "discount out of range",
				StackTrace: "shop.(*Cart).Discount\n\tcart.go:42",
			}},
			{Seq: 3, ID: engine.TestID{Suite: "Cart", Method: "Legacy"}, Outcome: outcome.Skipped("not ported")},
			{Seq: 4, ID: engine.TestID{Suite: "Order", Method: "Slow"}, Outcome: outcome.TimedOut(150, 100)},
			{Seq: 5, ID: engine.TestID{Suite: "Order", Method: "Parse"}, Outcome: outcome.Unhandled("boom", "", "*errors.errorString")},
		},
	}
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, s.Close())
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "history.db"))
	assert.Error(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "2"))
}

func TestClose_MultipleCalls(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}

func TestWriteRun_LoadRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	clock := testutil.NewFakeClock()
	id := testutil.NewFixedIDGenerator("run-1").Generate()

	want := sampleReport()
	require.NoError(t, s.WriteRun(ctx, id, clock.Now(), want))

	got, err := s.LoadRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	wantDigest, err := report.Digest(want)
	require.NoError(t, err)
	gotDigest, err := report.Digest(got)
	require.NoError(t, err)
	assert.Equal(t, wantDigest, gotDigest)
}

func TestWriteRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	clock := testutil.NewFakeClock()

	require.NoError(t, s.WriteRun(ctx, "run-1", clock.Now(), sampleReport()))
	require.NoError(t, s.WriteRun(ctx, "run-1", clock.Now(), &report.Report{}))

	got, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, got.Entries, 5, "second write must not replace the first")
}

func TestWriteRun_EmptyReport(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.WriteRun(ctx, "empty", testutil.Epoch, &report.Report{}))

	got, err := s.LoadRun(ctx, "empty")
	require.NoError(t, err)
	assert.NotNil(t, got.Entries)
	assert.Empty(t, got.Entries)
}

func TestWriteRun_KeepsDuplicateIdentities(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	r := &report.Report{Entries: []engine.Entry{
		{Seq: 1, ID: engine.TestID{Suite: "S", Method: "Twice"}, Outcome: outcome.Passed()},
		{Seq: 2, ID: engine.TestID{Suite: "S", Method: "Twice"}, Outcome: outcome.Skipped("again")},
	}}
	require.NoError(t, s.WriteRun(ctx, "dup", testutil.Epoch, r))

	got, err := s.LoadRun(ctx, "dup")
	require.NoError(t, err)
	assert.Equal(t, r.Entries, got.Entries)
}

func TestListRuns_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	clock := testutil.NewFakeClock()

	for _, id := range []string{"first", "second", "third"} {
		require.NoError(t, s.WriteRun(ctx, id, clock.Now(), sampleReport()))
		clock.Advance(time.Minute)
	}

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "third", runs[0].ID)
	assert.Equal(t, "first", runs[2].ID)
	assert.True(t, runs[2].RecordedAt.Equal(testutil.Epoch))
	assert.Equal(t, engine.Counts{Total: 5, Passed: 1, Failed: 1, Skipped: 1, TimedOut: 1, Unhandled: 1}, runs[0].Counts)
	assert.Equal(t, "1.2.0", runs[0].Header.Version)
	assert.Len(t, runs[0].Digest, 64)

	limited, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestListRuns_EmptyStore(t *testing.T) {
	runs, err := createTestStore(t).ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestLoadRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.LoadRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = s.GetRun(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestDeleteRun_CascadesEntries(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	require.NoError(t, s.WriteRun(ctx, "gone", testutil.Epoch, sampleReport()))
	require.NoError(t, s.DeleteRun(ctx, "gone"))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&n))
	assert.Zero(t, n)
	assert.ErrorIs(t, s.DeleteRun(ctx, "gone"), ErrRunNotFound)
}

func TestTestHistory(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)
	clock := testutil.NewFakeClock()

	require.NoError(t, s.WriteRun(ctx, "old", clock.Now(), sampleReport()))
	clock.Advance(time.Hour)
	fixed := sampleReport()
	fixed.Entries[1].Outcome = outcome.Passed()
	require.NoError(t, s.WriteRun(ctx, "new", clock.Now(), fixed))

	history, err := s.TestHistory(ctx, engine.TestID{Suite: "Cart", Method: "Discount"}, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "new", history[0].RunID)
	assert.Equal(t, outcome.StatusPassed, history[0].Outcome.Status)
	assert.Equal(t, "old", history[1].RunID)
	assert.Equal(t, outcome.KindNotBetween, history[1].Outcome.Kind)
	assert.Equal(t, "AssertionFailed", history[1].Status)

	none, err := s.TestHistory(ctx, engine.TestID{Suite: "Cart", Method: "Missing"}, 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUUIDv7Generator(t *testing.T) {
	var gen IDGenerator = UUIDv7Generator{}
	a, b := gen.Generate(), gen.Generate()
	assert.NotEqual(t, a, b)

	parsed, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestFixedIDGenerator_SatisfiesIDGenerator(t *testing.T) {
	var gen IDGenerator = testutil.NewFixedIDGenerator("run-x")
	assert.Equal(t, "run-x", gen.Generate())
}

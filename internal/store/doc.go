// Package store provides SQLite-backed run history for MoonUnit reports.
//
// The history is append-only:
//   - runs: one row per recorded run (header, summary counts, report digest)
//   - entries: one row per report entry, keyed by its position in the report
//
// Entries are always read back ORDER BY ordinal ASC so a stored run yields the
// same report, and the same digest, that was written.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

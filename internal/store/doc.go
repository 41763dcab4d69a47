// Package store keeps the history of runs in a SQL database.
//
// Two tables hold the history:
//   - runs: one row per run with its counts, digest and the full report as JSON
//   - results: one row per scenario result, for per-check history queries
//
// # Drivers
//
//   - sqlite3 (github.com/mattn/go-sqlite3): the default, one file per history
//   - postgres (github.com/lib/pq): a shared history for CI fleets
//
// Queries are written with ? placeholders and rebound per driver by sqlx.
//
// # Ordering
//
// Lists are ordered by start time, newest first, then by run ID, so two
// runs started in the same nanosecond still list deterministically.
//
// # SQLite
//
// Connections run in WAL mode with synchronous=NORMAL, so report readers
// of "moneytck serve" never block a run being saved. Writers wait up to
// five seconds for a lock and foreign keys are enforced, so deleting a
// run removes its results.
package store

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var (
	// ErrNotFound is returned when no run has the requested ID.
	ErrNotFound = errors.New("run not found")

	// ErrConflict is returned when a different report is saved under an
	// existing run ID.
	ErrConflict = errors.New("run ID already stored with a different digest")
)

// currentSchemaVersion is the last migration; schema_version records the
// last one applied.
const currentSchemaVersion = 2

var migrations = []string{
	1: `
		CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			configuration TEXT NOT NULL,
			started_at    BIGINT NOT NULL,
			finished_at   BIGINT NOT NULL,
			strict_mode   BOOLEAN NOT NULL,
			passed        BOOLEAN NOT NULL,
			total         INTEGER NOT NULL,
			failed        INTEGER NOT NULL,
			errored       INTEGER NOT NULL,
			skipped       INTEGER NOT NULL,
			pending       INTEGER NOT NULL,
			digest        TEXT NOT NULL,
			report        TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at DESC, id);
		CREATE INDEX IF NOT EXISTS idx_runs_configuration ON runs(configuration, started_at DESC)`,
	2: `
		CREATE TABLE IF NOT EXISTS results (
			run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq         INTEGER NOT NULL,
			scenario_id TEXT NOT NULL,
			name        TEXT NOT NULL,
			check_id    TEXT NOT NULL,
			clause      TEXT NOT NULL,
			status      TEXT NOT NULL,
			message     TEXT NOT NULL,
			PRIMARY KEY (run_id, seq)
		);
		CREATE INDEX IF NOT EXISTS idx_results_check ON results(check_id, run_id)`,
}

// Store provides durable storage for run reports.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Open connects to the database at dsn and applies migrations.
// For sqlite3 the dsn is a file path; the file is created when missing.
// Opening an up to date database applies nothing.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite only supports one writer at a time, so limit connections
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(2 * time.Hour)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.driver }

// applyPragmas configures a sqlite3 connection; see the package doc.
func applyPragmas(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// migrate applies every migration above the recorded schema version, each
// in its own transaction.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}
	version, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	for v := version + 1; v <= currentSchemaVersion; v++ {
		if err := s.applyMigration(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.GetContext(ctx, &version, `SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return version, nil
}

func (s *Store) applyMigration(ctx context.Context, version int) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migrate to v%d: %w", version, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	// lib/pq and go-sqlite3 both accept several statements per Exec
	// when no arguments are bound.
	if _, err = tx.ExecContext(ctx, migrations[version]); err != nil {
		return fmt.Errorf("migrate to v%d: %w", version, err)
	}
	if _, err = tx.ExecContext(ctx, tx.Rebind(`INSERT INTO schema_version (version) VALUES (?)`), version); err != nil {
		return fmt.Errorf("migrate to v%d: record version: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("migrate to v%d: %w", version, err)
	}
	return nil
}

// isUniqueViolation reports whether err is a primary key or unique
// constraint violation of either driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

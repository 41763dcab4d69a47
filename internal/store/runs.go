package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/report"
)

// RunSummary is the listing entry of a stored run.
type RunSummary struct {
	ID            string    `json:"run_id"`
	Configuration string    `json:"configuration"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	Strict        bool      `json:"strict"`
	Passed        bool      `json:"passed"`
	Total         int       `json:"total"`
	Failed        int       `json:"failed"`
	Errored       int       `json:"errored"`
	Skipped       int       `json:"skipped"`
	Pending       int       `json:"pending"`
	Digest        string    `json:"digest"`
}

type runRow struct {
	ID            string `db:"id"`
	Configuration string `db:"configuration"`
	StartedAt     int64  `db:"started_at"`
	FinishedAt    int64  `db:"finished_at"`
	Strict        bool   `db:"strict_mode"`
	Passed        bool   `db:"passed"`
	Total         int    `db:"total"`
	Failed        int    `db:"failed"`
	Errored       int    `db:"errored"`
	Skipped       int    `db:"skipped"`
	Pending       int    `db:"pending"`
	Digest        string `db:"digest"`
	Report        string `db:"report"`
}

func (r runRow) summary() RunSummary {
	return RunSummary{
		ID:            r.ID,
		Configuration: r.Configuration,
		StartedAt:     fromNanos(r.StartedAt),
		FinishedAt:    fromNanos(r.FinishedAt),
		Strict:        r.Strict,
		Passed:        r.Passed,
		Total:         r.Total,
		Failed:        r.Failed,
		Errored:       r.Errored,
		Skipped:       r.Skipped,
		Pending:       r.Pending,
		Digest:        r.Digest,
	}
}

type resultRow struct {
	RunID      string `db:"run_id"`
	Seq        int    `db:"seq"`
	ScenarioID string `db:"scenario_id"`
	Name       string `db:"name"`
	CheckID    string `db:"check_id"`
	Clause     string `db:"clause"`
	Status     string `db:"status"`
	Message    string `db:"message"`
}

func (r resultRow) result() harness.ScenarioResult {
	return harness.ScenarioResult{
		ID:      r.ScenarioID,
		Name:    r.Name,
		CheckID: r.CheckID,
		Clause:  r.Clause,
		Status:  harness.Status(r.Status),
		Message: r.Message,
	}
}

const summaryColumns = `id, configuration, started_at, finished_at, strict_mode, passed, total, failed, errored, skipped, pending, digest`

// SaveRun stores r and its scenario results in one transaction.
// Saving the same report twice is a no-op; saving a different report under
// a stored run ID returns ErrConflict.
func (s *Store) SaveRun(ctx context.Context, r *report.Report) (err error) {
	data, err := marshalReport(r)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	row := runRow{
		ID:            r.RunID,
		Configuration: r.Configuration,
		StartedAt:     toNanos(r.StartedAt),
		FinishedAt:    toNanos(r.FinishedAt),
		Strict:        r.Strict,
		Passed:        r.Passed,
		Total:         r.Summary.Total,
		Failed:        r.Summary.Failed,
		Errored:       r.Summary.Errored,
		Skipped:       r.Summary.Skipped,
		Pending:       r.Summary.Pending,
		Digest:        r.Digest,
		Report:        data,
	}
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO runs
		(id, configuration, started_at, finished_at, strict_mode, passed, total, failed, errored, skipped, pending, digest, report)
		VALUES (:id, :configuration, :started_at, :finished_at, :strict_mode, :passed, :total, :failed, :errored, :skipped, :pending, :digest, :report)
	`, row)
	if err != nil {
		if isUniqueViolation(err) {
			tx.Rollback()
			return s.checkDuplicate(ctx, r)
		}
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}

	for i, res := range r.Results {
		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO results (run_id, seq, scenario_id, name, check_id, clause, status, message)
			VALUES (:run_id, :seq, :scenario_id, :name, :check_id, :clause, :status, :message)
		`, resultRow{
			RunID:      r.RunID,
			Seq:        i,
			ScenarioID: res.ID,
			Name:       res.Name,
			CheckID:    res.CheckID,
			Clause:     res.Clause,
			Status:     string(res.Status),
			Message:    res.Message,
		})
		if err != nil {
			return fmt.Errorf("save run %s: result %s: %w", r.RunID, res.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	return nil
}

// checkDuplicate decides a second save of r.RunID.
func (s *Store) checkDuplicate(ctx context.Context, r *report.Report) error {
	var digest string
	err := s.db.GetContext(ctx, &digest, s.db.Rebind(`SELECT digest FROM runs WHERE id = ?`), r.RunID)
	if err != nil {
		return fmt.Errorf("save run %s: %w", r.RunID, err)
	}
	if digest != r.Digest {
		return fmt.Errorf("save run %s: %w", r.RunID, ErrConflict)
	}
	return nil
}

// GetRun returns the stored report of id.
func (s *Store) GetRun(ctx context.Context, id string) (*report.Report, error) {
	var data string
	err := s.db.GetContext(ctx, &data, s.db.Rebind(`SELECT report FROM runs WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return unmarshalReport(data)
}

// ListOptions narrow ListRuns.
type ListOptions struct {
	// Configuration selects runs of one configuration. Empty selects all.
	Configuration string
	// Limit caps the number of runs. Zero means no limit.
	Limit int
}

// ListRuns returns stored runs, newest first.
//
// Returns an empty slice (not nil) if no run matches.
func (s *Store) ListRuns(ctx context.Context, opts ListOptions) ([]RunSummary, error) {
	var (
		where []string
		args  []any
	)
	if opts.Configuration != "" {
		where = append(where, "configuration = ?")
		args = append(args, opts.Configuration)
	}
	query := `SELECT ` + summaryColumns + ` FROM runs`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY started_at DESC, id ASC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	var rows []runRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	out := make([]RunSummary, len(rows))
	for i, r := range rows {
		out[i] = r.summary()
	}
	return out, nil
}

// LatestRun returns the newest run of configuration.
func (s *Store) LatestRun(ctx context.Context, configuration string) (RunSummary, error) {
	runs, err := s.ListRuns(ctx, ListOptions{Configuration: configuration, Limit: 1})
	if err != nil {
		return RunSummary{}, err
	}
	if len(runs) == 0 {
		return RunSummary{}, fmt.Errorf("%w: no runs of configuration %q", ErrNotFound, configuration)
	}
	return runs[0], nil
}

// Results returns the scenario results of run id in run order, optionally
// restricted to one status.
//
// Returns an empty slice (not nil) if no result matches.
func (s *Store) Results(ctx context.Context, id string, status harness.Status) ([]harness.ScenarioResult, error) {
	query := `SELECT run_id, seq, scenario_id, name, check_id, clause, status, message FROM results WHERE run_id = ?`
	args := []any{id}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY seq ASC`

	var rows []resultRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("results of run %s: %w", id, err)
	}
	out := make([]harness.ScenarioResult, len(rows))
	for i, r := range rows {
		out[i] = r.result()
	}
	return out, nil
}

// CheckOutcome is the outcome of one check in one run.
type CheckOutcome struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Status    harness.Status `json:"status"`
	Scenarios int            `json:"scenarios"`
}

// CheckHistory returns the outcome of checkID across runs, newest first.
// The status of a run is its worst scenario status.
func (s *Store) CheckHistory(ctx context.Context, checkID string, limit int) ([]CheckOutcome, error) {
	query := `
		SELECT r.id, r.started_at, res.status, COUNT(*) AS n
		FROM results res
		JOIN runs r ON r.id = res.run_id
		WHERE res.check_id = ?
		GROUP BY r.id, r.started_at, res.status
		ORDER BY r.started_at DESC, r.id ASC`
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), checkID)
	if err != nil {
		return nil, fmt.Errorf("history of %s: %w", checkID, err)
	}
	defer rows.Close()

	var out []CheckOutcome
	index := make(map[string]int)
	for rows.Next() {
		var (
			id      string
			started int64
			status  string
			n       int
		)
		if err := rows.Scan(&id, &started, &status, &n); err != nil {
			return nil, fmt.Errorf("history of %s: %w", checkID, err)
		}
		i, ok := index[id]
		if !ok {
			if limit > 0 && len(out) == limit {
				continue
			}
			index[id] = len(out)
			out = append(out, CheckOutcome{RunID: id, StartedAt: fromNanos(started), Status: harness.Status(status)})
			i = len(out) - 1
		} else if severity(harness.Status(status)) > severity(out[i].Status) {
			out[i].Status = harness.Status(status)
		}
		out[i].Scenarios += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history of %s: %w", checkID, err)
	}
	if out == nil {
		out = []CheckOutcome{}
	}
	return out, nil
}

func severity(s harness.Status) int {
	switch s {
	case harness.StatusError:
		return 4
	case harness.StatusFail:
		return 3
	case harness.StatusPending:
		return 2
	case harness.StatusPass:
		return 1
	}
	return 0
}

// DeleteRun removes run id and its results.
func (s *Store) DeleteRun(ctx context.Context, id string) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM results WHERE run_id = ?`), id); err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM runs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n == 0 {
		err = fmt.Errorf("%w: %s", ErrNotFound, id)
		return err
	}
	return tx.Commit()
}

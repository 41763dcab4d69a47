package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moneytck/internal/harness"
	"github.com/roach88/moneytck/internal/report"
	"github.com/roach88/moneytck/internal/testutil"
)

// createTestStore creates a new sqlite store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	passResult = harness.ScenarioResult{ID: "s1", Name: "4.2.1/code-shape[CHF]", CheckID: "4.2.1/code-shape", Clause: "4.2.1", Status: harness.StatusPass}
	failResult = harness.ScenarioResult{ID: "s2", Name: "4.2.2/equality[BigAmount]", CheckID: "4.2.2/equality", Clause: "4.2.2", Status: harness.StatusFail, Message: "not equal"}
	skipResult = harness.ScenarioResult{ID: "s3", Name: "4.2.2/equality[StubAmount]", CheckID: "4.2.2/equality", Clause: "4.2.2", Status: harness.StatusSkip, Message: "stub"}
)

// createTestReport builds a report with a run ID from ids and times from clock.
func createTestReport(t *testing.T, ids *testutil.SequentialIDs, clock *testutil.Clock, configuration string, results ...harness.ScenarioResult) *report.Report {
	t.Helper()
	r, err := report.New(report.Run{
		ID:            ids.Generate(),
		Configuration: configuration,
		StartedAt:     clock.Now(),
		FinishedAt:    clock.Now(),
		Results:       results,
	}, nil)
	require.NoError(t, err)
	return r
}

func newFixtures() (*testutil.SequentialIDs, *testutil.Clock) {
	return testutil.NewSequentialIDs(), testutil.NewClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), time.Second)
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was created")
	assert.Equal(t, DriverSQLite, s.Driver())
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	for i := 0; i < 3; i++ {
		s, err := Open(context.Background(), DriverSQLite, path)
		require.NoError(t, err, "iteration %d", i)

		version, err := s.schemaVersion(context.Background())
		require.NoError(t, err)
		assert.Equal(t, currentSchemaVersion, version)
		s.Close()
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported store driver")
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)
	var mode string
	require.NoError(t, s.db.Get(&mode, "PRAGMA journal_mode"))
	assert.Equal(t, "wal", mode)

	var fk int
	require.NoError(t, s.db.Get(&fk, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, fk)
}

func TestSaveRun_GetRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids, clock := newFixtures()

	r := createTestReport(t, ids, clock, "reference", passResult, failResult, skipResult)
	require.NoError(t, s.SaveRun(ctx, r))

	got, err := s.GetRun(ctx, r.RunID)
	require.NoError(t, err)
	assert.Equal(t, r.RunID, got.RunID)
	assert.Equal(t, r.Digest, got.Digest)
	assert.Equal(t, r.Summary, got.Summary)
	assert.Len(t, got.Results, 3)
}

func TestSaveRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids, clock := newFixtures()

	r := createTestReport(t, ids, clock, "reference", passResult)
	require.NoError(t, s.SaveRun(ctx, r))
	require.NoError(t, s.SaveRun(ctx, r), "saving the same report twice is a no-op")

	runs, err := s.ListRuns(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)

	results, err := s.Results(ctx, r.RunID, "")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSaveRun_Conflict(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids, clock := newFixtures()

	first := createTestReport(t, ids, clock, "reference", passResult)
	require.NoError(t, s.SaveRun(ctx, first))

	second := createTestReport(t, ids, clock, "reference", failResult)
	second.RunID = first.RunID
	err := s.SaveRun(ctx, second)
	require.ErrorIs(t, err, ErrConflict)
}

func TestGetRun_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids, clock := newFixtures()

	r1 := createTestReport(t, ids, clock, "reference", passResult)
	r2 := createTestReport(t, ids, clock, "vendor", failResult)
	r3 := createTestReport(t, ids, clock, "reference", passResult, skipResult)
	for _, r := range []*report.Report{r1, r2, r3} {
		require.NoError(t, s.SaveRun(ctx, r))
	}

	runs, err := s.ListRuns(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{r3.RunID, r2.RunID, r1.RunID}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.False(t, runs[1].Passed)
	assert.Equal(t, 1, runs[1].Failed)
	assert.True(t, runs[0].StartedAt.Equal(r3.StartedAt))

	filtered, err := s.ListRuns(ctx, ListOptions{Configuration: "reference", Limit: 1})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, r3.RunID, filtered[0].ID)

	latest, err := s.LatestRun(ctx, "vendor")
	require.NoError(t, err)
	assert.Equal(t, r2.RunID, latest.ID)

	_, err = s.LatestRun(ctx, "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListRuns_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)
	runs, err := s.ListRuns(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestResults_ByStatus(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids, clock := newFixtures()

	r := createTestReport(t, ids, clock, "reference", passResult, failResult, skipResult)
	require.NoError(t, s.SaveRun(ctx, r))

	all, err := s.Results(ctx, r.RunID, "")
	require.NoError(t, err)
	assert.Equal(t, []harness.ScenarioResult{passResult, failResult, skipResult}, all)

	failed, err := s.Results(ctx, r.RunID, harness.StatusFail)
	require.NoError(t, err)
	assert.Equal(t, []harness.ScenarioResult{failResult}, failed)
}

func TestCheckHistory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids, clock := newFixtures()

	older := createTestReport(t, ids, clock, "reference", passResult, skipResult)
	newer := createTestReport(t, ids, clock, "reference", passResult, failResult, skipResult)
	require.NoError(t, s.SaveRun(ctx, older))
	require.NoError(t, s.SaveRun(ctx, newer))

	history, err := s.CheckHistory(ctx, "4.2.2/equality", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newer.RunID, history[0].RunID)
	assert.Equal(t, harness.StatusFail, history[0].Status, "the worst status wins")
	assert.Equal(t, 2, history[0].Scenarios)
	assert.Equal(t, older.RunID, history[1].RunID)
	assert.Equal(t, harness.StatusSkip, history[1].Status)

	limited, err := s.CheckHistory(ctx, "4.2.2/equality", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	none, err := s.CheckHistory(ctx, "4.9/unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRun(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	ids, clock := newFixtures()

	r := createTestReport(t, ids, clock, "reference", passResult, failResult)
	require.NoError(t, s.SaveRun(ctx, r))
	require.NoError(t, s.DeleteRun(ctx, r.RunID))

	_, err := s.GetRun(ctx, r.RunID)
	require.ErrorIs(t, err, ErrNotFound)
	results, err := s.Results(ctx, r.RunID, "")
	require.NoError(t, err)
	assert.Empty(t, results)

	require.ErrorIs(t, s.DeleteRun(ctx, r.RunID), ErrNotFound)
}
